// Copyright 2026 The Flowpipe Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stream

import (
	"context"

	"github.com/samber/lo"
)

// Observable is a cold (re-subscribable) producer of a sequence of
// T-values terminating in at most one Complete or Error event. It is a
// factory for subscriptions, not a stream itself: nothing runs until
// Subscribe is called.
type Observable[T any] interface {
	// Subscribe attaches destination, running on sched, to this Observable.
	// The returned Subscription may be used to cancel delivery early.
	Subscribe(destination Observer[T], sched Scheduler) Subscription
	SubscribeWithContext(ctx context.Context, destination Observer[T], sched Scheduler) Subscription
}

var _ Observable[int] = (*observableImpl[int])(nil)

// NewObservable creates an Observable whose subscribe function is invoked
// once per Subscribe call, given the wrapped Subscriber it should emit to.
// subscribe returns a Teardown releasing any resources it acquired; a nil
// Teardown means there is nothing to release.
func NewObservable[T any](subscribe func(ctx context.Context, destination Subscriber[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeSafe)
}

// NewUnsafeObservable is NewObservable without per-subscriber locking; the
// caller guarantees the subscribe function never emits concurrently.
func NewUnsafeObservable[T any](subscribe func(ctx context.Context, destination Subscriber[T]) Teardown) Observable[T] {
	return NewObservableWithConcurrencyMode(subscribe, ConcurrencyModeUnsafe)
}

// NewObservableWithConcurrencyMode creates an Observable whose subscriber
// wrapping uses the given ConcurrencyMode.
func NewObservableWithConcurrencyMode[T any](subscribe func(ctx context.Context, destination Subscriber[T]) Teardown, mode ConcurrencyMode) Observable[T] {
	return &observableImpl[T]{
		mode:      mode,
		subscribe: subscribe,
	}
}

type observableImpl[T any] struct {
	mode      ConcurrencyMode
	subscribe func(ctx context.Context, destination Subscriber[T]) Teardown
}

func (o *observableImpl[T]) Subscribe(destination Observer[T], sched Scheduler) Subscription {
	return o.SubscribeWithContext(context.Background(), destination, sched)
}

// SubscribeWithContext wraps destination into a Subscriber bound to sched
// and invokes the subscribe function. A panic escaping the subscribe
// function itself (as opposed to one isolated by the SafeSubscriber layer
// around individual OnNext/OnError/OnComplete calls) is treated as a
// subscription-time construction failure: it terminates the fresh
// subscriber with an Error and cancels it immediately.
func (o *observableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T], sched Scheduler) Subscription {
	subscriber := NewSubscriberWithConcurrencyMode(destination, sched, o.mode)

	lo.TryCatchWithErrorValue(
		func() error {
			subscriber.Add(o.subscribe(ctx, subscriber))
			return nil
		},
		func(e any) {
			subscriber.OnError(newObservableError(recoverValueToError(e)))
			subscriber.Cancel()
		},
	)

	return subscriber
}

// Operator is a Subscriber[B]-to-Subscriber[A] transform: the shape every
// pipeable operator in this package is built from. Lift turns one into an
// Observable[A]-to-Observable[B] transform.
type Operator[A, B any] func(downstream Subscriber[B]) Subscriber[A]

// Lift applies op to source, producing the transformed Observable. Every
// concrete operator (Map, Filter, Reduce, ...) is expressed as a thin
// wrapper around Lift plus an Operator value.
func Lift[A, B any](source Observable[A], op Operator[A, B]) Observable[B] {
	return NewObservableWithConcurrencyMode(
		func(ctx context.Context, destination Subscriber[B]) Teardown {
			upstream := op(destination)
			subscription := source.SubscribeWithContext(ctx, upstream, destination.Sched())

			return subscription.Cancel
		},
		ConcurrencyModeSafe,
	)
}

// Collect subscribes to obs with an ImmediateScheduler, blocks until
// termination, and returns every value observed plus a terminal error, if
// any. Intended for tests and simple synchronous pipelines.
func Collect[T any](obs Observable[T]) ([]T, error) {
	return CollectWithContext(context.Background(), obs)
}

// CollectWithContext is Collect with an explicit context.
func CollectWithContext[T any](ctx context.Context, obs Observable[T]) ([]T, error) {
	var values []T

	var terminalErr error

	subscription := obs.SubscribeWithContext(
		ctx,
		NewObserver(
			func(value T) Ack {
				values = append(values, value)
				return Continue
			},
			func(err error) {
				terminalErr = err
			},
			func() {},
		),
		NewImmediateScheduler(0),
	)

	subscription.Wait()

	return values, terminalErr
}
