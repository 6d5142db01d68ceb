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

// Package rsbridge bridges this module's Ack-based push protocol to the
// request(n)-based pull protocol of the Reactive Streams specification. It
// is intentionally minimal: enough to interoperate with a Publisher or
// Subscriber from another library, not a TCK-conformant implementation of
// the full specification (rule 1.7's synchronous-recursion guard, rule
// 3.17's overflow-as-error on request(n) summation, and the signal-timing
// rules around concurrent cancel/request calls are all left to whichever
// side of the bridge already implements the full spec).
package rsbridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/flowpipe/stream"
)

// Subscription is the Reactive Streams subscription surface: a consumer
// calls Request to grant the producer permission to emit up to n more
// elements, and Cancel to stop receiving them.
type Subscription interface {
	Request(n int64)
	Cancel()
}

// Subscriber is the Reactive Streams consumer surface.
type Subscriber[T any] interface {
	OnSubscribe(sub Subscription)
	OnNext(value T)
	OnError(err error)
	OnComplete()
}

// Publisher is the Reactive Streams producer surface.
type Publisher[T any] interface {
	Subscribe(sub Subscriber[T])
}

// ToPublisher adapts obs into a Reactive Streams Publisher. Subscribe hands
// the consumer its Subscription immediately (as the specification requires)
// and only then starts obs, on its own goroutine, with OnNext blocking (via
// the requested-count channel) until the consumer's outstanding Request
// count allows the call through. Running obs synchronously inside Subscribe
// would deadlock: the consumer cannot call Request until Subscribe returns,
// but a blocking OnNext would never let it return.
func ToPublisher[T any](obs stream.Observable[T]) Publisher[T] {
	return &publisherAdapter[T]{obs: obs}
}

type publisherAdapter[T any] struct {
	obs stream.Observable[T]
}

func (p *publisherAdapter[T]) Subscribe(sub Subscriber[T]) {
	requested := new(int64)
	waiters := make(chan struct{}, 1)

	adapter := &subscriptionAdapter{requested: requested, waiters: waiters}

	sched := stream.NewImmediateScheduler(0)

	observer := stream.NewObserver(
		func(value T) stream.Ack {
			for atomic.LoadInt64(requested) <= 0 {
				<-waiters
			}

			atomic.AddInt64(requested, -1)
			sub.OnNext(value)

			return stream.Continue
		},
		sub.OnError,
		sub.OnComplete,
	)

	sub.OnSubscribe(adapter)

	go func() {
		subscription := p.obs.SubscribeWithContext(context.Background(), observer, sched)
		adapter.bind(subscription)
	}()
}

type subscriptionAdapter struct {
	requested *int64
	waiters   chan struct{}

	mu           sync.Mutex
	subscription stream.Subscription
	cancelled    bool
}

// bind attaches the now-running Observable's Subscription once it exists. If
// Cancel already ran by then (the consumer cancelled before obs even
// started), the subscription is cancelled immediately instead of being kept
// around.
func (s *subscriptionAdapter) bind(subscription stream.Subscription) {
	s.mu.Lock()

	if s.cancelled {
		s.mu.Unlock()
		subscription.Cancel()

		return
	}

	s.subscription = subscription
	s.mu.Unlock()
}

func (s *subscriptionAdapter) Request(n int64) {
	if n <= 0 {
		return
	}

	atomic.AddInt64(s.requested, n)

	select {
	case s.waiters <- struct{}{}:
	default:
	}
}

func (s *subscriptionAdapter) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscription != nil {
		s.subscription.Cancel()
		return
	}

	s.cancelled = true
}

// FromPublisher adapts a Reactive Streams Publisher into an Observable. Back
// -pressure is realised by issuing Request(1) after every resolved ack,
// turning the push-and-ack model this package uses into the request-n model
// the Publisher expects.
func FromPublisher[T any](pub Publisher[T]) stream.Observable[T] {
	return stream.NewObservable(func(ctx context.Context, destination stream.Subscriber[T]) stream.Teardown {
		var upstream Subscription

		pub.Subscribe(&subscriberAdapter[T]{
			destination: destination,
			onSubscribe: func(sub Subscription) {
				upstream = sub
				sub.Request(1)
			},
		})

		return func() {
			if upstream != nil {
				upstream.Cancel()
			}
		}
	})
}

type subscriberAdapter[T any] struct {
	destination stream.Subscriber[T]
	onSubscribe func(Subscription)
	upstream    Subscription
}

func (s *subscriberAdapter[T]) OnSubscribe(sub Subscription) {
	s.upstream = sub
	s.onSubscribe(sub)
}

func (s *subscriberAdapter[T]) OnNext(value T) {
	ack := s.destination.OnNext(value)

	ack.OnResolve(s.destination.Sched(), func(resolved stream.Ack, err error) {
		if err != nil {
			return
		}

		if resolved.Kind() == stream.AckStop {
			if s.upstream != nil {
				s.upstream.Cancel()
			}

			return
		}

		if s.upstream != nil {
			s.upstream.Request(1)
		}
	})
}

func (s *subscriberAdapter[T]) OnError(err error) {
	s.destination.OnError(err)
}

func (s *subscriberAdapter[T]) OnComplete() {
	s.destination.OnComplete()
}
