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
	"sync/atomic"

	"github.com/flowpipe/stream/internal/xsync"
	"github.com/samber/lo"
)

// Subscriber binds an Observer to the Scheduler that runs any deferred
// work needed to resolve its acks (spec: "Subscriber = Observer +
// Scheduler"). Every Observer passed across an Observable boundary is
// wrapped into a Subscriber so operators can enforce the grammar and
// serialisation invariants and offer Subscription-like cancellation.
type Subscriber[T any] interface {
	Subscription
	Observer[T]

	// Sched returns the Scheduler this subscriber runs continuations on.
	Sched() Scheduler
}

var _ Subscriber[int] = (*subscriberImpl[int])(nil)

// NewSubscriber wraps destination into a Subscriber bound to sched, using
// ConcurrencyModeSafe. If destination is already a Subscriber, it is
// returned unchanged (guards against double-wrapping).
func NewSubscriber[T any](destination Observer[T], sched Scheduler) Subscriber[T] {
	return NewSubscriberWithConcurrencyMode(destination, sched, ConcurrencyModeSafe)
}

// ConcurrencyMode selects the locking strategy a Subscriber serialises its
// Observer calls through.
type ConcurrencyMode int8

const (
	// ConcurrencyModeSafe serialises calls behind a real mutex: concurrent
	// producers block until the previous call finishes.
	ConcurrencyModeSafe ConcurrencyMode = iota
	// ConcurrencyModeUnsafe performs no locking; the caller guarantees
	// calls are already serialised.
	ConcurrencyModeUnsafe
	// ConcurrencyModeEventuallySafe serialises with a mutex but drops
	// (rather than blocks on) a concurrent OnNext that cannot acquire it
	// immediately.
	ConcurrencyModeEventuallySafe
)

// Backpressure selects what a Subscriber does when it cannot immediately
// acquire its lock to deliver OnNext.
type Backpressure int8

const (
	// BackpressureBlock waits for the lock.
	BackpressureBlock Backpressure = iota
	// BackpressureDrop drops the notification instead of waiting.
	BackpressureDrop
)

// NewSubscriberWithConcurrencyMode wraps destination into a Subscriber
// bound to sched with the given concurrency mode.
func NewSubscriberWithConcurrencyMode[T any](destination Observer[T], sched Scheduler, mode ConcurrencyMode) Subscriber[T] {
	switch mode {
	case ConcurrencyModeSafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureBlock, destination, sched)
	case ConcurrencyModeUnsafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithoutLock(), BackpressureBlock, destination, sched)
	case ConcurrencyModeEventuallySafe:
		return newSubscriberImpl(mode, xsync.NewMutexWithLock(), BackpressureDrop, destination, sched)
	default:
		panic("stream: invalid concurrency mode")
	}
}

func newSubscriberImpl[T any](mode ConcurrencyMode, mu xsync.Mutex, backpressure Backpressure, destination Observer[T], sched Scheduler) Subscriber[T] {
	if subscriber, ok := destination.(Subscriber[T]); ok {
		return subscriber
	}

	subscriber := &subscriberImpl[T]{
		Subscription: NewSubscription(nil),
		destination:  destination,
		sched:        sched,
		mode:         mode,
		mu:           mu,
		backpressure: backpressure,
		status:       observerActive,
	}

	if subscription, ok := destination.(Subscription); ok {
		subscription.Add(subscriber.Cancel)
	}

	return subscriber
}

type subscriberImpl[T any] struct {
	Subscription
	destination Observer[T]
	sched       Scheduler

	mode         ConcurrencyMode
	mu           xsync.Mutex
	backpressure Backpressure

	// status mirrors the grammar state independently of the mutex, so
	// IsClosed/HasThrown/IsCompleted never deadlock against a call already
	// holding mu.
	status int32
}

func (s *subscriberImpl[T]) Sched() Scheduler {
	return s.sched
}

// OnNext is the SafeSubscriber exception-isolation boundary: a panic from
// the destination's OnNext is caught and converted to a terminal OnError on
// that same destination, unless the pipeline is already terminated — in
// which case the panic is a protocol error and is routed to the Scheduler's
// failure channel instead of re-entering a closed pipeline.
func (s *subscriberImpl[T]) OnNext(v T) Ack {
	if s.destination == nil {
		return Stop
	}

	if s.backpressure == BackpressureDrop {
		if !s.mu.TryLock() {
			OnDroppedNotification(context.Background(), NewNotificationNext(v))
			return Continue
		}
	} else {
		s.mu.Lock()
	}

	if atomic.LoadInt32(&s.status) != observerActive {
		s.mu.Unlock()
		OnDroppedNotification(context.Background(), NewNotificationNext(v))

		return Stop
	}

	ack, err := s.tryNext(v)
	s.mu.Unlock()

	if err != nil {
		if atomic.LoadInt32(&s.status) == observerActive {
			s.OnError(err)
		} else {
			s.sched.ReportFailure(err)
		}

		return Stop
	}

	return ack
}

func (s *subscriberImpl[T]) tryNext(v T) (ack Ack, err error) {
	ack = Stop

	lo.TryCatchWithErrorValue(
		func() error {
			ack = s.destination.OnNext(v)
			return nil
		},
		func(e any) {
			err = newObserverError(recoverValueToError(e))
		},
	)

	return ack, err
}

func (s *subscriberImpl[T]) OnError(err error) {
	s.mu.Lock()

	if atomic.CompareAndSwapInt32(&s.status, observerActive, observerErrored) {
		if s.destination != nil {
			if panicErr := s.tryTerminal(func() { s.destination.OnError(err) }); panicErr != nil {
				s.mu.Unlock()
				s.sched.ReportFailure(panicErr)
				s.Subscription.Cancel()

				return
			}
		}
	} else {
		OnDroppedNotification(context.Background(), NewNotificationError[T](err))
	}

	s.mu.Unlock()

	s.Subscription.Cancel()
}

func (s *subscriberImpl[T]) OnComplete() {
	s.mu.Lock()

	if atomic.CompareAndSwapInt32(&s.status, observerActive, observerCompleted) {
		if s.destination != nil {
			if panicErr := s.tryTerminal(func() { s.destination.OnComplete() }); panicErr != nil {
				s.mu.Unlock()
				s.sched.ReportFailure(panicErr)
				s.Subscription.Cancel()

				return
			}
		}
	} else {
		OnDroppedNotification(context.Background(), NewNotificationComplete[T]())
	}

	s.mu.Unlock()

	s.Subscription.Cancel()
}

// tryTerminal runs a terminal delivery (OnError/OnComplete) and converts a
// panic into an error instead of letting it escape — per the grammar,
// raising from a terminal call is undefined behaviour from the Observer's
// perspective, so the Subscriber treats it as a protocol error for the
// Scheduler rather than propagating it.
func (s *subscriberImpl[T]) tryTerminal(cb func()) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			cb()
			return nil
		},
		func(e any) {
			err = newObserverError(recoverValueToError(e))
		},
	)

	return err
}

func (s *subscriberImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&s.status) != observerActive
}

func (s *subscriberImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&s.status) == observerErrored
}

func (s *subscriberImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&s.status) == observerCompleted
}

func (s *subscriberImpl[T]) Cancel() {
	if atomic.CompareAndSwapInt32(&s.status, observerActive, observerCompleted) {
		s.Subscription.Cancel()
	}
}
