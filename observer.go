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
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
)

// Observer is the consumer end of the protocol: zero or more OnNext calls
// returning an Ack, followed by at most one of OnComplete or OnError. No
// OnNext is permitted after a terminal call (the grammar invariant); a
// correct producer never invokes these methods concurrently with each
// other on the same Observer (the serialisation invariant).
type Observer[T any] interface {
	// OnNext delivers the next value and reports how the producer should
	// proceed: Continue, Stop, or a Pending ack to be resolved later.
	OnNext(value T) Ack
	// OnError delivers a terminal failure. Called at most once. Must not
	// panic; panicking here is a protocol error (undefined by the
	// grammar) rather than a recoverable user-code error.
	OnError(err error)
	// OnComplete delivers normal termination. Called at most once, and
	// never after OnError. Must not panic.
	OnComplete()

	// IsClosed reports whether a terminal notification has already been
	// delivered.
	IsClosed() bool
	// HasThrown reports whether the terminal notification was OnError.
	HasThrown() bool
	// IsCompleted reports whether the terminal notification was OnComplete.
	IsCompleted() bool
}

const (
	observerActive int32 = iota
	observerErrored
	observerCompleted
)

var _ Observer[int] = (*observerImpl[int])(nil)

// NewObserver builds an Observer from plain callbacks. A panic from onNext
// is treated as a user-code error: it is converted to Stop and routed into
// onError, consistent with the exception policy for a pipeline's terminal
// sink. onError/onComplete must not panic; if they do, the panic is
// reported via OnUnhandledError rather than re-entering the pipeline.
func NewObserver[T any](onNext func(value T) Ack, onError func(err error), onComplete func()) Observer[T] {
	return &observerImpl[T]{
		status:     observerActive,
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
}

type observerImpl[T any] struct {
	status     int32
	onNext     func(T) Ack
	onError    func(error)
	onComplete func()
}

func (o *observerImpl[T]) OnNext(value T) Ack {
	if o.onNext == nil || atomic.LoadInt32(&o.status) != observerActive {
		OnDroppedNotification(context.Background(), NewNotificationNext(value))
		return Stop
	}

	return o.tryNext(value)
}

func (o *observerImpl[T]) OnError(err error) {
	if o.onError == nil || !atomic.CompareAndSwapInt32(&o.status, observerActive, observerErrored) {
		OnDroppedNotification(context.Background(), NewNotificationError[T](err))
		return
	}

	o.tryError(err)
}

func (o *observerImpl[T]) OnComplete() {
	if o.onComplete == nil || !atomic.CompareAndSwapInt32(&o.status, observerActive, observerCompleted) {
		OnDroppedNotification(context.Background(), NewNotificationComplete[T]())
		return
	}

	o.tryComplete()
}

func (o *observerImpl[T]) tryNext(value T) (ack Ack) {
	ack = Stop

	lo.TryCatchWithErrorValue(
		func() error {
			ack = o.onNext(value)
			return nil
		},
		func(e any) {
			err := newObserverError(recoverValueToError(e))
			ack = Stop

			if o.onError == nil || !atomic.CompareAndSwapInt32(&o.status, observerActive, observerErrored) {
				OnUnhandledError(context.Background(), err)
				return
			}

			o.tryError(err)
		},
	)

	return ack
}

func (o *observerImpl[T]) tryError(err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			o.onError(err)
			return nil
		},
		func(e any) {
			OnUnhandledError(context.Background(), newObserverError(recoverValueToError(e)))
		},
	)
}

func (o *observerImpl[T]) tryComplete() {
	lo.TryCatchWithErrorValue(
		func() error {
			o.onComplete()
			return nil
		},
		func(e any) {
			OnUnhandledError(context.Background(), newObserverError(recoverValueToError(e)))
		},
	)
}

func (o *observerImpl[T]) IsClosed() bool {
	return atomic.LoadInt32(&o.status) != observerActive
}

func (o *observerImpl[T]) HasThrown() bool {
	return atomic.LoadInt32(&o.status) == observerErrored
}

func (o *observerImpl[T]) IsCompleted() bool {
	return atomic.LoadInt32(&o.status) == observerCompleted
}

/*********************
 * Partial Observers *
 *********************/

// OnNextFunc builds an Observer with only OnNext provided. Errors and
// completion are silently dropped; use NewObserver for full control.
func OnNextFunc[T any](onNext func(value T) Ack) Observer[T] {
	return NewObserver(onNext, func(err error) {}, func() {})
}

// OnErrorFunc builds an Observer with only OnError provided.
func OnErrorFunc[T any](onError func(err error)) Observer[T] {
	return NewObserver(func(T) Ack { return Continue }, onError, func() {})
}

// OnCompleteFunc builds an Observer with only OnComplete provided.
func OnCompleteFunc[T any](onComplete func()) Observer[T] {
	return NewObserver(func(T) Ack { return Continue }, func(err error) {}, onComplete)
}

// NoopObserver discards every notification.
func NoopObserver[T any]() Observer[T] {
	return NewObserver(func(T) Ack { return Continue }, func(error) {}, func() {})
}

// PrintObserver dumps notifications to stdout; useful for debugging a
// pipeline by hand.
func PrintObserver[T any]() Observer[T] {
	return NewObserver(
		func(value T) Ack {
			fmt.Printf("Next: %v\n", value)
			return Continue
		},
		func(err error) {
			fmt.Printf("Error: %s\n", err.Error())
		},
		func() {
			fmt.Println("Completed")
		},
	)
}
