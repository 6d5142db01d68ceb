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

// Materialize converts every on_next/on_error/on_complete notification of the
// source into a value in the Notification[T] stream, completing once the
// terminal notification itself has been emitted as a value. A materialized
// stream never calls OnError — errors are reified as Notification values.
func Materialize[T any]() func(Observable[T]) Observable[Notification[T]] {
	return func(source Observable[T]) Observable[Notification[T]] {
		return Lift(source, func(destination Subscriber[Notification[T]]) Subscriber[T] {
			return NewSubscriber(NewObserver(
				func(value T) Ack {
					return destination.OnNext(NewNotificationNext(value))
				},
				func(err error) {
					destination.OnNext(NewNotificationError[T](err))
					destination.OnComplete()
				},
				func() {
					destination.OnNext(NewNotificationComplete[T]())
					destination.OnComplete()
				},
			), destination.Sched())
		})
	}
}

// Dematerialize is the inverse of Materialize: it replays each Notification
// value as the on_next/on_error/on_complete call it represents. A
// Notification arriving after the stream has already terminated is a
// protocol error (the grammar forbids it) and is routed to OnError rather
// than replayed.
func Dematerialize[T any]() func(Observable[Notification[T]]) Observable[T] {
	return func(source Observable[Notification[T]]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[Notification[T]] {
			done := false

			return NewSubscriber(NewObserver(
				func(n Notification[T]) Ack {
					if done {
						destination.OnError(ErrAPIContractViolation)
						return Stop
					}

					var ack Ack

					more := n.dispatch(
						func(value T) { ack = destination.OnNext(value) },
						destination.OnError,
						destination.OnComplete,
					)

					if !more {
						done = true
						return Stop
					}

					return ack
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}
