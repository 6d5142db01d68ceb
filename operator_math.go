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

import "golang.org/x/exp/constraints"

// Reduce folds the source with reducer, without a seed: the first element
// becomes the initial accumulator, and reducer is applied starting from the
// second. A source of zero or one elements never applies reducer and emits
// nothing; the accumulated value is emitted once, on completion, only once
// reducer has actually been applied at least once.
func Reduce[T any](reducer func(acc, value T) T) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			var (
				state    T
				hasFirst bool
				applied  bool
			)

			return NewSubscriber(NewObserver(
				func(value T) Ack {
					if !hasFirst {
						state = value
						hasFirst = true

						return Continue
					}

					if err := guardUserCode(func() error {
						state = reducer(state, value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					applied = true

					return Continue
				},
				destination.OnError,
				func() {
					if applied && destination.OnNext(state).Kind() == AckStop {
						return
					}

					destination.OnComplete()
				},
			), destination.Sched())
		})
	}
}

// FoldLeft folds the source with accumulator, seeded by calling seed once at
// subscription time. A panic from seed is treated as a subscription-time
// construction failure (ErrReduceWrongState), terminating the subscriber
// with an error before any element is observed.
func FoldLeft[T, R any](seed func() R, accumulator func(acc R, value T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return Lift(source, func(destination Subscriber[R]) Subscriber[T] {
			var state R

			if err := guardUserCode(func() error {
				state = seed()
				return nil
			}); err != nil {
				destination.OnError(ErrReduceWrongState)

				return NewSubscriber(NoopObserver[T](), destination.Sched())
			}

			return NewSubscriber(NewObserver(
				func(value T) Ack {
					if err := guardUserCode(func() error {
						state = accumulator(state, value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					return Continue
				},
				destination.OnError,
				func() {
					if destination.OnNext(state).Kind() == AckStop {
						return
					}

					destination.OnComplete()
				},
			), destination.Sched())
		})
	}
}

// Sum folds the source by addition, emitting zero if the source is empty.
func Sum[T constraints.Integer | constraints.Float]() func(Observable[T]) Observable[T] {
	return FoldLeft(func() T { return 0 }, func(acc, value T) T { return acc + value })
}
