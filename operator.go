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

import "github.com/samber/lo"

// guardUserCode runs fn, a caller-supplied predicate/selector/reducer, and
// converts a panic into a returned error instead of letting it escape.
// Because every downstream an operator calls into is itself a Subscriber
// (which isolates its own OnNext/OnError/OnComplete panics — see
// subscriber.go), a downstream call can never panic back into the
// operator's own code. That collapses the two-category exception guard
// into a single wrap around user code: anything this function catches is,
// by construction, a user-code error.
func guardUserCode(fn func() error) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			return fn()
		},
		func(e any) {
			err = recoverValueToError(e)
		},
	)

	return err
}

// Map applies project to every element.
func Map[T, R any](project func(item T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return Lift(source, func(destination Subscriber[R]) Subscriber[T] {
			return NewSubscriber(NewObserver(
				func(value T) Ack {
					var result R

					if err := guardUserCode(func() error {
						result = project(value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					return destination.OnNext(result)
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}

// MapErr applies project to every element; a returned error terminates the
// pipeline with that error instead of emitting a value for this element.
func MapErr[T, R any](project func(item T) (R, error)) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return Lift(source, func(destination Subscriber[R]) Subscriber[T] {
			return NewSubscriber(NewObserver(
				func(value T) Ack {
					var result R

					err := guardUserCode(func() error {
						var innerErr error
						result, innerErr = project(value)

						return innerErr
					})
					if err != nil {
						destination.OnError(err)
						return Stop
					}

					return destination.OnNext(result)
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}

// Filter emits only the elements for which predicate returns true.
func Filter[T any](predicate func(item T) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			return NewSubscriber(NewObserver(
				func(value T) Ack {
					var keep bool

					if err := guardUserCode(func() error {
						keep = predicate(value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					if !keep {
						return Continue
					}

					return destination.OnNext(value)
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}

// Scan is the running (non-terminal) sibling of FoldLeft: it emits the
// accumulator after every element, seeded by seed.
func Scan[T, R any](seed R, accumulator func(acc R, value T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return Lift(source, func(destination Subscriber[R]) Subscriber[T] {
			state := seed

			return NewSubscriber(NewObserver(
				func(value T) Ack {
					if err := guardUserCode(func() error {
						state = accumulator(state, value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					return destination.OnNext(state)
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}

// Tap invokes onNext for every passing-through element, without altering
// the stream; errors from onNext are user-code errors like any other
// selector.
func Tap[T any](onNext func(value T)) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			return NewSubscriber(NewObserver(
				func(value T) Ack {
					if err := guardUserCode(func() error {
						onNext(value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					return destination.OnNext(value)
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}

// Count emits the number of elements the source produced, once it
// completes.
func Count[T any]() func(Observable[T]) Observable[int] {
	return func(source Observable[T]) Observable[int] {
		return Lift(source, func(destination Subscriber[int]) Subscriber[T] {
			count := 0

			return NewSubscriber(NewObserver(
				func(T) Ack {
					count++
					return Continue
				},
				destination.OnError,
				func() {
					destination.OnNext(count)
					destination.OnComplete()
				},
			), destination.Sched())
		})
	}
}
