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

// Drop suppresses the first count elements emitted by the source; it emits
// Continue for each of them without ever calling the downstream. A negative
// count panics with ErrDropWrongCount.
func Drop[T any](count int64) func(Observable[T]) Observable[T] {
	if count < 0 {
		panic(ErrDropWrongCount)
	}

	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			dropped := int64(0)

			return NewSubscriber(NewObserver(
				func(value T) Ack {
					if dropped < count {
						dropped++
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

// TakeWhile emits elements so long as predicate holds. If inclusive is true,
// the first element for which predicate returns false is emitted before the
// source completes; if false, that element is dropped. Either way, TakeWhile
// completes instead of forwarding any further elements, and its own Stop ack
// signals upstream to cease emitting.
func TakeWhile[T any](predicate func(item T) bool, inclusive bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			done := false

			return NewSubscriber(NewObserver(
				func(value T) Ack {
					if done {
						return Stop
					}

					var keep bool

					if err := guardUserCode(func() error {
						keep = predicate(value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					if keep {
						return destination.OnNext(value)
					}

					done = true

					if inclusive {
						destination.OnNext(value)
					}

					destination.OnComplete()

					return Stop
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}

// DistinctUntilChangedByKey suppresses an element whenever its key (computed
// by keyFn) is equivalent — per the caller-supplied eq relation, not
// implicit value-equality — to the key of the most recently emitted
// element. It does not remember every key ever seen, only the last one kept.
func DistinctUntilChangedByKey[T any, K any](keyFn func(item T) K, eq func(a, b K) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return Lift(source, func(destination Subscriber[T]) Subscriber[T] {
			var (
				lastKey K
				hasLast bool
			)

			return NewSubscriber(NewObserver(
				func(value T) Ack {
					var key K

					if err := guardUserCode(func() error {
						key = keyFn(value)
						return nil
					}); err != nil {
						destination.OnError(err)
						return Stop
					}

					if hasLast {
						var same bool

						if err := guardUserCode(func() error {
							same = eq(lastKey, key)
							return nil
						}); err != nil {
							destination.OnError(err)
							return Stop
						}

						if same {
							return Continue
						}
					}

					lastKey = key
					hasLast = true

					return destination.OnNext(value)
				},
				destination.OnError,
				destination.OnComplete,
			), destination.Sched())
		})
	}
}
