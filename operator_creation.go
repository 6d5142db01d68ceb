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

import "context"

// feedSequence drives next, a pull function reporting (value, hasValue,
// err), through destination while honouring its back-pressure: it never
// calls next again until the previous OnNext's ack resolves, it yields back
// to the Scheduler every batchSize elements (batchSize<=0 meaning never),
// and it ends delivery exactly once: OnComplete on exhaustion, OnError on a
// pull error or a failed Pending ack, and a Cancel of destination (with no
// terminal signal) on a Stop ack. Of, FromSlice, Range and the
// iterator+resource builder share this driver.
func feedSequence[T any](destination Subscriber[T], next func() (T, bool, error)) {
	batchSize := destination.Sched().ExecutionModel().batchSize()
	feedSequenceBatch(destination, next, batchSize)
}

func feedSequenceBatch[T any](destination Subscriber[T], next func() (T, bool, error), batchSize int) {
	count := 0

	for {
		if destination.IsClosed() {
			return
		}

		value, ok, err := next()
		if err != nil {
			destination.OnError(err)
			return
		}

		if !ok {
			destination.OnComplete()
			return
		}

		ack := destination.OnNext(value)
		count++

		switch ack.Kind() {
		case AckStop:
			destination.Cancel()
			return
		case AckPending:
			ack.OnResolve(destination.Sched(), func(resolved Ack, resolveErr error) {
				if resolveErr != nil {
					destination.OnError(resolveErr)
					return
				}

				if resolved.Kind() == AckStop {
					destination.Cancel()
					return
				}

				feedSequenceBatch(destination, next, batchSize)
			})

			return
		case AckContinue:
			if count >= batchSize {
				destination.Sched().Execute(func() { feedSequenceBatch(destination, next, batchSize) })
				return
			}
		}
	}
}

// sliceNext returns a pull function over values, advancing an index
// closure; it is the building block for Of/FromSlice/Range.
func sliceNext[T any](values []T) func() (T, bool, error) {
	i := 0

	return func() (T, bool, error) {
		if i >= len(values) {
			var zero T
			return zero, false, nil
		}

		v := values[i]
		i++

		return v, true, nil
	}
}

// Of creates an Observable that emits the given values, in order, then
// completes.
func Of[T any](values ...T) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		next := sliceNext(values)
		feedSequence(destination, next)

		return nil
	})
}

// Just is an alias for Of.
func Just[T any](values ...T) Observable[T] {
	return Of(values...)
}

// FromSlice creates an Observable from one or more slices, emitting every
// element of every slice in order, then completing.
func FromSlice[T any](collections ...[]T) Observable[T] {
	var flattened []T
	for _, c := range collections {
		flattened = append(flattened, c...)
	}

	return Of(flattened...)
}

// Start creates an Observable that lazily evaluates cb at subscription
// time, emits its result, then completes.
func Start[T any](cb func() T) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		ack := destination.OnNext(cb())

		if ack.Kind() != AckStop {
			destination.OnComplete()
		}

		return nil
	})
}

// Empty creates an Observable that emits no values and completes
// immediately.
func Empty[T any]() Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		destination.OnComplete()
		return nil
	})
}

// Never creates an Observable that emits nothing and never terminates
// until explicitly cancelled.
func Never[T any]() Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		return nil
	})
}

// Throw creates an Observable that immediately errors with err.
func Throw[T any](err error) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		destination.OnError(err)
		return nil
	})
}

// Range creates an Observable emitting the half-open integer range
// [start, end). If start == end the Observable is empty; if start > end
// the values descend.
func Range(start, end int64) Observable[int64] {
	if start == end {
		return Empty[int64]()
	}

	sign := int64(1)
	if start > end {
		sign = -1
	}

	return NewObservable(func(ctx context.Context, destination Subscriber[int64]) Teardown {
		cursor := start
		next := func() (int64, bool, error) {
			if cursor*sign >= end*sign {
				return 0, false, nil
			}

			v := cursor
			cursor += sign

			return v, true, nil
		}
		feedSequence(destination, next)

		return nil
	})
}

// FromChannel creates an Observable from a receive-only channel. The
// channel closing completes the Observable; cancelling the subscription
// stops the background goroutine feeding from it.
func FromChannel[T any](in <-chan T) Observable[T] {
	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		done := make(chan struct{})

		destination.Sched().Execute(func() {
			recoverUnhandledError(destination.Sched(), func() {
				for {
					select {
					case <-done:
						return
					case item, ok := <-in:
						if !ok {
							destination.OnComplete()
							return
						}

						ack := destination.OnNext(item)
						if ack.Kind() == AckStop {
							return
						}
					}
				}
			})
		})

		return func() { close(done) }
	})
}
