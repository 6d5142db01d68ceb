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
	"sync"
	"sync/atomic"
)

// PullFunc is a pull-based source of values: each call returns the next
// value, whether one was available, or an error. Returning (_, false, nil)
// signals normal exhaustion.
type PullFunc[T any] func() (T, bool, error)

// Resource couples the acquisition and release of a value an iterator needs
// for its lifetime (a file handle, a cursor, a connection). Release runs
// exactly once, after the iterator has stopped pulling — whether it stopped
// by exhaustion, by error, or by the subscription being cancelled early.
type Resource[R any] struct {
	Acquire func() (R, error)
	Release func(R) error
}

// FromIteratorWithResource creates a single-subscriber Observable backed by
// a resource-scoped iterator. Resource.Acquire runs once at subscription
// time; makeIterator turns the acquired resource into the PullFunc driving
// emission, batched per the Scheduler's ExecutionModel exactly like the
// other creation builders. Every subscription attempt after the first,
// concurrent or not, fails immediately with ErrAPIContractViolation rather
// than re-acquiring the resource. Resource.Release runs exactly once, after the last outstanding
// ack has resolved and no further pull will occur.
func FromIteratorWithResource[T, R any](resource Resource[R], makeIterator func(R) PullFunc[T]) Observable[T] {
	var subscribed int32

	return NewObservable(func(ctx context.Context, destination Subscriber[T]) Teardown {
		if !atomic.CompareAndSwapInt32(&subscribed, 0, 1) {
			destination.OnError(ErrAPIContractViolation)
			return nil
		}

		value, err := resource.Acquire()
		if err != nil {
			destination.OnError(newResourceError(err))
			return nil
		}

		var releaseOnce sync.Once

		// release runs resource.Release exactly once and reports its error
		// to the caller; every call after the first is a no-op returning
		// nil, since the finalisation has already been handled once.
		release := func() error {
			var releaseErr error

			releaseOnce.Do(func() {
				releaseErr = resource.Release(value)
			})

			return releaseErr
		}

		pull := makeIterator(value)

		next := func() (T, bool, error) {
			v, ok, err := pull()

			switch {
			case err != nil:
				// Iterator itself failed: that error is already the
				// terminal signal downstream will observe. A release
				// failure here is a second, unrelated failure with nowhere
				// to go but the Scheduler.
				if releaseErr := release(); releaseErr != nil {
					destination.Sched().ReportFailure(newResourceError(releaseErr))
				}

				return v, ok, err
			case !ok:
				// Normal exhaustion, still before any terminal signal has
				// been delivered: a release failure here must surface as
				// the downstream OnError, per spec boundary scenario #8.
				if releaseErr := release(); releaseErr != nil {
					return v, ok, newResourceError(releaseErr)
				}

				return v, ok, nil
			default:
				return v, ok, err
			}
		}

		feedSequence(destination, next)

		// Reached only once delivery has already terminated (by
		// exhaustion, error, or cancellation after Stop): any release
		// failure at this point can no longer reach the downstream
		// Observer, so it goes to the Scheduler instead.
		return func() {
			if releaseErr := release(); releaseErr != nil {
				destination.Sched().ReportFailure(newResourceError(releaseErr))
			}
		}
	})
}
