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

// Package stream_test hosts tests that need both the stream package and
// streamtest, which itself depends on stream.
package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowpipe/stream"
	"github.com/flowpipe/stream/streamtest"
)

func iteratorOver(acquired []int) stream.PullFunc[int] {
	i := 0

	return func() (int, bool, error) {
		if i >= len(acquired) {
			return 0, false, nil
		}

		v := acquired[i]
		i++

		return v, true, nil
	}
}

func sliceResource(n int) (stream.Resource[[]int], *int) {
	acquireCount := 0

	values := make([]int, n)
	for i := range values {
		values[i] = i
	}

	resource := stream.Resource[[]int]{
		Acquire: func() ([]int, error) {
			acquireCount++
			return values, nil
		},
		Release: func([]int) error { return nil },
	}

	return resource, &acquireCount
}

func TestFromIteratorWithResourceEmitsEveryElement(t *testing.T) {
	const n = 4
	resource, acquireCount := sliceResource(4 * n)

	obs := stream.FromIteratorWithResource(resource, iteratorOver)

	values, err := stream.Collect(obs)
	require.NoError(t, err)
	assert.Len(t, values, 4*n)
	assert.Equal(t, 1, *acquireCount)
}

func TestFromIteratorWithResourceReleasesExactlyOnceOnExhaustion(t *testing.T) {
	var releaseCount int

	resource := stream.Resource[[]int]{
		Acquire: func() ([]int, error) { return []int{1, 2, 3}, nil },
		Release: func([]int) error { releaseCount++; return nil },
	}

	obs := stream.FromIteratorWithResource(resource, iteratorOver)

	values, err := stream.Collect(obs)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
	assert.Equal(t, 1, releaseCount)
}

func TestFromIteratorWithResourceReleasesOnceWhenDownstreamPanics(t *testing.T) {
	var releaseCount int

	resource := stream.Resource[[]int]{
		Acquire: func() ([]int, error) { return []int{1, 2, 3, 4, 5}, nil },
		Release: func([]int) error { releaseCount++; return nil },
	}

	obs := stream.FromIteratorWithResource(resource, iteratorOver)

	boom := errors.New("downstream boom")

	var terminalErr error

	sched := streamtest.NewVirtualScheduler(0)
	observer := stream.NewObserver(
		func(v int) stream.Ack {
			if v == 3 {
				panic(boom)
			}
			return stream.Continue
		},
		func(err error) { terminalErr = err },
		func() {},
	)

	obs.SubscribeWithContext(context.Background(), observer, sched)

	require.Error(t, terminalErr)
	assert.ErrorIs(t, terminalErr, boom)
	assert.Equal(t, 1, releaseCount)
}

func TestFromIteratorWithResourceSurfacesFinalizerFailureOnNormalCompletion(t *testing.T) {
	boom := errors.New("release boom")

	resource := stream.Resource[[]int]{
		Acquire: func() ([]int, error) { return []int{1, 2}, nil },
		Release: func([]int) error { return boom },
	}

	obs := stream.FromIteratorWithResource(resource, iteratorOver)

	values, err := stream.Collect(obs)

	assert.Equal(t, []int{1, 2}, values)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

// TestFromIteratorWithResourceReportsFinalizerFailureAfterStopToScheduler
// covers the other half of boundary scenario #8: once the downstream has
// returned Stop, the subscription is cancelled and delivery has no active
// downstream left to observe an OnError, so a release failure discovered
// then goes to the Scheduler instead, and only once even though the caller
// cancels the subscription again.
func TestFromIteratorWithResourceReportsFinalizerFailureAfterStopToScheduler(t *testing.T) {
	releaseBoom := errors.New("release boom")

	resource := stream.Resource[[]int]{
		Acquire: func() ([]int, error) { return []int{1, 2, 3}, nil },
		Release: func([]int) error { return releaseBoom },
	}

	obs := stream.FromIteratorWithResource(resource, iteratorOver)

	sched := streamtest.NewVirtualScheduler(0)
	observer := stream.NewObserver(
		func(v int) stream.Ack {
			if v == 2 {
				return stream.Stop
			}
			return stream.Continue
		},
		func(error) {},
		func() {},
	)

	sub := obs.SubscribeWithContext(context.Background(), observer, sched)
	sub.Cancel()

	require.Len(t, sched.Failures(), 1)
	assert.ErrorIs(t, sched.Failures()[0], releaseBoom)
}

func TestFromIteratorWithResourceRejectsSecondSubscriber(t *testing.T) {
	resource, acquireCount := sliceResource(2)

	obs := stream.FromIteratorWithResource(resource, iteratorOver)

	_, err := stream.Collect(obs)
	require.NoError(t, err)

	_, err = stream.Collect(obs)
	require.Error(t, err)
	assert.ErrorIs(t, err, stream.ErrAPIContractViolation)
	assert.Equal(t, 1, *acquireCount)
}
