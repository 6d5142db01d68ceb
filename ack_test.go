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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContinueAndStopAreImmediate(t *testing.T) {
	assert.Equal(t, AckContinue, Continue.Kind())
	assert.Equal(t, AckStop, Stop.Kind())
}

func TestOnResolveRunsImmediatelyForImmediateAcks(t *testing.T) {
	sched := NewImmediateScheduler(0)

	var got Ack

	Continue.OnResolve(sched, func(ack Ack, err error) {
		got = ack
	})

	assert.Equal(t, AckContinue, got.Kind())
}

func TestPendingAckResolvesViaOnResolve(t *testing.T) {
	sched := NewImmediateScheduler(0)
	ack, resolver := PendingAck()

	assert.Equal(t, AckPending, ack.Kind())

	var resolved Ack

	var resolveErr error

	ack.OnResolve(sched, func(a Ack, err error) {
		resolved = a
		resolveErr = err
	})

	resolver.Resolve(Continue, nil)

	assert.Equal(t, AckContinue, resolved.Kind())
	assert.NoError(t, resolveErr)
}

func TestPendingAckOnResolveRegisteredAfterResolution(t *testing.T) {
	sched := NewImmediateScheduler(0)
	ack, resolver := PendingAck()

	sentinel := errors.New("late resolve")
	resolver.Resolve(Stop, sentinel)

	var resolved Ack

	var resolveErr error

	ack.OnResolve(sched, func(a Ack, err error) {
		resolved = a
		resolveErr = err
	})

	assert.Equal(t, AckStop, resolved.Kind())
	assert.ErrorIs(t, resolveErr, sentinel)
}

func TestAckResolverResolveIsIdempotent(t *testing.T) {
	sched := NewImmediateScheduler(0)
	ack, resolver := PendingAck()

	resolver.Resolve(Continue, nil)
	resolver.Resolve(Stop, errors.New("second resolve must be dropped"))

	var resolved Ack

	ack.OnResolve(sched, func(a Ack, err error) {
		resolved = a
	})

	assert.Equal(t, AckContinue, resolved.Kind())
}
