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
	"github.com/stretchr/testify/require"
)

func TestPublishSubjectForwardsToCurrentSubscribers(t *testing.T) {
	subject := NewPublishSubject[int]()
	sched := NewImmediateScheduler(0)

	var received []int

	subject.Subscribe(NewObserver(
		func(v int) Ack { received = append(received, v); return Continue },
		func(error) {},
		func() {},
	), sched)

	subject.OnNext(1)
	subject.OnNext(2)

	assert.Equal(t, []int{1, 2}, received)
	assert.Equal(t, 1, subject.CountObservers())
}

func TestPublishSubjectDoesNotReplayValuesToLateSubscribers(t *testing.T) {
	subject := NewPublishSubject[int]()
	sched := NewImmediateScheduler(0)

	subject.OnNext(1)

	var received []int

	subject.Subscribe(NewObserver(
		func(v int) Ack { received = append(received, v); return Continue },
		func(error) {},
		func() {},
	), sched)

	subject.OnNext(2)

	assert.Equal(t, []int{2}, received)
}

func TestPublishSubjectReplaysTerminalToLateSubscribers(t *testing.T) {
	subject := NewPublishSubject[int]()
	sched := NewImmediateScheduler(0)

	sentinel := errors.New("subject boom")
	subject.OnError(sentinel)

	var gotErr error

	subject.Subscribe(NewObserver(
		func(int) Ack { return Continue },
		func(err error) { gotErr = err },
		func() {},
	), sched)

	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, sentinel)
	assert.True(t, subject.HasThrown())
	assert.True(t, subject.IsClosed())
}

func TestPublishSubjectOnCompleteIsTerminalOnce(t *testing.T) {
	subject := NewPublishSubject[int]()
	sched := NewImmediateScheduler(0)

	completions := 0
	subject.Subscribe(NewObserver(
		func(int) Ack { return Continue },
		func(error) {},
		func() { completions++ },
	), sched)

	subject.OnComplete()
	subject.OnComplete()

	assert.Equal(t, 1, completions)
	assert.True(t, subject.IsCompleted())
	assert.Equal(t, 0, subject.CountObservers())
}

func TestPublishSubjectUnsubscribeRemovesObserver(t *testing.T) {
	subject := NewPublishSubject[int]()
	sched := NewImmediateScheduler(0)

	sub := subject.Subscribe(NewObserver(
		func(int) Ack { return Continue },
		func(error) {},
		func() {},
	), sched)

	assert.Equal(t, 1, subject.CountObservers())

	sub.Cancel()

	assert.Equal(t, 0, subject.CountObservers())
}
