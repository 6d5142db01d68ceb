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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestExecutionModelBatchSizeDefaultsToUnbounded(t *testing.T) {
	model := ExecutionModel{}
	assert.Greater(t, model.batchSize(), 0)
}

func TestExecutionModelBatchSizeHonoursRecommendation(t *testing.T) {
	model := ExecutionModel{RecommendedBatchSize: 16}
	assert.Equal(t, 16, model.batchSize())
}

func TestImmediateSchedulerExecutesSynchronously(t *testing.T) {
	sched := NewImmediateScheduler(0)

	ran := false
	sched.Execute(func() { ran = true })

	assert.True(t, ran)
}

func TestImmediateSchedulerReportFailureRoutesToOnUnhandledError(t *testing.T) {
	previous := OnUnhandledError

	var got error

	OnUnhandledError = func(ctx context.Context, err error) { got = err }
	defer func() { OnUnhandledError = previous }()

	sentinel := errors.New("scheduler boom")
	NewImmediateScheduler(0).ReportFailure(sentinel)

	assert.ErrorIs(t, got, sentinel)
}

func TestGoroutineSchedulerExecutesWithoutLeaking(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewGoroutineScheduler(0)

	done := make(chan struct{})
	sched.Execute(func() { close(done) })

	<-done
}
