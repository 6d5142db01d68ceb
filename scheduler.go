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

// ExecutionModel describes how a Scheduler would like producers to batch
// their work.
type ExecutionModel struct {
	// RecommendedBatchSize is the number of elements a batched producer
	// (e.g. FromIteratorWithResource) should emit before yielding back to
	// the Scheduler. Zero or negative means "never yield".
	RecommendedBatchSize int
}

func (m ExecutionModel) batchSize() int {
	if m.RecommendedBatchSize <= 0 {
		return int(^uint(0) >> 1) // math.MaxInt, kept local to avoid importing math for one constant
	}

	return m.RecommendedBatchSize
}

// Scheduler is the external collaborator that runs deferred-ack
// continuations and batch-boundary resumptions, and that receives protocol
// errors which must never re-enter a pipeline. It is the only entity a
// correct pipeline may submit work to concurrently; Subscriber/Observer
// calls themselves are never concurrent on a single subscription.
//
// This package only ships example Schedulers (Immediate, Goroutine); a
// production task executor is an external collaborator, not a core concern.
type Scheduler interface {
	// Execute submits a unit of work to run, synchronously or
	// asynchronously depending on the implementation.
	Execute(task func())
	// ReportFailure is the out-of-band sink for protocol errors: failures
	// that must never route back into the pipeline they originated from.
	ReportFailure(err error)
	// ExecutionModel reports this scheduler's batching preference.
	ExecutionModel() ExecutionModel
}

// ImmediateScheduler runs every task synchronously on the calling
// goroutine. Collect subscribes with one; the creation operators themselves
// run on whichever Scheduler the subscriber carries.
type ImmediateScheduler struct {
	Model ExecutionModel
}

// NewImmediateScheduler builds an ImmediateScheduler with the given batch
// size recommendation (0 means unbounded).
func NewImmediateScheduler(recommendedBatchSize int) *ImmediateScheduler {
	return &ImmediateScheduler{Model: ExecutionModel{RecommendedBatchSize: recommendedBatchSize}}
}

func (s *ImmediateScheduler) Execute(task func()) {
	task()
}

func (s *ImmediateScheduler) ReportFailure(err error) {
	if err == nil {
		return
	}

	OnUnhandledError(context.Background(), newSchedulerError(err))
}

func (s *ImmediateScheduler) ExecutionModel() ExecutionModel {
	return s.Model
}

// GoroutineScheduler runs every task on its own goroutine, fire-and-forget.
// It is a minimal example scheduler suitable for asynchronous sources
// (Interval-style producers, channel bridges); it makes no fairness or
// ordering guarantees across unrelated tasks.
type GoroutineScheduler struct {
	Model ExecutionModel
}

// NewGoroutineScheduler builds a GoroutineScheduler with the given batch
// size recommendation (0 means unbounded).
func NewGoroutineScheduler(recommendedBatchSize int) *GoroutineScheduler {
	return &GoroutineScheduler{Model: ExecutionModel{RecommendedBatchSize: recommendedBatchSize}}
}

func (s *GoroutineScheduler) Execute(task func()) {
	go recoverUnhandledError(s, task)
}

func (s *GoroutineScheduler) ReportFailure(err error) {
	if err == nil {
		return
	}

	OnUnhandledError(context.Background(), newSchedulerError(err))
}

func (s *GoroutineScheduler) ExecutionModel() ExecutionModel {
	return s.Model
}
