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

// Package streamtest provides a deterministic Scheduler for exercising the
// boundary scenarios of the stream package's operator engine without real
// concurrency or wall-clock delay.
package streamtest

import (
	"sync"

	"github.com/flowpipe/stream"
)

// VirtualScheduler runs every submitted task synchronously, in FIFO order,
// on whichever goroutine first calls Execute or drains the queue. Nesting
// (a task submitting more work from within Execute) is queued rather than
// run via direct recursion, so deeply chained continuations don't grow the
// call stack. IsIdle reports whether the queue is currently empty, which is
// the signal a test waits on instead of a wall-clock sleep.
type VirtualScheduler struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
	model    stream.ExecutionModel
	failures []error
}

var _ stream.Scheduler = (*VirtualScheduler)(nil)

// NewVirtualScheduler builds a VirtualScheduler with the given batch size
// recommendation (0 means unbounded).
func NewVirtualScheduler(recommendedBatchSize int) *VirtualScheduler {
	return &VirtualScheduler{model: stream.ExecutionModel{RecommendedBatchSize: recommendedBatchSize}}
}

// Execute enqueues task and, if no drain is already in progress (on any
// goroutine), drains the queue to completion.
func (s *VirtualScheduler) Execute(task func()) {
	s.mu.Lock()
	s.queue = append(s.queue, task)

	if s.draining {
		s.mu.Unlock()
		return
	}

	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *VirtualScheduler) drain() {
	for {
		s.mu.Lock()

		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()

			return
		}

		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		next()
	}
}

// ReportFailure records err instead of routing it anywhere; Failures
// returns everything recorded so far.
func (s *VirtualScheduler) ReportFailure(err error) {
	if err == nil {
		return
	}

	s.mu.Lock()
	s.failures = append(s.failures, err)
	s.mu.Unlock()
}

// Failures returns every error reported via ReportFailure, in order.
func (s *VirtualScheduler) Failures() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]error, len(s.failures))
	copy(out, s.failures)

	return out
}

// IsIdle reports whether the task queue is currently empty and no drain is
// in progress — the quiescence point a deterministic test asserts against
// instead of sleeping.
func (s *VirtualScheduler) IsIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.draining && len(s.queue) == 0
}

func (s *VirtualScheduler) ExecutionModel() stream.ExecutionModel {
	return s.model
}
