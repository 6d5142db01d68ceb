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
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Teardown cleans up a resource held for the lifetime of a subscription. It
// runs exactly once, when the Subscription is cancelled.
type Teardown func()

// Cancelable is anything that can be cancelled. Cancel is idempotent.
type Cancelable interface {
	Cancel()
}

// Subscription represents an ongoing Observable execution: cancelling it
// severs further delivery to the downstream Observer and triggers eventual
// resource finalisation. Cancellation is cooperative and non-preemptive — an
// in-flight OnNext is never aborted.
type Subscription interface {
	Cancelable

	// ID uniquely identifies this subscription, for log correlation.
	ID() uuid.UUID
	Add(teardown Teardown)
	AddCancelable(c Cancelable)
	IsClosed() bool
	// Wait blocks until the subscription is cancelled (by error, completion,
	// or an explicit Cancel call). Rarely appropriate outside tests.
	Wait()
}

var _ Subscription = (*subscriptionImpl)(nil)

// NewSubscription creates a Subscription. A nil teardown is ignored. If the
// subscription is already closed by the time Add is called, the teardown
// runs immediately instead of being queued.
func NewSubscription(teardown Teardown) Subscription {
	finalizers := make([]func(), 0, 4)
	if teardown != nil {
		finalizers = append(finalizers, teardown)
	}

	return &subscriptionImpl{
		id:         uuid.New(),
		finalizers: finalizers,
	}
}

type subscriptionImpl struct {
	id uuid.UUID

	mu         sync.Mutex
	done       bool
	finalizers []func()
}

func (s *subscriptionImpl) ID() uuid.UUID {
	return s.id
}

func (s *subscriptionImpl) Add(teardown Teardown) {
	if teardown == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		teardown()
		return
	}

	s.finalizers = append(s.finalizers, teardown)
}

func (s *subscriptionImpl) AddCancelable(c Cancelable) {
	if c == nil {
		return
	}

	s.Add(c.Cancel)
}

// Cancel runs every registered teardown exactly once, in registration
// order. Panics from individual teardowns are collected, joined, and
// re-panicked after all teardowns have run, so one broken finalizer never
// prevents the others from executing.
func (s *subscriptionImpl) Cancel() {
	s.mu.Lock()

	if s.done {
		s.mu.Unlock()
		return
	}

	s.done = true
	finalizers := s.finalizers
	s.finalizers = nil
	s.mu.Unlock()

	var errs []error

	for _, finalizer := range finalizers {
		if err := execFinalizer(finalizer); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		panic(errors.Join(errs...))
	}
}

func (s *subscriptionImpl) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done
}

func (s *subscriptionImpl) Wait() {
	ch := make(chan struct{}, 1)
	s.Add(func() { ch <- struct{}{} })
	<-ch
	close(ch)
}

func execFinalizer(finalizer func()) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			finalizer()
			return nil
		},
		func(e any) {
			err = newUnsubscriptionError(recoverValueToError(e))
		},
	)

	return err
}
