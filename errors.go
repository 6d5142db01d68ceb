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
	"fmt"

	"github.com/samber/lo"
)

// ErrAPIContractViolation is signalled to every subscriber after the first
// of a single-subscriber Observable (see FromIteratorWithResource), and by
// Dematerialize for a Notification that arrives after a terminal one.
var ErrAPIContractViolation = errors.New("stream: API contract violation: only one subscriber is allowed")

// ErrReduceWrongState is returned by FoldLeft if the seed producer panics at
// subscription time.
var ErrReduceWrongState = errors.New("stream: Reduce: failed to construct initial state")

// ErrDropWrongCount is the panic value when Drop is called with a negative
// count.
var ErrDropWrongCount = errors.New("stream.Drop: count must be greater or equal to 0")

func recoverValueToError(e any) error {
	if err, ok := e.(error); ok {
		return err
	}

	return fmt.Errorf("unexpected panic: %v", e)
}

// recoverUnhandledError runs cb and, should it panic, converts the panic
// into an error and reports it as a protocol failure rather than letting it
// unwind across an operator boundary.
func recoverUnhandledError(sched Scheduler, cb func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			cb()
			return nil
		},
		func(e any) {
			err := recoverValueToError(e)
			if sched != nil {
				sched.ReportFailure(err)
			} else {
				OnUnhandledError(context.Background(), err)
			}
		},
	)
}

func newObservableError(err error) error {
	return &observableError{err: err}
}

type observableError struct {
	err error
}

func (e *observableError) Error() string {
	return "stream.Observable: " + e.err.Error()
}

func (e *observableError) Unwrap() error {
	return e.err
}

func newObserverError(err error) error {
	return &observerError{err: err}
}

type observerError struct {
	err error
}

func (e *observerError) Error() string {
	msg := "<nil>"
	if e.err != nil {
		msg = e.err.Error()
	}

	return "stream.Observer: " + msg
}

func (e *observerError) Unwrap() error {
	return e.err
}

func newUnsubscriptionError(err error) error {
	return &unsubscriptionError{err: err}
}

type unsubscriptionError struct {
	err error
}

func (e *unsubscriptionError) Error() string {
	return "stream.Subscription: " + e.err.Error()
}

func (e *unsubscriptionError) Unwrap() error {
	return e.err
}

func newSchedulerError(err error) error {
	return &schedulerError{err: err}
}

type schedulerError struct {
	err error
}

func (e *schedulerError) Error() string {
	return "stream.Scheduler: " + e.err.Error()
}

func (e *schedulerError) Unwrap() error {
	return e.err
}

func newResourceError(err error) error {
	return &resourceError{err: err}
}

type resourceError struct {
	err error
}

func (e *resourceError) Error() string {
	return "stream.Resource: " + e.err.Error()
}

func (e *resourceError) Unwrap() error {
	return e.err
}
