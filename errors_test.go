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

func TestRecoverValueToErrorPassesThroughErrors(t *testing.T) {
	sentinel := errors.New("sentinel")
	assert.Same(t, sentinel, recoverValueToError(sentinel))
}

func TestRecoverValueToErrorWrapsNonErrorValues(t *testing.T) {
	err := recoverValueToError("boom")
	assert.Contains(t, err.Error(), "boom")
}

func TestWrappedErrorsUnwrapToTheUnderlyingCause(t *testing.T) {
	sentinel := errors.New("sentinel")

	for _, wrapped := range []error{
		newObservableError(sentinel),
		newObserverError(sentinel),
		newUnsubscriptionError(sentinel),
		newSchedulerError(sentinel),
		newResourceError(sentinel),
	} {
		assert.ErrorIs(t, wrapped, sentinel)
	}
}

func TestRecoverUnhandledErrorRoutesToScheduler(t *testing.T) {
	sched := NewImmediateScheduler(0)

	var reported error

	sched2 := &reportingScheduler{ImmediateScheduler: sched, report: func(err error) { reported = err }}

	sentinel := errors.New("unhandled")
	recoverUnhandledError(sched2, func() { panic(sentinel) })

	assert.ErrorIs(t, reported, sentinel)
}

type reportingScheduler struct {
	*ImmediateScheduler
	report func(error)
}

func (r *reportingScheduler) ReportFailure(err error) {
	r.report(err)
}
