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

import "sync"

// AckKind distinguishes the three states an Ack can be in.
type AckKind int8

const (
	// AckContinue signals the upstream may emit the next element.
	AckContinue AckKind = iota
	// AckStop signals the downstream refuses further items; upstream must
	// cease and must not invoke on_complete/on_error.
	AckStop
	// AckPending signals the ack has not resolved yet; see Ack.OnResolve.
	AckPending
)

// Ack is the back-pressure signal an Observer.OnNext returns. It is either
// immediate (Continue/Stop, zero-allocation singletons) or deferred
// (Pending, resolved later via the paired AckResolver). Upstream must not
// call OnNext again until a returned Ack resolves.
type Ack struct {
	kind    AckKind
	pending *pendingAck
}

// Continue is the immediate "send me the next element" ack.
var Continue = Ack{kind: AckContinue} //nolint:gochecknoglobals

// Stop is the immediate, terminal "stop sending" ack.
var Stop = Ack{kind: AckStop} //nolint:gochecknoglobals

// Kind reports which of Continue/Stop/Pending this ack is.
func (a Ack) Kind() AckKind {
	return a.kind
}

type pendingAck struct {
	mu       sync.Mutex
	done     bool
	resolved Ack
	err      error
	waiters  []func(Ack, error)
}

func (p *pendingAck) register(fn func(Ack, error)) {
	p.mu.Lock()
	if p.done {
		resolved, err := p.resolved, p.err
		p.mu.Unlock()
		fn(resolved, err)

		return
	}

	p.waiters = append(p.waiters, fn)
	p.mu.Unlock()
}

func (p *pendingAck) resolve(ack Ack, err error) {
	p.mu.Lock()

	if p.done {
		p.mu.Unlock()
		return
	}

	p.done = true
	p.resolved = ack
	p.err = err
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, w := range waiters {
		w(ack, err)
	}
}

// AckResolver resolves the Ack returned alongside it by PendingAck.
// Resolve is idempotent: calls after the first are silently dropped, per
// the same idempotency contract as Subscription.Cancel.
type AckResolver struct {
	p *pendingAck
}

// Resolve settles the paired Ack to ack, optionally carrying the failure
// that caused a non-Continue resolution (err is nil on a plain Continue or
// Stop resolution, and non-nil when the deferred work itself failed).
func (r AckResolver) Resolve(ack Ack, err error) {
	r.p.resolve(ack, err)
}

// PendingAck creates a deferred Ack together with the resolver that settles
// it. The returned Ack's Kind is AckPending until Resolve is called.
func PendingAck() (Ack, AckResolver) {
	p := &pendingAck{}

	return Ack{kind: AckPending, pending: p}, AckResolver{p: p}
}

// OnResolve invokes cb with the ack's terminal value. For an immediate ack
// (Continue/Stop) cb runs synchronously and inline. For a Pending ack, cb
// runs as a task submitted to sched once the ack resolves — this is the
// Scheduler-run continuation spec describes as the sole suspension/resume
// point of a subscription.
func (a Ack) OnResolve(sched Scheduler, cb func(Ack, error)) {
	if a.kind != AckPending {
		cb(a, nil)
		return
	}

	a.pending.register(func(ack Ack, err error) {
		sched.Execute(func() { cb(ack, err) })
	})
}
