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

// Package xsync provides the pluggable locking strategies a Subscriber
// selects between depending on its ConcurrencyMode.
package xsync

import "sync"

// Mutex is the locking strategy a Subscriber serialises its Observer calls
// through.
type Mutex interface {
	TryLock() bool
	Lock()
	Unlock()
}

var _ Mutex = (*MutexWithLock)(nil)

// NewMutexWithLock returns a Mutex backed by a real sync.Mutex, for
// ConcurrencyModeSafe and ConcurrencyModeEventuallySafe.
func NewMutexWithLock() *MutexWithLock {
	return &MutexWithLock{}
}

// MutexWithLock wraps sync.Mutex.
type MutexWithLock struct {
	mu sync.Mutex
}

func (m *MutexWithLock) TryLock() bool {
	return m.mu.TryLock()
}

func (m *MutexWithLock) Lock() {
	m.mu.Lock()
}

func (m *MutexWithLock) Unlock() {
	m.mu.Unlock()
}

var _ Mutex = (*MutexWithoutLock)(nil)

// NewMutexWithoutLock returns a no-op Mutex for ConcurrencyModeUnsafe, where
// the caller has already guaranteed serialised access.
func NewMutexWithoutLock() *MutexWithoutLock {
	return &MutexWithoutLock{}
}

// MutexWithoutLock performs no locking at all.
type MutexWithoutLock struct{}

func (m *MutexWithoutLock) TryLock() bool { return true }
func (m *MutexWithoutLock) Lock()         {}
func (m *MutexWithoutLock) Unlock()       {}
