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
	"sync"

	"github.com/google/uuid"
)

// Subject is both an Observer and an Observable: subscribing to one or more
// sources and reemitting what it observes to its own subscribers (a
// multicast bridge). Subject is named as a required external contract by
// the core (spec §6); PublishSubject is the one concrete implementation
// this package ships, enough to exercise Lift and lawful termination
// against a multicast sink.
type Subject[T any] interface {
	Observable[T]
	Observer[T]

	CountObservers() int
	AsObservable() Observable[T]
	AsObserver() Observer[T]
}

var _ Subject[int] = (*publishSubject[int])(nil)

// NewPublishSubject creates a Subject that forwards every notification to
// whichever observers are subscribed at the moment it arrives (no replay,
// no buffering — an observer that subscribes after a value was emitted
// never sees it). A single terminal notification (OnComplete or OnError) is
// forwarded once and then replayed immediately to every later subscriber,
// since the grammar forbids resurrecting a terminated Subject.
func NewPublishSubject[T any]() Subject[T] {
	return &publishSubject[T]{
		observers: make(map[uuid.UUID]Subscriber[T]),
	}
}

type publishSubject[T any] struct {
	mu        sync.Mutex
	observers map[uuid.UUID]Subscriber[T]
	terminal  *Notification[T] // nil until OnError/OnComplete
}

func (s *publishSubject[T]) CountObservers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.observers)
}

func (s *publishSubject[T]) AsObservable() Observable[T] { return s }
func (s *publishSubject[T]) AsObserver() Observer[T]      { return s }

func (s *publishSubject[T]) Subscribe(destination Observer[T], sched Scheduler) Subscription {
	return s.SubscribeWithContext(context.Background(), destination, sched)
}

func (s *publishSubject[T]) SubscribeWithContext(ctx context.Context, destination Observer[T], sched Scheduler) Subscription {
	subscriber := NewSubscriber(destination, sched)

	s.mu.Lock()

	if s.terminal != nil {
		terminal := *s.terminal
		s.mu.Unlock()
		terminal.dispatch(func(T) {}, subscriber.OnError, subscriber.OnComplete)

		return subscriber
	}

	s.observers[subscriber.ID()] = subscriber
	s.mu.Unlock()

	subscriber.Add(func() {
		s.mu.Lock()
		delete(s.observers, subscriber.ID())
		s.mu.Unlock()
	})

	return subscriber
}

func (s *publishSubject[T]) OnNext(value T) Ack {
	s.mu.Lock()
	observers := make([]Subscriber[T], 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnNext(value)
	}

	return Continue
}

func (s *publishSubject[T]) OnError(err error) {
	s.terminate(NewNotificationError[T](err))
}

func (s *publishSubject[T]) OnComplete() {
	s.terminate(NewNotificationComplete[T]())
}

func (s *publishSubject[T]) terminate(n Notification[T]) {
	s.mu.Lock()

	if s.terminal != nil {
		s.mu.Unlock()
		return
	}

	s.terminal = &n
	observers := make([]Subscriber[T], 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.observers = make(map[uuid.UUID]Subscriber[T])
	s.mu.Unlock()

	for _, o := range observers {
		n.dispatch(func(T) {}, o.OnError, o.OnComplete)
	}
}

func (s *publishSubject[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal != nil
}

func (s *publishSubject[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal != nil && s.terminal.Kind == NotificationError
}

func (s *publishSubject[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.terminal != nil && s.terminal.Kind == NotificationComplete
}
