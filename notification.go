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

import "fmt"

// NotificationKind distinguishes the three cases a Notification can carry.
type NotificationKind uint8

const (
	NotificationNext NotificationKind = iota
	NotificationError
	NotificationComplete
)

func (k NotificationKind) String() string {
	switch k {
	case NotificationNext:
		return "Next"
	case NotificationError:
		return "Error"
	case NotificationComplete:
		return "Complete"
	}

	panic("stream: invalid notification kind")
}

// Notification is the reified form of on_next | on_error | on_complete,
// used for the Materialize/Dematerialize round-trip (spec §4.9).
type Notification[T any] struct {
	Kind  NotificationKind
	Value T
	Err   error
}

func (n Notification[T]) String() string {
	switch n.Kind {
	case NotificationNext:
		return fmt.Sprintf("Next(%+v)", n.Value)
	case NotificationError:
		if n.Err == nil {
			return "Error(nil)"
		}

		return fmt.Sprintf("Error(%s)", n.Err.Error())
	case NotificationComplete:
		return "Complete()"
	}

	panic("stream: invalid notification kind")
}

// NewNotificationNext wraps a value as a Next notification.
func NewNotificationNext[T any](value T) Notification[T] {
	return Notification[T]{Kind: NotificationNext, Value: value}
}

// NewNotificationError wraps err as an Error notification.
func NewNotificationError[T any](err error) Notification[T] {
	return Notification[T]{Kind: NotificationError, Err: err}
}

// NewNotificationComplete builds a Complete notification.
func NewNotificationComplete[T any]() Notification[T] {
	return Notification[T]{Kind: NotificationComplete}
}

// dispatch replays n onto the three destination callbacks and reports
// whether the stream may continue (true only for Next).
func (n Notification[T]) dispatch(onNext func(T), onError func(error), onComplete func()) bool {
	switch n.Kind {
	case NotificationNext:
		onNext(n.Value)
		return true
	case NotificationError:
		onError(n.Err)
		return false
	case NotificationComplete:
		onComplete()
		return false
	}

	panic("stream: invalid notification kind")
}
