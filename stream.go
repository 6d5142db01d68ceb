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

// Package stream implements a push-based reactive stream core: Observable,
// Observer, Subscriber and an operator engine built around an Ack-based
// back-pressure protocol, cooperative scheduling, and lawful
// completion/error termination.
package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Logger is the sink used by DefaultOnUnhandledError and
// DefaultOnDroppedNotification. It is a package-level variable so a host
// application can plug in its own zerolog.Logger; it defaults to a no-op
// logger so the library is silent until wired up.
var Logger = zerolog.Nop()

var (
	// OnUnhandledError is invoked whenever a protocol error (one that must
	// never re-enter the pipeline, per the exception policy) has nowhere
	// else to go. Override this to observe it; assigning
	// DefaultOnUnhandledError routes it to Logger.
	OnUnhandledError = IgnoreOnUnhandledError
	// OnDroppedNotification is invoked when a Notification cannot be
	// delivered (e.g. emitted after termination).
	OnDroppedNotification = IgnoreOnDroppedNotification
)

// IgnoreOnUnhandledError is the default no-op OnUnhandledError.
func IgnoreOnUnhandledError(ctx context.Context, err error) {}

// IgnoreOnDroppedNotification is the default no-op OnDroppedNotification.
func IgnoreOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {}

// DefaultOnUnhandledError logs via Logger. Assign it to OnUnhandledError to
// opt in to structured logging of protocol failures instead of silence.
func DefaultOnUnhandledError(ctx context.Context, err error) {
	if err != nil {
		Logger.Error().Err(err).Msg("stream: unhandled protocol error")
	}
}

// DefaultOnDroppedNotification logs via Logger.
func DefaultOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	Logger.Warn().Str("notification", notification.String()).Msg("stream: dropped notification")
}
