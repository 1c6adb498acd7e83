// Copyright 2025 Tom Barlow
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

package handler

import (
	"time"

	"github.com/tombee/cfnresource/pkg/cfnevent"
)

// Session tracks wall-clock time across the whole chain of executions of
// one provisioning session. The start timestamp and budget ride in the
// envelope, so every execution in the chain measures against the same
// clock origin regardless of its own remaining-time budget.
type Session struct {
	// Start is when the session's first execution stamped the envelope.
	Start time.Time

	// Budget is the total wall-clock allowance for the session.
	Budget time.Duration
}

// NewSession reads the session clock from an envelope. The envelope must
// already carry CreationTime and Timeout; the router stamps both on first
// sight of a session.
func NewSession(ev *cfnevent.Event) Session {
	return Session{
		Start:  time.Unix(ev.CreationTime, 0),
		Budget: time.Duration(ev.Timeout) * time.Second,
	}
}

// Elapsed returns the wall-clock time consumed by the session so far.
func (s Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Start)
}

// Remaining returns the session budget still available. Negative once the
// session has expired.
func (s Session) Remaining(now time.Time) time.Duration {
	return s.Budget - s.Elapsed(now)
}

// Expired reports whether the session budget is exhausted. Checked before
// dispatching to a handler and again right after a checkpoint, with a fresh
// clock reading each time, so an expired session never schedules another
// continuation.
func (s Session) Expired(now time.Time) bool {
	return s.Remaining(now) <= 0
}
