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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/cfnresource/pkg/cfnevent"
)

func TestSession_Deadline(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	session := Session{Start: start, Budget: 300 * time.Second}

	tests := []struct {
		name          string
		now           time.Time
		wantRemaining time.Duration
		wantExpired   bool
	}{
		{
			name:          "at start",
			now:           start,
			wantRemaining: 300 * time.Second,
		},
		{
			name:          "mid session",
			now:           start.Add(100 * time.Second),
			wantRemaining: 200 * time.Second,
		},
		{
			name:          "exactly at budget",
			now:           start.Add(300 * time.Second),
			wantRemaining: 0,
			wantExpired:   true,
		},
		{
			name:          "past budget",
			now:           start.Add(301 * time.Second),
			wantRemaining: -1 * time.Second,
			wantExpired:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRemaining, session.Remaining(tt.now))
			assert.Equal(t, tt.wantExpired, session.Expired(tt.now))
		})
	}
}

func TestNewSession_FromEnvelope(t *testing.T) {
	ev := &cfnevent.Event{CreationTime: 1_700_000_000, Timeout: 600}
	session := NewSession(ev)

	assert.Equal(t, time.Unix(1_700_000_000, 0), session.Start)
	assert.Equal(t, 600*time.Second, session.Budget)
}

func TestCheckpoint_DetectedWithErrorsAs(t *testing.T) {
	err := Checkpoint(map[string]int{"step": 2})

	var checkpoint *CheckpointError
	require.True(t, errors.As(err, &checkpoint))
	assert.Equal(t, map[string]int{"step": 2}, checkpoint.State)

	// A wrapped checkpoint still routes as a continuation.
	wrapped := checkpointWrapper{err}
	require.True(t, errors.As(wrapped, &checkpoint))
}

type checkpointWrapper struct{ err error }

func (w checkpointWrapper) Error() string { return w.err.Error() }
func (w checkpointWrapper) Unwrap() error { return w.err }
