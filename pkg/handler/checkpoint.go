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

// CheckpointError is the control-flow signal a handler returns to suspend
// the current execution and resume in a fresh one. It carries an opaque,
// JSON-serializable state payload that the next execution receives verbatim
// in the envelope's EventState; the router never inspects its contents.
//
// Returning any other error fails the session.
type CheckpointError struct {
	// State is the checkpoint payload handed to the next execution.
	State interface{}
}

// Error implements the error interface.
func (e *CheckpointError) Error() string {
	return "execution approaching timeout, requested continuation"
}

// Checkpoint returns the error a handler uses to request
// suspension-and-resume with the given state payload.
//
//	if remaining() < 10*time.Second {
//	    return nil, handler.Checkpoint(progress)
//	}
func Checkpoint(state interface{}) error {
	return &CheckpointError{State: state}
}
