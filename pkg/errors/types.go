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

package errors

import (
	"fmt"
	"time"
)

// SessionTimeoutError reports that a provisioning session exhausted its
// wall-clock budget across the whole chain of executions. It is terminal:
// no further continuation is scheduled once it is raised.
type SessionTimeoutError struct {
	// Timeout is the user-specified session budget.
	Timeout time.Duration

	// Elapsed is the wall-clock time since the session started.
	Elapsed time.Duration
}

// Error implements the error interface. The message names the user
// specified budget because it is the reason CloudFormation displays.
func (e *SessionTimeoutError) Error() string {
	return fmt.Sprintf("the custom resource operation failed to complete within the user specified timeout of %d seconds", int(e.Timeout.Seconds()))
}

// SecretResolutionError reports a dynamic secret reference that could not be
// resolved. It is fatal: an unresolved reference must never pass through to
// the handler as a literal token.
type SecretResolutionError struct {
	// Reference is the literal reference token that failed to resolve.
	Reference string

	// Cause is the underlying resolution error.
	Cause error
}

// Error implements the error interface.
func (e *SecretResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve secret reference %s: %v", e.Reference, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SecretResolutionError) Unwrap() error {
	return e.Cause
}

// UnregisteredPhaseError reports a request for a lifecycle phase that has no
// registered handler.
type UnregisteredPhaseError struct {
	// Phase is the phase that was requested (Create, Update, Delete, Poll).
	Phase string
}

// Error implements the error interface.
func (e *UnregisteredPhaseError) Error() string {
	return fmt.Sprintf("no handler registered for request type %s", e.Phase)
}

// ContinuationError reports a failure to submit the next execution of a
// session. It is terminal: without it the session would stall silently with
// no pending execution and no orchestrator notification.
type ContinuationError struct {
	// Cause is the underlying submission error.
	Cause error
}

// Error implements the error interface.
func (e *ContinuationError) Error() string {
	return fmt.Sprintf("failed to invoke continuation after execution checkpoint: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ContinuationError) Unwrap() error {
	return e.Cause
}

// CallbackError reports a failed delivery of the terminal outcome document.
type CallbackError struct {
	// StatusCode is the HTTP status code, if a response was received.
	StatusCode int

	// Cause is the underlying transport error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("callback delivery failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("callback delivery failed: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CallbackError) Unwrap() error {
	return e.Cause
}

// ConfigError represents configuration problems.
// Use this for missing settings or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "timeout", "callback_retries")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
