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

// Package cfnevent defines the CloudFormation custom resource request
// envelope and the callback response document.
//
// The envelope is the unit of state threaded through every execution of a
// provisioning session: CloudFormation creates it for the initial call, and
// the continuation invoker re-creates it (with EventState attached) for
// every chained execution. Fields not part of CloudFormation's own request
// shape (CreationTime, Timeout, EventStatus, EventState) are carried in the
// same JSON document so they survive the round trip through the
// asynchronous self-invocation.
package cfnevent

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RequestType is the lifecycle operation declared by CloudFormation.
type RequestType string

const (
	// RequestCreate is the initial provisioning request for a resource.
	RequestCreate RequestType = "Create"
	// RequestUpdate requests reconfiguration of an existing resource.
	RequestUpdate RequestType = "Update"
	// RequestDelete requests teardown of an existing resource.
	RequestDelete RequestType = "Delete"
)

// StatusPoll marks a continuation of an in-flight session. It travels in
// EventStatus rather than RequestType so the orchestrator-declared operation
// is preserved across the whole chain.
const StatusPoll = "Poll"

// DefaultTimeout is the session wall-clock budget in seconds when the
// template does not specify one.
const DefaultTimeout = 300

// Seconds is an integer number of seconds that tolerates both JSON numbers
// and numeric strings. CloudFormation templates frequently deliver integers
// as strings, so the Timeout property must accept either encoding.
type Seconds int64

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*s = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seconds value %s: %w", string(data), err)
	}
	*s = Seconds(v)
	return nil
}

// Event is the request envelope for one execution of a provisioning session.
type Event struct {
	// RequestType is the lifecycle operation declared by CloudFormation.
	// It is immutable for the lifetime of the session, including on
	// continuation calls.
	RequestType RequestType `json:"RequestType"`

	// EventStatus is "Poll" on continuation calls and empty otherwise.
	EventStatus string `json:"EventStatus,omitempty"`

	// ResponseURL is the pre-signed callback endpoint the terminal outcome
	// must be delivered to.
	ResponseURL string `json:"ResponseURL"`

	// StackID, RequestID and LogicalResourceID identify the provisioning
	// request; they are echoed verbatim on the callback document.
	StackID           string `json:"StackId"`
	RequestID         string `json:"RequestId"`
	LogicalResourceID string `json:"LogicalResourceId"`

	// ResourceType is the custom resource type name (e.g. Custom::MyThing).
	ResourceType string `json:"ResourceType,omitempty"`

	// ServiceToken is the ARN CloudFormation invoked; request-only, never
	// echoed on the callback.
	ServiceToken string `json:"ServiceToken,omitempty"`

	// PhysicalResourceID is absent on the first Create call and stable
	// across Update/Delete for the same logical resource.
	PhysicalResourceID string `json:"PhysicalResourceId,omitempty"`

	// ResourceProperties is the provisioning input. Values may contain
	// dynamic secret references that are resolved in place before dispatch.
	ResourceProperties map[string]interface{} `json:"ResourceProperties,omitempty"`

	// OldResourceProperties carries the previous input on Update requests.
	OldResourceProperties map[string]interface{} `json:"OldResourceProperties,omitempty"`

	// CreationTime is the session start, unix seconds. Stamped by the
	// router the first time a session is seen and echoed back unchanged on
	// every continuation.
	CreationTime int64 `json:"CreationTime,omitempty"`

	// Timeout is the total wall-clock budget for the session in seconds,
	// spanning all chained executions.
	Timeout Seconds `json:"Timeout,omitempty"`

	// EventState is the last checkpoint payload; present only on
	// continuation calls. Its contents are owned entirely by the handler
	// that produced it.
	EventState json.RawMessage `json:"EventState,omitempty"`

	// StackStatus and StackStatusReason are populated from the stack status
	// lookup before Update/Delete dispatch, "UNKNOWN" when the lookup
	// fails.
	StackStatus       string `json:"StackStatus,omitempty"`
	StackStatusReason string `json:"StackStatusReason,omitempty"`
}

// IsContinuation reports whether this envelope resumes an in-flight session.
func (e *Event) IsContinuation() bool {
	return len(e.EventState) > 0
}

// Phase returns the dispatch phase for this envelope: "Poll" for
// continuations, the declared request type otherwise.
func (e *Event) Phase() string {
	if e.EventStatus != "" {
		return e.EventStatus
	}
	return string(e.RequestType)
}

// Clone returns a deep copy of the envelope. Continuations are built from a
// copy so the envelope consumed by the current execution is never mutated
// after dispatch.
func (e *Event) Clone() *Event {
	dup := *e
	dup.ResourceProperties = cloneMap(e.ResourceProperties)
	dup.OldResourceProperties = cloneMap(e.OldResourceProperties)
	if e.EventState != nil {
		dup.EventState = append(json.RawMessage(nil), e.EventState...)
	}
	return &dup
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// DefaultPhysicalResourceID derives a stable physical resource id for events
// that do not carry one: hex md5 over the stack id and logical resource id,
// so repeat invocations for the same logical resource agree on identity.
func DefaultPhysicalResourceID(stackID, logicalResourceID string) string {
	sum := md5.Sum([]byte(stackID + logicalResourceID))
	return hex.EncodeToString(sum[:])
}
