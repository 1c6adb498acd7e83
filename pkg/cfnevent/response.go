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

package cfnevent

import "encoding/json"

// Status is the terminal outcome of a provisioning session.
type Status string

const (
	// StatusSuccess reports successful completion to CloudFormation.
	StatusSuccess Status = "SUCCESS"
	// StatusFailed reports failure; Reason carries the cause.
	StatusFailed Status = "FAILED"
)

// Response is the terminal outcome document delivered to the callback
// endpoint. It deliberately contains only response fields: request-only
// fields such as ResourceProperties, ServiceToken and ResponseURL are never
// echoed back.
type Response struct {
	Status             Status                 `json:"Status"`
	Reason             string                 `json:"Reason,omitempty"`
	PhysicalResourceID string                 `json:"PhysicalResourceId"`
	StackID            string                 `json:"StackId"`
	RequestID          string                 `json:"RequestId"`
	LogicalResourceID  string                 `json:"LogicalResourceId"`
	NoEcho             bool                   `json:"NoEcho,omitempty"`
	Data               map[string]interface{} `json:"Data,omitempty"`
}

// NewResponse builds a success response pre-populated with the envelope's
// identity fields. When the envelope carries no physical resource id one is
// derived from the stack and logical resource ids.
func NewResponse(ev *Event) *Response {
	physicalID := ev.PhysicalResourceID
	if physicalID == "" {
		physicalID = DefaultPhysicalResourceID(ev.StackID, ev.LogicalResourceID)
	}
	return &Response{
		Status:             StatusSuccess,
		PhysicalResourceID: physicalID,
		StackID:            ev.StackID,
		RequestID:          ev.RequestID,
		LogicalResourceID:  ev.LogicalResourceID,
	}
}

// Marshal serializes the response document for callback delivery.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
