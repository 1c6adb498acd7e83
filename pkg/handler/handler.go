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

// Package handler routes CloudFormation custom resource requests to
// registered lifecycle handlers, enforcing the session deadline, capturing
// checkpoints, scheduling continuations, and delivering the terminal outcome
// exactly once per provisioning session.
package handler

import (
	"context"
	"time"

	"github.com/tombee/cfnresource/pkg/cfnevent"
)

// RemainingTime reports how long the current execution may still run before
// the host terminates it. It is a per-execution hint consumed only by
// handler functions deciding when to checkpoint; the router itself tracks
// the session deadline, not the execution deadline.
type RemainingTime func() time.Duration

// Result is what a handler returns on normal completion. The zero value
// reports plain success; every field overrides the corresponding callback
// document field when set.
type Result struct {
	// Status overrides the outcome status. Leave empty for SUCCESS.
	Status cfnevent.Status

	// Reason carries the failure cause when Status is FAILED.
	Reason string

	// PhysicalResourceID overrides the provisioned resource identity.
	// When empty the envelope's id (or its derived default) is used.
	PhysicalResourceID string

	// NoEcho asks CloudFormation to mask the Data values in console output.
	NoEcho bool

	// Data is the resource's output attributes.
	Data map[string]interface{}
}

// Func is a lifecycle phase handler. It runs with the fully enriched
// envelope: stack status populated and secret references resolved. To
// suspend near the execution time limit, return the error produced by
// Checkpoint; any other error fails the session.
type Func func(ctx context.Context, event *cfnevent.Event, remaining RemainingTime) (*Result, error)

// Registry holds the handler registered for each lifecycle phase.
// Construct one per process and register handlers before routing begins;
// registration is not synchronized with routing.
type Registry struct {
	handlers map[string]Func
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Func)}
}

// Create registers the handler for initial Create requests.
func (r *Registry) Create(fn Func) {
	r.handlers[string(cfnevent.RequestCreate)] = fn
}

// Update registers the handler for Update requests.
func (r *Registry) Update(fn Func) {
	r.handlers[string(cfnevent.RequestUpdate)] = fn
}

// Delete registers the handler for Delete requests.
func (r *Registry) Delete(fn Func) {
	r.handlers[string(cfnevent.RequestDelete)] = fn
}

// Poll registers the handler for continuation calls. A session that
// checkpoints resumes here, regardless of the phase that started it.
func (r *Registry) Poll(fn Func) {
	r.handlers[cfnevent.StatusPoll] = fn
}

// Lookup returns the handler registered for a phase.
func (r *Registry) Lookup(phase string) (Func, bool) {
	fn, ok := r.handlers[phase]
	return fn, ok
}
