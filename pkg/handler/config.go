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
	"context"
	"log/slog"
	"time"

	"github.com/tombee/cfnresource/pkg/cfnevent"
	"github.com/tombee/cfnresource/pkg/errors"
	"github.com/tombee/cfnresource/pkg/secrets"
)

// StatusLookup fetches the current status of the stack owning a resource.
// Implemented against CloudFormation DescribeStacks; substituted with a
// fake in tests. Lookup failure is never fatal to provisioning.
type StatusLookup interface {
	StackStatus(ctx context.Context, stackID string) (status, reason string, err error)
}

// Invoker schedules a fresh execution of the same unit of work with the
// given envelope as input, without waiting for its result. Implemented with
// an asynchronous Lambda self-invocation; substituted with a fake in tests.
type Invoker interface {
	Invoke(ctx context.Context, ev *cfnevent.Event) error
}

// Reporter delivers the terminal outcome document to the callback endpoint.
type Reporter interface {
	Report(ctx context.Context, url string, resp *cfnevent.Response) error
}

// Config configures a Router.
type Config struct {
	// Registry supplies the lifecycle phase handlers. Required.
	Registry *Registry

	// Reporter delivers terminal outcomes. Required.
	Reporter Reporter

	// Invoker schedules continuations. Required unless no handler ever
	// checkpoints; a checkpoint with no invoker fails the session.
	Invoker Invoker

	// StatusLookup populates StackStatus/StackStatusReason before
	// Update/Delete dispatch. Optional; when nil both fields degrade to
	// "UNKNOWN" just as they do on lookup failure.
	StatusLookup StatusLookup

	// SecretResolver resolves dynamic secret references embedded in
	// resource properties. Optional.
	SecretResolver secrets.Resolver

	// DisableSecretResolution turns the resolution step off entirely,
	// leaving reference tokens untouched. Default: resolution runs
	// whenever a resolver is configured.
	DisableSecretResolution bool

	// SecureAttributes names Data keys masked in logged copies of the
	// callback document. The delivered document is never masked.
	SecureAttributes []string

	// BaseData is merged under every successful response's Data; handler
	// Data wins on key conflicts.
	BaseData map[string]interface{}

	// DefaultTimeout is the session budget applied when the event carries
	// none. Default: 300 seconds.
	DefaultTimeout time.Duration

	// Logger receives structured routing logs. Default: slog.Default().
	Logger *slog.Logger

	// Now is the clock used for session deadline decisions. Default:
	// time.Now. Tests substitute it to pin elapsed time.
	Now func() time.Time
}

// Validate checks the configuration is complete.
func (c *Config) Validate() error {
	if c.Registry == nil {
		return &errors.ConfigError{Key: "registry", Reason: "is required"}
	}
	if c.Reporter == nil {
		return &errors.ConfigError{Key: "reporter", Reason: "is required"}
	}
	if c.DefaultTimeout < 0 {
		return &errors.ConfigError{Key: "default_timeout", Reason: "cannot be negative"}
	}
	return nil
}
