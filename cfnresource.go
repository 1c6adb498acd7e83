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

package cfnresource

import (
	"context"
	"time"

	"github.com/tombee/cfnresource/internal/awsclient"
	"github.com/tombee/cfnresource/internal/log"
	"github.com/tombee/cfnresource/pkg/callback"
	"github.com/tombee/cfnresource/pkg/handler"
)

// Config configures a production router. The zero value is usable: AWS
// collaborators are constructed from the default credential chain, secret
// resolution is enabled, and logging follows the environment.
type Config struct {
	// SecureAttributes names Data keys masked in logged copies of the
	// callback document.
	SecureAttributes []string

	// BaseData is merged under every successful response's Data.
	BaseData map[string]interface{}

	// DisableSecretResolution turns off dynamic secret reference
	// resolution in resource properties.
	DisableSecretResolution bool

	// DefaultTimeout is the session budget applied when the event carries
	// none. Default: 300 seconds.
	DefaultTimeout time.Duration

	// CallbackRetries is the number of callback re-delivery attempts after
	// a failed one. Default: 1.
	CallbackRetries int
}

// New constructs a fully wired router: CloudFormation status lookup,
// Secrets Manager reference resolution, Lambda continuation invocation, and
// HTTP callback delivery. Call it once during cold start, register the
// lifecycle handlers first, then hand the router to handler.Start.
//
//	registry := handler.NewRegistry()
//	registry.Create(onCreate)
//	registry.Delete(onDelete)
//	registry.Poll(onPoll)
//
//	router, err := cfnresource.New(context.Background(), registry, cfnresource.Config{})
//	if err != nil {
//	    panic(err)
//	}
//	handler.Start(router)
func New(ctx context.Context, registry *handler.Registry, cfg Config) (*handler.Router, error) {
	awsCfg, err := awsclient.Load(ctx)
	if err != nil {
		return nil, err
	}

	reporterCfg := callback.DefaultConfig()
	if cfg.CallbackRetries > 0 {
		reporterCfg.Retries = cfg.CallbackRetries
	}
	reporter, err := callback.New(reporterCfg)
	if err != nil {
		return nil, err
	}

	logger := log.New(log.FromEnv())

	return handler.New(handler.Config{
		Registry:                registry,
		Reporter:                reporter,
		Invoker:                 awsclient.NewContinuationInvoker(awsCfg),
		StatusLookup:            awsclient.NewStackStatusClient(awsCfg),
		SecretResolver:          awsclient.NewSecretResolver(awsCfg),
		DisableSecretResolution: cfg.DisableSecretResolution,
		SecureAttributes:        cfg.SecureAttributes,
		BaseData:                cfg.BaseData,
		DefaultTimeout:          cfg.DefaultTimeout,
		Logger:                  log.WithComponent(logger, "cfnresource"),
	})
}
