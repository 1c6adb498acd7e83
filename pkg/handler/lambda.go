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
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tombee/cfnresource/pkg/cfnevent"
)

// lambdaMaxDuration is reported as the remaining-time hint when the
// invocation context carries no deadline (local harnesses, tests). It is
// the platform's maximum execution duration.
const lambdaMaxDuration = 15 * time.Minute

// Start registers the router as the Lambda entrypoint and blocks serving
// invocations.
//
//	registry := handler.NewRegistry()
//	registry.Create(createFn)
//	registry.Poll(pollFn)
//	router, err := handler.New(handler.Config{...})
//	...
//	handler.Start(router)
func Start(r *Router) {
	lambda.Start(r.Handle)
}

// Handle processes one Lambda invocation. It always returns nil: terminal
// failures are reported through the callback document, and a callback
// delivery failure must not surface as an invocation error because the
// platform would then re-run the execution and risk a duplicate terminal
// response.
func (r *Router) Handle(ctx context.Context, ev cfnevent.Event) error {
	_, _ = r.Route(ctx, &ev, RemainingFromContext(ctx))
	return nil
}

// RemainingFromContext derives the remaining-time hint from the invocation
// context deadline set by the Lambda runtime.
func RemainingFromContext(ctx context.Context) RemainingTime {
	return func() time.Duration {
		deadline, ok := ctx.Deadline()
		if !ok {
			return lambdaMaxDuration
		}
		return time.Until(deadline)
	}
}
