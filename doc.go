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

// Package cfnresource builds AWS Lambda functions that implement
// CloudFormation custom resources, including provisioning work that
// outlives a single Lambda execution.
//
// A provisioning session starts when CloudFormation invokes the function
// with a Create, Update or Delete request. The router stamps the session's
// start time and wall-clock budget into the request envelope, enriches it
// (stack status for Update/Delete, dynamic secret reference resolution),
// and dispatches to the handler registered for the phase.
//
// A handler that cannot finish within the current execution returns
// handler.Checkpoint(state). The router copies the envelope, attaches the
// state, and asynchronously re-invokes the function; the fresh execution
// routes to the Poll handler with the checkpoint available in EventState.
// The chain continues until a handler completes, fails, or the session
// budget is exhausted. Exactly one terminal SUCCESS/FAILED document is then
// delivered to CloudFormation's callback URL, no matter how many executions
// the session spanned.
//
// Minimal function:
//
//	func main() {
//	    registry := handler.NewRegistry()
//	    registry.Create(func(ctx context.Context, ev *cfnevent.Event, remaining handler.RemainingTime) (*handler.Result, error) {
//	        for !done(ev) {
//	            if remaining() < 15*time.Second {
//	                return nil, handler.Checkpoint(progress(ev))
//	            }
//	            step(ev)
//	        }
//	        return &handler.Result{PhysicalResourceID: id(ev)}, nil
//	    })
//	    registry.Poll(resumeFn)
//
//	    router, err := cfnresource.New(context.Background(), registry, cfnresource.Config{})
//	    if err != nil {
//	        panic(err)
//	    }
//	    handler.Start(router)
//	}
package cfnresource
