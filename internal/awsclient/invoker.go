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

package awsclient

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/tombee/cfnresource/pkg/cfnevent"
	"github.com/tombee/cfnresource/pkg/errors"
)

// InvokeAPI is the Lambda surface used by the continuation invoker.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// ContinuationInvoker schedules a fresh execution of the current function
// by invoking it asynchronously with the continuation envelope as payload.
// It implements handler.Invoker.
type ContinuationInvoker struct {
	api InvokeAPI

	// functionName overrides function identity resolution. When empty the
	// invoked function ARN from the Lambda context is used, falling back
	// to the AWS_LAMBDA_FUNCTION_NAME environment variable.
	functionName string
}

// NewContinuationInvoker creates an invoker backed by the Lambda API.
func NewContinuationInvoker(cfg aws.Config) *ContinuationInvoker {
	return &ContinuationInvoker{api: lambda.NewFromConfig(cfg)}
}

// NewContinuationInvokerFromAPI creates an invoker over an explicit API,
// for tests. functionName may be empty.
func NewContinuationInvokerFromAPI(api InvokeAPI, functionName string) *ContinuationInvoker {
	return &ContinuationInvoker{api: api, functionName: functionName}
}

// Invoke submits the continuation asynchronously and returns without
// waiting for or inspecting its result. Submission failure is terminal for
// the session: the caller must report it, since no execution remains
// pending afterwards.
func (i *ContinuationInvoker) Invoke(ctx context.Context, ev *cfnevent.Event) error {
	name := i.resolveFunction(ctx)
	if name == "" {
		return errors.New("cannot determine function identity for continuation")
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "serializing continuation envelope")
	}

	_, err = i.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(name),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return errors.Wrap(err, "invoking continuation")
	}
	return nil
}

func (i *ContinuationInvoker) resolveFunction(ctx context.Context) string {
	if i.functionName != "" {
		return i.functionName
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.InvokedFunctionArn != "" {
		return lc.InvokedFunctionArn
	}
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
}
