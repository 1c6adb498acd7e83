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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/tombee/cfnresource/pkg/errors"
)

// DescribeStacksAPI is the CloudFormation surface used by the status
// lookup.
type DescribeStacksAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// StackStatusClient looks up the status of the stack owning a custom
// resource. It implements handler.StatusLookup.
type StackStatusClient struct {
	api DescribeStacksAPI
}

// NewStackStatusClient creates a status lookup backed by CloudFormation.
func NewStackStatusClient(cfg aws.Config) *StackStatusClient {
	return &StackStatusClient{api: cloudformation.NewFromConfig(cfg)}
}

// NewStackStatusClientFromAPI creates a status lookup over an explicit API,
// for tests.
func NewStackStatusClientFromAPI(api DescribeStacksAPI) *StackStatusClient {
	return &StackStatusClient{api: api}
}

// StackStatus returns the status and status reason of the named stack.
func (c *StackStatusClient) StackStatus(ctx context.Context, stackID string) (string, string, error) {
	out, err := c.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackID),
	})
	if err != nil {
		return "", "", errors.Wrap(err, "describing stack")
	}
	if len(out.Stacks) == 0 {
		return "", "", errors.New("stack not found")
	}

	stack := out.Stacks[0]
	return string(stack.StackStatus), aws.ToString(stack.StackStatusReason), nil
}
