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

// Package awsclient implements the router's external collaborators against
// AWS APIs: stack status lookup (CloudFormation), dynamic secret resolution
// (Secrets Manager), and continuation invocation (Lambda). Each client
// accepts the minimal service API as an interface so tests substitute
// recording fakes.
package awsclient

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/tombee/cfnresource/pkg/errors"
)

// Load resolves the region and credential chain shared by all collaborator
// clients. Called once during cold start.
func Load(ctx context.Context) (aws.Config, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(loadCtx)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "loading AWS configuration")
	}
	return cfg, nil
}
