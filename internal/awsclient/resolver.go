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
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/tombee/cfnresource/pkg/errors"
	"github.com/tombee/cfnresource/pkg/secrets"
)

// GetSecretValueAPI is the Secrets Manager surface used by the resolver.
type GetSecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretResolver resolves dynamic secret references against Secrets
// Manager. It implements secrets.Resolver.
type SecretResolver struct {
	api GetSecretValueAPI
}

// NewSecretResolver creates a resolver backed by Secrets Manager.
func NewSecretResolver(cfg aws.Config) *SecretResolver {
	return &SecretResolver{api: secretsmanager.NewFromConfig(cfg)}
}

// NewSecretResolverFromAPI creates a resolver over an explicit API, for
// tests.
func NewSecretResolverFromAPI(api GetSecretValueAPI) *SecretResolver {
	return &SecretResolver{api: api}
}

// Resolve fetches the secret named by the reference and applies its version
// and JSON key selectors.
func (r *SecretResolver) Resolve(ctx context.Context, ref secrets.Reference) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref.SecretID),
	}
	if ref.VersionStage != "" {
		input.VersionStage = aws.String(ref.VersionStage)
	}
	if ref.VersionID != "" {
		input.VersionId = aws.String(ref.VersionID)
	}

	out, err := r.api.GetSecretValue(ctx, input)
	if err != nil {
		return "", errors.Wrap(err, "getting secret value")
	}
	if out.SecretString == nil {
		return "", errors.New("secret has no string value")
	}

	value := aws.ToString(out.SecretString)
	if ref.JSONKey == "" {
		return value, nil
	}

	// A JSON key selector requires the secret string to be a JSON object.
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return "", errors.Wrap(err, "secret string is not a JSON object")
	}
	field, ok := doc[ref.JSONKey]
	if !ok {
		return "", fmt.Errorf("secret has no key %s", ref.JSONKey)
	}
	text, ok := field.(string)
	if !ok {
		return "", fmt.Errorf("secret key %s is not a string", ref.JSONKey)
	}
	return text, nil
}
