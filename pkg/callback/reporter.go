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

// Package callback delivers the terminal outcome document to
// CloudFormation's pre-signed callback URL.
//
// Delivery is attempted once per session with a best-effort bounded retry.
// Unbounded retry is deliberately avoided: the orchestrator does not define
// duplicate-delivery semantics, so losing an outcome (which is logged) is
// preferred over delivering it twice.
package callback

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/tombee/cfnresource/pkg/cfnevent"
	"github.com/tombee/cfnresource/pkg/errors"
	"github.com/tombee/cfnresource/pkg/httpclient"
)

// Config configures a Reporter.
type Config struct {
	// Timeout bounds the whole delivery including retries.
	// Default: 30s.
	Timeout time.Duration

	// Retries is the number of re-delivery attempts after a failed one.
	// Default: 1 (best effort). Retrying a PUT of the same document is
	// idempotent at the receiver.
	Retries int

	// HTTPClient overrides the constructed client. Tests substitute it;
	// when set, Timeout and Retries are ignored.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Retries: 1,
	}
}

// Reporter delivers terminal outcome documents over HTTP.
type Reporter struct {
	client *http.Client
}

// New creates a Reporter from the given configuration.
func New(cfg Config) (*Reporter, error) {
	client := cfg.HTTPClient
	if client == nil {
		httpCfg := httpclient.DefaultConfig()
		if cfg.Timeout > 0 {
			httpCfg.Timeout = cfg.Timeout
		}
		httpCfg.RetryAttempts = cfg.Retries
		httpCfg.AllowNonIdempotentRetry = true

		var err error
		client, err = httpclient.New(httpCfg)
		if err != nil {
			return nil, err
		}
	}
	return &Reporter{client: client}, nil
}

// Report serializes the outcome document and PUTs it to the callback
// endpoint. The Content-Type header is deliberately empty: the pre-signed
// URL is signed over an empty content type and delivery is rejected
// otherwise.
func (r *Reporter) Report(ctx context.Context, url string, resp *cfnevent.Response) error {
	body, err := resp.Marshal()
	if err != nil {
		return errors.Wrap(err, "serializing callback document")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building callback request")
	}
	req.Header.Set("Content-Type", "")
	req.ContentLength = int64(len(body))

	httpResp, err := r.client.Do(req)
	if err != nil {
		return &errors.CallbackError{Cause: err}
	}
	defer httpResp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode >= 400 {
		return &errors.CallbackError{StatusCode: httpResp.StatusCode}
	}

	return nil
}
