// Package httpclient provides an HTTP client factory with consistent
// timeout, retry, and logging behavior for callback delivery.
//
// The package creates HTTP clients with sensible, secure defaults including:
//   - Automatic retry with exponential backoff and jitter
//   - Request logging with sanitized URLs (pre-signed URL credentials redacted)
//   - User-Agent header injection
//   - TLS 1.2 minimum (TLS 1.3 preferred)
//   - Connection pooling
//
// # Usage
//
// Create a client with default settings:
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
// # Retry Behavior
//
// The client retries transient errors with exponential backoff:
//   - HTTP 5xx server errors
//   - HTTP 429 (rate limit), honoring Retry-After
//   - HTTP 408 (request timeout)
//   - Network errors (connection refused, reset, temporary DNS failures)
//   - 4xx client errors are never retried (except 408, 429)
//   - Only idempotent methods (GET, HEAD, OPTIONS) are retried by default
//
// The CloudFormation callback is a PUT to a pre-signed S3 URL. A repeated
// PUT of the same document is idempotent at the receiver, so the callback
// reporter enables AllowNonIdempotentRetry with a small attempt budget.
//
// # Security
//
// Pre-signed URL query parameters (X-Amz-Signature, X-Amz-Credential and
// friends) identify and authorize the request; they are redacted from all
// log output. Authorization headers are never logged.
package httpclient
