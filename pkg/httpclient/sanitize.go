package httpclient

import (
	"net/url"
	"strings"
)

// sensitiveParams contains query parameter names that are redacted from
// logs, matched case-insensitively as substrings. The X-Amz parameters
// cover pre-signed S3 URLs, whose query string is the authorization.
var sensitiveParams = []string{
	"signature",
	"credential",
	"security-token",
	"token",
	"api_key",
	"apikey",
	"password",
	"auth",
	"secret",
	"key",
}

// sanitizeURL removes sensitive query parameters from URLs before logging.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	for param := range q {
		if isSensitiveParam(param) {
			q.Set(param, "[REDACTED]")
		}
	}

	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}

// isSensitiveParam checks if a parameter name matches the sensitive list.
// Matching is case-insensitive to catch variants like "X-Amz-Signature".
func isSensitiveParam(param string) bool {
	lower := strings.ToLower(param)
	for _, sensitive := range sensitiveParams {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
