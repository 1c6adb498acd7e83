package secrets

import (
	"context"
	"regexp"
	"strings"

	"github.com/tombee/cfnresource/pkg/errors"
)

// referencePattern matches CloudFormation dynamic secret references. A
// property value must match in full; partial matches are left untouched so
// ordinary strings that merely mention the syntax are not rewritten.
var referencePattern = regexp.MustCompile(`^\{\{resolve:secretsmanager:([^}]+)\}\}$`)

// Reference is a parsed dynamic secret reference of the form
//
//	{{resolve:secretsmanager:secret-id[:SecretString[:json-key[:version-stage[:version-id]]]]}}
//
// SecretID may itself be an ARN containing colons, which is why parsing
// works from a fixed field list rather than splitting eagerly.
type Reference struct {
	// Raw is the literal reference token as it appeared in the property.
	Raw string

	// SecretID names the secret (name or full ARN).
	SecretID string

	// JSONKey selects one key of a JSON secret string; empty returns the
	// whole secret string.
	JSONKey string

	// VersionStage and VersionID pin a specific secret version. At most one
	// is normally set; both empty selects the current version.
	VersionStage string
	VersionID    string
}

// ParseReference parses a dynamic secret reference token. It returns false
// when the value is not a reference at all; a malformed reference (for
// example an unsupported service) is reported as an error by the resolver
// that receives it.
func ParseReference(value string) (Reference, bool) {
	match := referencePattern.FindStringSubmatch(value)
	if match == nil {
		return Reference{}, false
	}

	ref := Reference{Raw: value}
	fields := strings.Split(match[1], ":")

	// ARNs embed colons: arn:aws:secretsmanager:region:account:secret:name.
	// Re-join the leading fields into the secret id when the reference
	// starts with an ARN prefix.
	if fields[0] == "arn" && len(fields) >= 7 {
		ref.SecretID = strings.Join(fields[:7], ":")
		fields = fields[7:]
	} else {
		ref.SecretID = fields[0]
		fields = fields[1:]
	}

	// Remaining positional fields: SecretString, json-key, version-stage,
	// version-id. The SecretString literal is CloudFormation syntax noise
	// and carries no information.
	if len(fields) > 0 {
		fields = fields[1:]
	}
	if len(fields) > 0 {
		ref.JSONKey = fields[0]
	}
	if len(fields) > 1 {
		ref.VersionStage = fields[1]
	}
	if len(fields) > 2 {
		ref.VersionID = fields[2]
	}

	return ref, true
}

// Resolver resolves a parsed reference to its plaintext value.
type Resolver interface {
	Resolve(ctx context.Context, ref Reference) (string, error)
}

// ResolveProperties walks resource properties recursively and substitutes
// every dynamic secret reference with its resolved plaintext, in place.
// Resolved values are registered with the masker (when one is supplied) so
// they are masked out of any subsequently logged copy of the properties.
//
// Resolution failure is fatal to the provisioning request: an unresolved
// reference must never pass through to the handler as a literal token.
func ResolveProperties(ctx context.Context, resolver Resolver, props map[string]interface{}, masker *Masker) error {
	if resolver == nil || props == nil {
		return nil
	}
	return resolveMap(ctx, resolver, props, masker)
}

func resolveMap(ctx context.Context, resolver Resolver, m map[string]interface{}, masker *Masker) error {
	for k, v := range m {
		resolved, err := resolveValue(ctx, resolver, v, masker)
		if err != nil {
			return err
		}
		m[k] = resolved
	}
	return nil
}

func resolveValue(ctx context.Context, resolver Resolver, v interface{}, masker *Masker) (interface{}, error) {
	switch val := v.(type) {
	case string:
		ref, ok := ParseReference(val)
		if !ok {
			return val, nil
		}
		plaintext, err := resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, &errors.SecretResolutionError{Reference: ref.Raw, Cause: err}
		}
		if masker != nil {
			masker.AddValue(plaintext)
		}
		return plaintext, nil
	case map[string]interface{}:
		if err := resolveMap(ctx, resolver, val, masker); err != nil {
			return nil, err
		}
		return val, nil
	case []interface{}:
		for i, item := range val {
			resolved, err := resolveValue(ctx, resolver, item, masker)
			if err != nil {
				return nil, err
			}
			val[i] = resolved
		}
		return val, nil
	default:
		return val, nil
	}
}
