// Package secrets provides dynamic secret reference resolution for resource
// properties and utilities for masking sensitive values before logging.
package secrets

import (
	"strings"
)

// MaskedValue replaces secure attribute values in logged documents.
const MaskedValue = "*******"

// Masker masks sensitive values in data structures before they are logged.
// It masks by attribute name (secure attributes declared by the handler
// author) and by known value (plaintexts produced by secret resolution).
type Masker struct {
	// attributes are Data keys whose values are always masked.
	attributes map[string]bool

	// values is a set of known secret values to mask wherever they appear.
	values map[string]bool
}

// NewMasker creates a masker for the given secure attribute names.
func NewMasker(secureAttributes ...string) *Masker {
	attrs := make(map[string]bool, len(secureAttributes))
	for _, a := range secureAttributes {
		if a != "" {
			attrs[a] = true
		}
	}
	return &Masker{
		attributes: attrs,
		values:     make(map[string]bool),
	}
}

// AddValue registers a plaintext value to be masked wherever it appears.
// The resolver calls this for every resolved secret so resolved plaintext
// can never leak through a logged property or response.
func (m *Masker) AddValue(value string) {
	if value != "" {
		m.values[value] = true
	}
}

// MaskString replaces all known secret values in a string.
func (m *Masker) MaskString(s string) string {
	result := s
	for value := range m.values {
		if strings.Contains(result, value) {
			result = strings.ReplaceAll(result, value, MaskedValue)
		}
	}
	return result
}

// MaskMap returns a copy of data with secure attributes and known secret
// values masked. The input is not modified.
func (m *Masker) MaskMap(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		if m.attributes[k] {
			result[k] = MaskedValue
			continue
		}
		result[k] = m.maskValue(v)
	}
	return result
}

// maskValue masks secrets in any JSON-shaped value.
func (m *Masker) maskValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return m.MaskString(val)
	case map[string]interface{}:
		return m.MaskMap(val)
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = m.maskValue(item)
		}
		return result
	default:
		return val
	}
}
