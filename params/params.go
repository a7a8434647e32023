// Package params decodes the opaque parameter string attached to an Open
// request.
//
// Three interchangeable textual encodings are accepted:
//   - semicolon-separated pairs: "key1=value1;key2=value2"
//   - a JSON object: {"key1": "value1", "nested": {"a": 1}}
//   - either of those base64-encoded with a "B64:" prefix
package params

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned when a parameter string cannot be decoded.
// Use errors.Is to test for it; the wrapped message names the offending
// input fragment.
var ErrMalformed = errors.New("malformed parameters")

// Decode parses a parameter string into a key/value mapping.
//
// An empty string yields an empty, non-nil map. Plain "k=v;k=v" input
// yields string values; JSON input may carry arbitrary JSON values.
// Duplicate keys in pair syntax resolve to the last occurrence.
func Decode(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]any{}, nil
	}

	if rest, ok := strings.CutPrefix(trimmed, "B64:"); ok {
		decoded, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 encoding: %v", ErrMalformed, err)
		}
		return Decode(strings.TrimSpace(string(decoded)))
	}

	if strings.HasPrefix(trimmed, "{") {
		var m map[string]any
		if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON format: %v", ErrMalformed, err)
		}
		return m, nil
	}

	return decodePairs(trimmed)
}

// decodePairs parses ";"-separated "key=value" pairs. Values may contain
// "="; the split happens at the first occurrence. Empty pairs from
// consecutive separators are skipped.
func decodePairs(s string) (map[string]any, error) {
	result := map[string]any{}
	for pair := range strings.SplitSeq(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("%w: %q must contain '='", ErrMalformed, pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: parameter key cannot be empty", ErrMalformed)
		}
		result[key] = strings.TrimSpace(value)
	}
	return result, nil
}

// String returns the string value for a key, or the fallback when the key
// is absent or holds a non-string JSON value.
func String(m map[string]any, key, fallback string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}
