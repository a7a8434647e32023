package params

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"
)

func TestDecodePairs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "empty string",
			in:   "",
			want: map[string]any{},
		},
		{
			name: "whitespace only",
			in:   "   ",
			want: map[string]any{},
		},
		{
			name: "single pair",
			in:   "key1=value1",
			want: map[string]any{"key1": "value1"},
		},
		{
			name: "multiple pairs",
			in:   "key1=value1;key2=value2;key3=value3",
			want: map[string]any{"key1": "value1", "key2": "value2", "key3": "value3"},
		},
		{
			name: "whitespace trimmed",
			in:   "  key1  =  value1  ;  key2  =  value2  ",
			want: map[string]any{"key1": "value1", "key2": "value2"},
		},
		{
			name: "value with equals sign",
			in:   "url=http://example.com?param=value",
			want: map[string]any{"url": "http://example.com?param=value"},
		},
		{
			name: "empty pairs skipped",
			in:   "key1=value1;;key2=value2",
			want: map[string]any{"key1": "value1", "key2": "value2"},
		},
		{
			name: "duplicate keys last wins",
			in:   "key=first;key=second",
			want: map[string]any{"key": "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "simple object",
			in:   `{"key1": "value1", "key2": "value2"}`,
			want: map[string]any{"key1": "value1", "key2": "value2"},
		},
		{
			name: "surrounding whitespace",
			in:   `  {"key1": "value1"}  `,
			want: map[string]any{"key1": "value1"},
		},
		{
			name: "numbers and booleans",
			in:   `{"count": 42, "active": true}`,
			want: map[string]any{"count": float64(42), "active": true},
		},
		{
			name: "nested object",
			in:   `{"user": {"name": "John"}}`,
			want: map[string]any{"user": map[string]any{"name": "John"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	encode := func(s string) string {
		return "B64:" + base64.StdEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "encoded pairs",
			in:   encode("key1=value1;key2=value2"),
			want: map[string]any{"key1": "value1", "key2": "value2"},
		},
		{
			name: "encoded JSON",
			in:   encode(`{"key1": "value1"}`),
			want: map[string]any{"key1": "value1"},
		},
		{
			name: "encoded empty string",
			in:   encode(""),
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Base64 round-trip: decode(B64:base64(s)) must equal decode(s) for any
// decodable s.
func TestDecodeBase64RoundTrip(t *testing.T) {
	inputs := []string{
		"key1=value1;key2=value2",
		`{"count": 42, "nested": {"a": "b"}}`,
		"  spaced = value ; other = x=y ",
		"",
	}

	for _, in := range inputs {
		direct, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", in, err)
		}
		wrapped := "B64:" + base64.StdEncoding.EncodeToString([]byte(in))
		viaB64, err := Decode(wrapped)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", wrapped, err)
		}
		if !reflect.DeepEqual(direct, viaB64) {
			t.Errorf("Decode mismatch for %q: direct %v, via base64 %v", in, direct, viaB64)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "pair without equals", in: "key1=value1;invalid;key2=value2"},
		{name: "empty key", in: "=value"},
		{name: "truncated JSON", in: `{"key": "value"`},
		{name: "unquoted JSON keys", in: "{key: value}"},
		{name: "invalid base64", in: "B64:!!!not-base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformed", tt.in, err)
			}
		})
	}
}

func TestString(t *testing.T) {
	m := map[string]any{"name": "csv", "count": float64(3)}

	if got := String(m, "name", "fallback"); got != "csv" {
		t.Errorf("String() = %q, want %q", got, "csv")
	}
	if got := String(m, "count", "fallback"); got != "fallback" {
		t.Errorf("String() on non-string value = %q, want fallback", got)
	}
	if got := String(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("String() on missing key = %q, want fallback", got)
	}
}
