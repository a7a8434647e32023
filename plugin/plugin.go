// Package plugin defines the backend contract of the external data reader
// and the registry that resolves a data source URL to a backend.
//
// A backend supplies structure and values for one kind of data source.
// Several backends may be registered for overlapping file patterns; the
// registry runs a probe chain where each candidate can decline a source
// ("not my file") so a sibling can claim it.
package plugin

import (
	"context"

	"github.com/exd-lab/exdbox-go/exdapi"
)

// Backend is one open instance of a file type plugin. A backend is owned
// by exactly one session and released through Close.
//
// Implementations MUST be goroutine-safe: structure and value queries on
// an active session may run concurrently. Lazily computed state (cached
// schema, materialized data) needs internal locking.
type Backend interface {
	// Close releases the backend's resources. Called exactly once per
	// backend, either on session close or when the probe chain rejects it.
	Close() error

	// NotMyFile reports whether this backend declines the source it was
	// constructed for. Evaluating it may materialize data; implementations
	// cache the result so it is computed at most once per backend.
	NotMyFile(ctx context.Context) (bool, error)

	// FillStructure appends the source's file attributes and groups to the
	// given structure result.
	FillStructure(ctx context.Context, structure *exdapi.StructureResult) error

	// GetValues returns a bounds-clamped row-range slice of the requested
	// channels, encoded per their wire data type.
	GetValues(ctx context.Context, req *exdapi.ValuesRequest) (*exdapi.ValuesResult, error)
}

// Factory constructs a backend for a source URL and its decoded
// parameters. Construction may perform I/O; the session layer calls it
// under the session mutex.
type Factory func(url string, parameters map[string]any) (Backend, error)
