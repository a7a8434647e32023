package plugin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var (
	// ErrNotRegistered is returned when a plugin name is unknown.
	ErrNotRegistered = errors.New("plugin not registered")
	// ErrNoMatch is returned when no registered plugin claims a source.
	ErrNoMatch = errors.New("no plugin claims the data source")
)

// ErrDuplicatePlugin is returned when registering a plugin name twice.
type ErrDuplicatePlugin struct {
	Name string
}

func (e ErrDuplicatePlugin) Error() string {
	return "duplicate plugin name: " + e.Name
}

// registration is one plugin entry: a name, its factory and the file
// patterns it claims (empty means it is a candidate for every source).
type registration struct {
	name     string
	factory  Factory
	patterns []string
}

// Registry maps plugin names to backend factories and resolves source
// URLs through the probe chain.
//
// Registration happens once at process start; afterwards the registry is
// read-only and safe for concurrent use without further synchronization.
type Registry struct {
	entries []registration
	byName  map[string]int
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a plugin under a unique name. Patterns are path.Match
// globs applied to the base name of the source URL (e.g. "*.csv").
// A plugin registered without patterns is probed for every source.
func (r *Registry) Register(name string, factory Factory, patterns ...string) error {
	if name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("plugin %q: factory cannot be nil", name)
	}
	if _, exists := r.byName[name]; exists {
		return ErrDuplicatePlugin{Name: name}
	}
	for _, p := range patterns {
		if _, err := path.Match(p, "probe"); err != nil {
			return fmt.Errorf("plugin %q: invalid file pattern %q: %w", name, p, err)
		}
	}

	r.byName[name] = len(r.entries)
	r.entries = append(r.entries, registration{name: name, factory: factory, patterns: patterns})
	return nil
}

// Names returns the registered plugin names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Create constructs a backend with a specific plugin, bypassing the probe
// chain. Returns ErrNotRegistered for unknown names.
func (r *Registry) Create(name, sourceURL string, parameters map[string]any) (Backend, error) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return r.entries[idx].factory(sourceURL, parameters)
}

// probeOutcome is the explicit tri-state result of probing one candidate.
type probeOutcome int

const (
	probeMatch probeOutcome = iota
	probeNoMatch
	probeFailed
)

// Resolve walks the probe chain: every candidate whose patterns claim the
// URL is constructed and asked NotMyFile. The first backend that accepts
// the source wins; decliners are closed and the chain moves on. A probe
// error aborts resolution, and so does a decliner whose Close fails —
// a backend leaking resources on the probe path must not stay silent.
// Returns the matched backend and its plugin name, or ErrNoMatch when
// the chain is exhausted.
func (r *Registry) Resolve(ctx context.Context, sourceURL string, parameters map[string]any) (Backend, string, error) {
	base := urlBase(sourceURL)

	probed := false
	for _, entry := range r.entries {
		if !entry.claims(base) {
			continue
		}
		probed = true

		backend, err := entry.factory(sourceURL, parameters)
		if err != nil {
			return nil, "", fmt.Errorf("plugin %q: %w", entry.name, err)
		}

		outcome, probeErr := probe(ctx, backend)
		switch outcome {
		case probeMatch:
			return backend, entry.name, nil
		case probeNoMatch:
			if err := backend.Close(); err != nil {
				return nil, "", fmt.Errorf("plugin %q: close after declined probe: %w", entry.name, err)
			}
		case probeFailed:
			backend.Close()
			return nil, "", fmt.Errorf("plugin %q: %w", entry.name, probeErr)
		}
	}

	if !probed {
		return nil, "", fmt.Errorf("%w: no plugin registered for %q", ErrNoMatch, base)
	}
	return nil, "", fmt.Errorf("%w: %q", ErrNoMatch, sourceURL)
}

func probe(ctx context.Context, backend Backend) (probeOutcome, error) {
	notMine, err := backend.NotMyFile(ctx)
	if err != nil {
		return probeFailed, err
	}
	if notMine {
		return probeNoMatch, nil
	}
	return probeMatch, nil
}

// claims reports whether the entry's patterns match the source base name.
func (e *registration) claims(base string) bool {
	if len(e.patterns) == 0 {
		return true
	}
	for _, p := range e.patterns {
		if ok, _ := path.Match(p, base); ok {
			return true
		}
	}
	return false
}

// urlBase extracts the base file name from a source URL. Plain paths are
// handled as-is; file:// and other schemes go through url.Parse.
func urlBase(sourceURL string) string {
	if strings.Contains(sourceURL, "://") {
		if u, err := url.Parse(sourceURL); err == nil && u.Path != "" {
			return path.Base(u.Path)
		}
	}
	return path.Base(strings.ReplaceAll(sourceURL, "\\", "/"))
}
