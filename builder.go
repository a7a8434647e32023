package exdbox

import (
	"fmt"

	"github.com/exd-lab/exdbox-go/plugin"
	"github.com/exd-lab/exdbox-go/simple"
)

// RegistryBuilder builds plugin registries using a fluent API.
// Not thread-safe - use only during initialization.
type RegistryBuilder struct {
	registry *plugin.Registry
	err      error
	built    bool
}

// NewRegistryBuilder creates a new fluent registry builder.
// Returns builder in "empty" state (no plugins).
//
// Example:
//
//	registry, err := exdbox.NewRegistryBuilder().
//	    Plugin("mdf", mdfFactory, "*.mdf", "*.mf4").
//	    Simple("csv", csvSource, "*.csv").
//	    Build()
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		registry: plugin.NewRegistry(),
	}
}

// Plugin registers a backend factory under a unique name, optionally
// restricted to URL base-name patterns. The first registration error
// sticks and is reported by Build.
// Returns self for method chaining.
func (b *RegistryBuilder) Plugin(name string, factory plugin.Factory, patterns ...string) *RegistryBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.registry.Register(name, factory, patterns...)
	return b
}

// Simple registers a tabular source factory via the simple adapter,
// which derives structure and values from a single Arrow record.
// Returns self for method chaining.
//
// Example:
//
//	builder.Simple("csv", func(url string, parameters map[string]any) (simple.Source, error) {
//	    return openCSV(url)
//	}, "*.csv")
func (b *RegistryBuilder) Simple(name string, factory simple.Factory, patterns ...string) *RegistryBuilder {
	return b.Plugin(name, simple.NewPlugin(factory), patterns...)
}

// Build finalizes the registry. Can only be called once.
// Returns error if any registration failed or the registry is empty.
func (b *RegistryBuilder) Build() (*plugin.Registry, error) {
	if b.built {
		return nil, fmt.Errorf("registry already built")
	}
	if b.err != nil {
		return nil, b.err
	}
	if len(b.registry.Names()) == 0 {
		return nil, fmt.Errorf("no plugins registered")
	}
	b.built = true
	return b.registry, nil
}
