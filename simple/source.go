// Package simple implements a generic tabular backend family on top of
// Arrow record batches.
//
// A concrete file reader only has to implement Source (produce one Arrow
// record for the whole file); this package supplies everything the plugin
// contract needs on top of that: lazy lock-guarded materialization, the
// Arrow-to-wire type inference, the structure description and the value
// marshaling, including complex-number interleaving and date formatting.
package simple

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/exd-lab/exdbox-go/plugin"
)

// Source reads one tabular file into an Arrow record batch.
//
// Data may be called more than once; implementations are free to cache.
// The returned record must stay valid until Close. Optional capabilities
// are discovered through the Prober, AttributeSource and ColumnMetaSource
// interfaces.
type Source interface {
	// Data materializes the file content. The record's columns define the
	// channel order, names and intrinsic types.
	Data() (arrow.RecordBatch, error)

	// Close releases the underlying file resources.
	Close() error
}

// Prober is an optional Source capability: a source that can decline a
// file it was opened for, deferring to a sibling plugin in the probe
// chain. Sources without it always claim their file.
type Prober interface {
	NotMyFile() (bool, error)
}

// AttributeSource is an optional Source capability supplying file- and
// group-level attributes. Values may be strings, integers, floats, bools
// or time.Time.
type AttributeSource interface {
	FileAttributes() map[string]any
	GroupAttributes() map[string]any
}

// ColumnMetaSource is an optional Source capability overriding column
// metadata. ColumnNames returning nil keeps the record's own field names;
// unit and description lists may be shorter than the column count and are
// padded with empty strings.
type ColumnMetaSource interface {
	ColumnNames() []string
	ColumnUnits() []string
	ColumnDescriptions() []string
}

// Factory constructs a Source for a file path and its decoded parameters.
type Factory func(path string, parameters map[string]any) (Source, error)

// RecordSource wraps an already materialized record into a Source, taking
// over the caller's reference. Useful for in-memory and test sources.
func RecordSource(rec arrow.RecordBatch) Source {
	return &recordSource{rec: rec}
}

type recordSource struct {
	rec arrow.RecordBatch
}

func (s *recordSource) Data() (arrow.RecordBatch, error) {
	return s.rec, nil
}

func (s *recordSource) Close() error {
	if s.rec != nil {
		s.rec.Release()
		s.rec = nil
	}
	return nil
}

// NewPlugin wraps a Source factory into a plugin factory, giving the
// source the full backend behavior of this package.
func NewPlugin(factory Factory) plugin.Factory {
	return func(url string, parameters map[string]any) (plugin.Backend, error) {
		return &Backend{cache: newCache(url, parameters, factory)}, nil
	}
}
