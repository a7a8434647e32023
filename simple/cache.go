package simple

import (
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/exd-lab/exdbox-go/exdapi"
)

// cache guards a lazily constructed source and its derived state. One
// coarse lock serializes "ensure data materialized, then read"; inferred
// column types and the probe result are computed once and cached.
type cache struct {
	mu      sync.Mutex
	url     string
	params  map[string]any
	factory Factory

	src     Source
	rec     arrow.RecordBatch
	types   []exdapi.DataType
	notMine *bool
}

func newCache(url string, params map[string]any, factory Factory) *cache {
	return &cache{url: url, params: params, factory: factory}
}

// close releases the record and the source. Idempotent.
func (c *cache) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src == nil {
		return nil
	}
	if c.rec != nil {
		c.rec.Release()
		c.rec = nil
	}
	err := c.src.Close()
	c.src = nil
	c.types = nil
	c.notMine = nil
	return err
}

// source constructs the Source on first use. Callers must hold c.mu.
func (c *cache) sourceLocked() (Source, error) {
	if c.src == nil {
		src, err := c.factory(c.url, c.params)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", c.url, err)
		}
		c.src = src
	}
	return c.src, nil
}

// dataLocked materializes the record on first use. Callers must hold c.mu.
func (c *cache) dataLocked() (arrow.RecordBatch, error) {
	if c.rec != nil {
		return c.rec, nil
	}
	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	rec, err := src.Data()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", c.url, err)
	}
	rec.Retain()
	c.rec = rec
	return c.rec, nil
}

func (c *cache) notMyFile() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.notMine != nil {
		return *c.notMine, nil
	}
	src, err := c.sourceLocked()
	if err != nil {
		return false, err
	}

	notMine := false
	if prober, ok := src.(Prober); ok {
		notMine, err = prober.NotMyFile()
		if err != nil {
			return false, err
		}
	}
	c.notMine = &notMine
	return notMine, nil
}

func (c *cache) numRows() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.dataLocked()
	if err != nil {
		return 0, err
	}
	return rec.NumRows(), nil
}

func (c *cache) numCols() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.dataLocked()
	if err != nil {
		return 0, err
	}
	return rec.NumCols(), nil
}

// column returns the column array at index. The array stays valid while
// the cache holds its record reference.
func (c *cache) column(index int64) (arrow.Array, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.dataLocked()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= rec.NumCols() {
		return nil, fmt.Errorf("%w: invalid channel id %d", exdapi.ErrInvalidArgument, index)
	}
	return rec.Column(int(index)), nil
}

// columnTypes infers and caches the wire data type of every column.
func (c *cache) columnTypes() ([]exdapi.DataType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columnTypesLocked()
}

func (c *cache) columnTypesLocked() ([]exdapi.DataType, error) {
	if c.types != nil {
		return c.types, nil
	}
	rec, err := c.dataLocked()
	if err != nil {
		return nil, err
	}

	types := make([]exdapi.DataType, rec.NumCols())
	for i := range types {
		types[i], err = inferDataType(rec.Column(i).DataType())
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
	}
	c.types = types
	return c.types, nil
}

func (c *cache) columnType(index int64) (exdapi.DataType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	types, err := c.columnTypesLocked()
	if err != nil {
		return exdapi.DTUnknown, err
	}
	if index < 0 || index >= int64(len(types)) {
		return exdapi.DTUnknown, fmt.Errorf("%w: invalid channel id %d", exdapi.ErrInvalidArgument, index)
	}
	return types[index], nil
}

// columnNames returns overridden names when the source provides them and
// the record's field names otherwise.
func (c *cache) columnNames() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	if meta, ok := src.(ColumnMetaSource); ok {
		if names := meta.ColumnNames(); names != nil {
			return names, nil
		}
	}

	rec, err := c.dataLocked()
	if err != nil {
		return nil, err
	}
	names := make([]string, rec.NumCols())
	for i, field := range rec.Schema().Fields() {
		names[i] = field.Name
	}
	return names, nil
}

func (c *cache) columnUnits() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	if meta, ok := src.(ColumnMetaSource); ok {
		return meta.ColumnUnits(), nil
	}
	return nil, nil
}

func (c *cache) columnDescriptions() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	if meta, ok := src.(ColumnMetaSource); ok {
		return meta.ColumnDescriptions(), nil
	}
	return nil, nil
}

func (c *cache) fileAttributes() (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	if attrs, ok := src.(AttributeSource); ok {
		return attrs.FileAttributes(), nil
	}
	return nil, nil
}

func (c *cache) groupAttributes() (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.sourceLocked()
	if err != nil {
		return nil, err
	}
	if attrs, ok := src.(AttributeSource); ok {
		return attrs.GroupAttributes(), nil
	}
	return nil, nil
}
