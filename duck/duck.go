// Package duck adapts DuckDB into a tabular source: any file DuckDB can
// scan (CSV, Parquet, JSON, ...) becomes readable through the simple
// backend, with column types taken from the query result.
package duck

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/exd-lab/exdbox-go/simple"
)

// New is a simple.Factory backed by an in-memory DuckDB instance. By
// default it selects everything from the file; the "query" parameter
// replaces the generated statement with an arbitrary one, e.g. to cast
// columns or join multiple files.
func New(path string, parameters map[string]any) (simple.Source, error) {
	query := fmt.Sprintf("SELECT * FROM '%s'", strings.ReplaceAll(path, "'", "''"))
	if q, ok := parameters["query"].(string); ok && q != "" {
		query = q
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &source{db: db, query: query}, nil
}

type source struct {
	db    *sql.DB
	query string
}

// Data runs the query and collects the full result set into one record.
func (s *source) Data() (arrow.RecordBatch, error) {
	rows, err := s.db.Query(s.query)
	if err != nil {
		return nil, fmt.Errorf("duckdb query: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, len(colTypes))
	targets := make([]any, len(colTypes))
	appenders := make([]func(array.Builder), len(colTypes))
	for i, ct := range colTypes {
		fields[i], targets[i], appenders[i], err = column(ct)
		if err != nil {
			return nil, err
		}
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, arrow.NewSchema(fields, nil))
	defer builder.Release()

	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		for i, appendValue := range appenders {
			appendValue(builder.Field(i))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return builder.NewRecordBatch(), nil
}

func (s *source) Close() error {
	return s.db.Close()
}

var timeType = reflect.TypeOf(time.Time{})

// column maps one result column to an Arrow field, a scan target and an
// appender moving the scanned value into the record builder. NULLs become
// null entries.
func column(ct *sql.ColumnType) (arrow.Field, any, func(array.Builder), error) {
	name := ct.Name()
	scanType := ct.ScanType()
	if scanType == nil {
		return arrow.Field{}, nil, nil, fmt.Errorf("column %q: unknown scan type", name)
	}

	if scanType == timeType {
		target := &sql.NullTime{}
		appendValue := func(b array.Builder) {
			tb := b.(*array.TimestampBuilder)
			if !target.Valid {
				tb.AppendNull()
				return
			}
			tb.Append(arrow.Timestamp(target.Time.UnixNano()))
		}
		return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Timestamp_ns}, target, appendValue, nil
	}

	switch scanType.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		target := &sql.NullInt64{}
		appendValue := func(b array.Builder) {
			ib := b.(*array.Int64Builder)
			if !target.Valid {
				ib.AppendNull()
				return
			}
			ib.Append(target.Int64)
		}
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64}, target, appendValue, nil

	case reflect.Float32, reflect.Float64:
		target := &sql.NullFloat64{}
		appendValue := func(b array.Builder) {
			fb := b.(*array.Float64Builder)
			if !target.Valid {
				fb.AppendNull()
				return
			}
			fb.Append(target.Float64)
		}
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}, target, appendValue, nil

	case reflect.String:
		target := &sql.NullString{}
		appendValue := func(b array.Builder) {
			sb := b.(*array.StringBuilder)
			if !target.Valid {
				sb.AppendNull()
				return
			}
			sb.Append(target.String)
		}
		return arrow.Field{Name: name, Type: arrow.BinaryTypes.String}, target, appendValue, nil
	}

	return arrow.Field{}, nil, nil, fmt.Errorf(
		"column %q: unsupported scan type %s, cast it in a custom query", name, scanType)
}
