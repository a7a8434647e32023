package simple

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/exd-lab/exdbox-go/exdapi"
	"github.com/exd-lab/exdbox-go/odstime"
)

// GetValues returns a row-range slice of the requested channels.
//
// Only group 0 exists. The start index must lie inside the row range; the
// end index start+limit is silently clamped to the row count. Output
// preserves requested channel order, and every channel's array holds
// exactly end-start values (twice that for complex kinds, interleaved
// re/im).
func (b *Backend) GetValues(ctx context.Context, req *exdapi.ValuesRequest) (*exdapi.ValuesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.GroupID != 0 {
		return nil, fmt.Errorf("%w: invalid group id %d", exdapi.ErrInvalidArgument, req.GroupID)
	}
	if req.Start < 0 || req.Limit < 0 {
		return nil, fmt.Errorf("%w: negative start %d or limit %d", exdapi.ErrInvalidArgument, req.Start, req.Limit)
	}

	numRows, err := b.cache.numRows()
	if err != nil {
		return nil, err
	}
	if req.Start >= numRows {
		return nil, fmt.Errorf("%w: start index %d out of range, have %d rows", exdapi.ErrInvalidArgument, req.Start, numRows)
	}
	end := req.Start + req.Limit
	if end > numRows {
		end = numRows
	}

	numCols, err := b.cache.numCols()
	if err != nil {
		return nil, err
	}

	result := &exdapi.ValuesResult{ID: req.GroupID}
	for _, channelID := range req.ChannelIDs {
		if channelID < 0 || channelID >= numCols {
			return nil, fmt.Errorf("%w: invalid channel id %d", exdapi.ErrInvalidArgument, channelID)
		}

		dataType, err := b.cache.columnType(channelID)
		if err != nil {
			return nil, err
		}
		col, err := b.cache.column(channelID)
		if err != nil {
			return nil, err
		}

		values, err := marshalColumn(col, dataType, int(req.Start), int(end))
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", channelID, err)
		}

		result.Channels = append(result.Channels, &exdapi.ChannelValues{
			ID:     channelID,
			Values: values,
		})
	}

	return result, nil
}

// marshalColumn encodes the [start, end) slice of a column into the wire
// union for its inferred data type.
func marshalColumn(col arrow.Array, dataType exdapi.DataType, start, end int) (*exdapi.DataValues, error) {
	values := &exdapi.DataValues{DataType: dataType}
	n := end - start

	switch dataType {
	case exdapi.DTByte:
		a, ok := col.(*array.Uint8)
		if !ok {
			return nil, columnMismatch(dataType, col)
		}
		values.ByteArray = make([]byte, 0, n)
		for i := start; i < end; i++ {
			values.ByteArray = append(values.ByteArray, a.Value(i))
		}

	case exdapi.DTShort, exdapi.DTLong:
		out := make([]int32, 0, n)
		switch a := col.(type) {
		case *array.Int8:
			for i := start; i < end; i++ {
				out = append(out, int32(a.Value(i)))
			}
		case *array.Int16:
			for i := start; i < end; i++ {
				out = append(out, int32(a.Value(i)))
			}
		case *array.Uint16:
			for i := start; i < end; i++ {
				out = append(out, int32(a.Value(i)))
			}
		case *array.Int32:
			for i := start; i < end; i++ {
				out = append(out, a.Value(i))
			}
		default:
			return nil, columnMismatch(dataType, col)
		}
		values.LongArray = out

	case exdapi.DTLongLong:
		out := make([]int64, 0, n)
		switch a := col.(type) {
		case *array.Uint32:
			for i := start; i < end; i++ {
				out = append(out, int64(a.Value(i)))
			}
		case *array.Int64:
			for i := start; i < end; i++ {
				out = append(out, a.Value(i))
			}
		default:
			return nil, columnMismatch(dataType, col)
		}
		values.LonglongArray = out

	case exdapi.DTFloat:
		a, ok := col.(*array.Float32)
		if !ok {
			return nil, columnMismatch(dataType, col)
		}
		values.FloatArray = make([]float32, 0, n)
		for i := start; i < end; i++ {
			values.FloatArray = append(values.FloatArray, a.Value(i))
		}

	case exdapi.DTDouble:
		out := make([]float64, 0, n)
		switch a := col.(type) {
		case *array.Float64:
			for i := start; i < end; i++ {
				out = append(out, a.Value(i))
			}
		case *array.Uint64:
			// Deliberate lossy widening, see inferDataType.
			for i := start; i < end; i++ {
				out = append(out, float64(a.Value(i)))
			}
		default:
			return nil, columnMismatch(dataType, col)
		}
		values.DoubleArray = out

	case exdapi.DTDate:
		out := make([]string, 0, n)
		switch a := col.(type) {
		case *array.Timestamp:
			unit := a.DataType().(*arrow.TimestampType).Unit
			for i := start; i < end; i++ {
				out = append(out, odstime.FormatTime(a.Value(i).ToTime(unit).UTC()))
			}
		case *array.Date32:
			for i := start; i < end; i++ {
				out = append(out, odstime.FormatTime(a.Value(i).ToTime().UTC()))
			}
		case *array.Date64:
			for i := start; i < end; i++ {
				out = append(out, odstime.FormatTime(a.Value(i).ToTime().UTC()))
			}
		default:
			return nil, columnMismatch(dataType, col)
		}
		values.StringArray = out

	case exdapi.DTString:
		out := make([]string, 0, n)
		switch a := col.(type) {
		case *array.String:
			for i := start; i < end; i++ {
				out = append(out, a.Value(i))
			}
		case *array.LargeString:
			for i := start; i < end; i++ {
				out = append(out, a.Value(i))
			}
		default:
			return nil, columnMismatch(dataType, col)
		}
		values.StringArray = out

	case exdapi.DTComplex:
		fsl, ok := col.(*array.FixedSizeList)
		if !ok {
			return nil, columnMismatch(dataType, col)
		}
		child, ok := fsl.ListValues().(*array.Float32)
		if !ok {
			return nil, columnMismatch(dataType, col)
		}
		values.FloatArray = interleaved(fsl, child.Value, start, end)

	case exdapi.DTDComplex:
		fsl, ok := col.(*array.FixedSizeList)
		if !ok {
			return nil, columnMismatch(dataType, col)
		}
		child, ok := fsl.ListValues().(*array.Float64)
		if !ok {
			return nil, columnMismatch(dataType, col)
		}
		values.DoubleArray = interleaved(fsl, child.Value, start, end)

	default:
		return nil, fmt.Errorf("%w: %s", exdapi.ErrUnsupportedColumnType, dataType)
	}

	return values, nil
}

// interleaved flattens the two components of a complex column into
// [re0, im0, re1, im1, ...] for rows [start, end). Row indices map
// through the list offset into the shared child array.
func interleaved[T float32 | float64](fsl *array.FixedSizeList, value func(int) T, start, end int) []T {
	out := make([]T, 0, 2*(end-start))
	for row := start; row < end; row++ {
		base := (fsl.Data().Offset() + row) * 2
		out = append(out, value(base), value(base+1))
	}
	return out
}

// columnMismatch reports an internal inconsistency between a column's
// inferred data type and its concrete array representation.
func columnMismatch(dataType exdapi.DataType, col arrow.Array) error {
	return fmt.Errorf("%w: %s column backed by %s array", exdapi.ErrUnsupportedColumnType, dataType, col.DataType())
}
