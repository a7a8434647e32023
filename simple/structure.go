package simple

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/exd-lab/exdbox-go/exdapi"
)

// groupName is the fixed name of the single group a flat tabular source
// produces.
const groupName = "data"

// FillStructure appends the source's description to the structure result:
// file attributes, one group (id 0) with row/channel counts and group
// attributes, and one channel per column with its inferred wire type,
// unit, optional description and the independent marker on channel 0.
//
// Two calls against an unmodified source produce identical structures;
// all derived state is cached.
func (b *Backend) FillStructure(ctx context.Context, structure *exdapi.StructureResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fileAttrs, err := b.cache.fileAttributes()
	if err != nil {
		return err
	}
	if structure.Attributes == nil {
		structure.Attributes = exdapi.ContextVariables{}
	}
	if err := structure.Attributes.Apply(fileAttrs); err != nil {
		return err
	}

	numCols, err := b.cache.numCols()
	if err != nil {
		return err
	}
	numRows, err := b.cache.numRows()
	if err != nil {
		return err
	}
	names, err := b.cache.columnNames()
	if err != nil {
		return err
	}
	types, err := b.cache.columnTypes()
	if err != nil {
		return err
	}
	units, err := b.cache.columnUnits()
	if err != nil {
		return err
	}
	descriptions, err := b.cache.columnDescriptions()
	if err != nil {
		return err
	}

	// Unit and description lists must match the column count exactly.
	units = padded(units, int(numCols))
	descriptions = padded(descriptions, int(numCols))

	group := &exdapi.Group{
		ID:                    0,
		Name:                  groupName,
		TotalNumberOfChannels: numCols,
		NumberOfRows:          numRows,
		Attributes:            exdapi.ContextVariables{},
	}
	groupAttrs, err := b.cache.groupAttributes()
	if err != nil {
		return err
	}
	if err := group.Attributes.Apply(groupAttrs); err != nil {
		return err
	}

	for index := int64(0); index < numCols; index++ {
		name := fmt.Sprintf("Ch_%d", index)
		if int(index) < len(names) && names[index] != "" {
			name = names[index]
		}

		channel := &exdapi.Channel{
			ID:         index,
			Name:       name,
			DataType:   types[index],
			UnitString: units[index],
			Attributes: exdapi.ContextVariables{},
		}

		if index == 0 {
			independent, err := b.leadingIndependent()
			if err != nil {
				return err
			}
			if independent {
				if err := channel.Attributes.Apply(map[string]any{"independent": 1}); err != nil {
					return err
				}
			}
		}
		if descriptions[index] != "" {
			if err := channel.Attributes.Apply(map[string]any{"description": descriptions[index]}); err != nil {
				return err
			}
		}

		group.Channels = append(group.Channels, channel)
	}

	structure.Groups = append(structure.Groups, group)
	return nil
}

// padded right-pads (or truncates) a string list to exactly n entries.
func padded(list []string, n int) []string {
	out := make([]string, n)
	copy(out, list)
	return out
}

// leadingIndependent reports whether column 0 is strictly increasing with
// no duplicate values, marking it as the natural index axis.
func (b *Backend) leadingIndependent() (bool, error) {
	col, err := b.cache.column(0)
	if err != nil {
		return false, err
	}
	return strictlyIncreasing(col), nil
}

func strictlyIncreasing(col arrow.Array) bool {
	n := col.Len()
	if n <= 1 {
		return true
	}

	switch a := col.(type) {
	case *array.Int8:
		return increasing(n, func(i int) int8 { return a.Value(i) })
	case *array.Int16:
		return increasing(n, func(i int) int16 { return a.Value(i) })
	case *array.Int32:
		return increasing(n, func(i int) int32 { return a.Value(i) })
	case *array.Int64:
		return increasing(n, func(i int) int64 { return a.Value(i) })
	case *array.Uint8:
		return increasing(n, func(i int) uint8 { return a.Value(i) })
	case *array.Uint16:
		return increasing(n, func(i int) uint16 { return a.Value(i) })
	case *array.Uint32:
		return increasing(n, func(i int) uint32 { return a.Value(i) })
	case *array.Uint64:
		return increasing(n, func(i int) uint64 { return a.Value(i) })
	case *array.Float32:
		return increasing(n, func(i int) float32 { return a.Value(i) })
	case *array.Float64:
		return increasing(n, func(i int) float64 { return a.Value(i) })
	case *array.Timestamp:
		return increasing(n, func(i int) arrow.Timestamp { return a.Value(i) })
	case *array.Date32:
		return increasing(n, func(i int) arrow.Date32 { return a.Value(i) })
	case *array.Date64:
		return increasing(n, func(i int) arrow.Date64 { return a.Value(i) })
	case *array.String:
		return increasing(n, func(i int) string { return a.Value(i) })
	case *array.LargeString:
		return increasing(n, func(i int) string { return a.Value(i) })
	default:
		return false
	}
}

// increasing requires every adjacent pair to compare strictly less-than.
// Phrased as a negated < so a NaN anywhere in a float column fails the
// check instead of slipping through an always-false >=.
func increasing[T interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}](n int, value func(int) T) bool {
	for i := 1; i < n; i++ {
		if !(value(i-1) < value(i)) {
			return false
		}
	}
	return true
}
