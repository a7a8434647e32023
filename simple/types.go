package simple

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/exd-lab/exdbox-go/exdapi"
)

// inferDataType maps a column's intrinsic Arrow type to its wire data
// type, first match wins: string, complex, date/time, floating point,
// integer.
//
// Arrow has no complex primitive; this package adopts the convention that
// a FixedSizeList of exactly two float32 or float64 components is a
// complex column (DT_COMPLEX / DT_DCOMPLEX).
//
// Narrow unsigned integers promote to the next wider signed wire kind
// because the protocol carries signed integers only. Unsigned 64-bit has
// no signed kind that can hold it and widens to DT_DOUBLE; that loss of
// precision beyond 2^53 is accepted, the protocol offers nothing better.
func inferDataType(dt arrow.DataType) (exdapi.DataType, error) {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return exdapi.DTString, nil

	case arrow.FIXED_SIZE_LIST:
		fsl := dt.(*arrow.FixedSizeListType)
		if fsl.Len() == 2 {
			switch fsl.Elem().ID() {
			case arrow.FLOAT32:
				return exdapi.DTComplex, nil
			case arrow.FLOAT64:
				return exdapi.DTDComplex, nil
			}
		}

	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return exdapi.DTDate, nil

	case arrow.FLOAT32:
		return exdapi.DTFloat, nil
	case arrow.FLOAT64:
		return exdapi.DTDouble, nil

	case arrow.INT8:
		return exdapi.DTShort, nil
	case arrow.UINT8:
		return exdapi.DTByte, nil
	case arrow.INT16:
		return exdapi.DTShort, nil
	case arrow.UINT16:
		return exdapi.DTLong, nil
	case arrow.INT32:
		return exdapi.DTLong, nil
	case arrow.UINT32:
		return exdapi.DTLongLong, nil
	case arrow.INT64:
		return exdapi.DTLongLong, nil
	case arrow.UINT64:
		return exdapi.DTDouble, nil
	}

	return exdapi.DTUnknown, fmt.Errorf("%w: %s", exdapi.ErrUnsupportedColumnType, dt)
}
