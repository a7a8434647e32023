// Package exdapi defines the wire model of the external data reader
// protocol: the data-type enumeration, the structure description, the
// discriminated-union value arrays and the request/response messages.
//
// The messages are msgpack-tagged Go structs. The transport layer encodes
// them with the codec from internal/codec; nothing in this package depends
// on gRPC.
package exdapi

import "fmt"

// DataType enumerates the wire data types of channel values. The numeric
// values follow the ASAM ODS DataTypeEnum so that handles produced by this
// server stay interoperable with other protocol implementations.
type DataType int32

const (
	DTUnknown  DataType = 0
	DTString   DataType = 1
	DTShort    DataType = 2
	DTFloat    DataType = 3
	DTBoolean  DataType = 4
	DTByte     DataType = 5
	DTLong     DataType = 6
	DTDouble   DataType = 7
	DTLongLong DataType = 8
	DTDate     DataType = 10
	DTComplex  DataType = 13
	DTDComplex DataType = 14
)

var dataTypeNames = map[DataType]string{
	DTUnknown:  "DT_UNKNOWN",
	DTString:   "DT_STRING",
	DTShort:    "DT_SHORT",
	DTFloat:    "DT_FLOAT",
	DTBoolean:  "DT_BOOLEAN",
	DTByte:     "DT_BYTE",
	DTLong:     "DT_LONG",
	DTDouble:   "DT_DOUBLE",
	DTLongLong: "DT_LONGLONG",
	DTDate:     "DT_DATE",
	DTComplex:  "DT_COMPLEX",
	DTDComplex: "DT_DCOMPLEX",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int32(t))
}
