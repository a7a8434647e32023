package exdapi

// Empty is the reply of operations that return nothing.
type Empty struct{}

// Identifier names an external data source: a URL plus the opaque
// parameter string understood by the params package.
type Identifier struct {
	URL        string `msgpack:"url"`
	Parameters string `msgpack:"parameters,omitempty"`
}

// Handle is the opaque session identifier returned by Open. It is valid
// from the moment Open returns until Close and is never reused while
// outstanding.
type Handle struct {
	UID string `msgpack:"uid"`
}

// StructureRequest asks for the structure of an open data source.
// SuppressChannels and SuppressAttributes trim the reply for callers that
// only need group-level counts.
type StructureRequest struct {
	Handle             *Handle `msgpack:"handle"`
	SuppressChannels   bool    `msgpack:"suppress_channels,omitempty"`
	SuppressAttributes bool    `msgpack:"suppress_attributes,omitempty"`
}

// StructureResult describes a data source: file-level attributes and the
// groups of channels it contains.
type StructureResult struct {
	Name       string           `msgpack:"name,omitempty"`
	Attributes ContextVariables `msgpack:"attributes,omitempty"`
	Groups     []*Group         `msgpack:"groups,omitempty"`
}

// Group is a named collection of channels sharing a row count. A flat
// tabular source always produces exactly one group with id 0.
type Group struct {
	ID                    int64            `msgpack:"id"`
	Name                  string           `msgpack:"name"`
	TotalNumberOfChannels int64            `msgpack:"total_number_of_channels"`
	NumberOfRows          int64            `msgpack:"number_of_rows"`
	Attributes            ContextVariables `msgpack:"attributes,omitempty"`
	Channels              []*Channel       `msgpack:"channels,omitempty"`
}

// Channel is one data column. Channel ids are dense 0..N-1 and match the
// backend's column order.
type Channel struct {
	ID         int64            `msgpack:"id"`
	Name       string           `msgpack:"name"`
	DataType   DataType         `msgpack:"data_type"`
	UnitString string           `msgpack:"unit_string,omitempty"`
	Attributes ContextVariables `msgpack:"attributes,omitempty"`
}

// ValuesRequest asks for a bounded row-range slice of selected channels
// of one group.
type ValuesRequest struct {
	Handle     *Handle `msgpack:"handle"`
	GroupID    int64   `msgpack:"group_id"`
	ChannelIDs []int64 `msgpack:"channel_ids"`
	Start      int64   `msgpack:"start"`
	Limit      int64   `msgpack:"limit"`
}

// ValuesResult carries the requested slices in requested channel order.
type ValuesResult struct {
	ID       int64            `msgpack:"id"`
	Channels []*ChannelValues `msgpack:"channels"`
}

// ChannelValues is the slice of one channel.
type ChannelValues struct {
	ID     int64       `msgpack:"id"`
	Values *DataValues `msgpack:"values"`
}

// DataValues is the discriminated union of typed value arrays. Exactly
// one array field is populated, selected by DataType:
//
//	DT_BYTE                 ByteArray (one byte per value)
//	DT_SHORT, DT_LONG       LongArray
//	DT_LONGLONG             LonglongArray
//	DT_FLOAT, DT_COMPLEX    FloatArray (complex: interleaved re/im pairs)
//	DT_DOUBLE, DT_DCOMPLEX  DoubleArray (dcomplex: interleaved re/im pairs)
//	DT_DATE, DT_STRING      StringArray (dates in ODS date format)
//	DT_BOOLEAN              BooleanArray
type DataValues struct {
	DataType      DataType  `msgpack:"data_type"`
	ByteArray     []byte    `msgpack:"byte_array,omitempty"`
	LongArray     []int32   `msgpack:"long_array,omitempty"`
	LonglongArray []int64   `msgpack:"longlong_array,omitempty"`
	FloatArray    []float32 `msgpack:"float_array,omitempty"`
	DoubleArray   []float64 `msgpack:"double_array,omitempty"`
	StringArray   []string  `msgpack:"string_array,omitempty"`
	BooleanArray  []bool    `msgpack:"boolean_array,omitempty"`
}

// Length returns the number of wire entries in the populated array.
// For complex kinds this is twice the number of logical values.
func (v *DataValues) Length() int {
	switch v.DataType {
	case DTByte:
		return len(v.ByteArray)
	case DTShort, DTLong:
		return len(v.LongArray)
	case DTLongLong:
		return len(v.LonglongArray)
	case DTFloat, DTComplex:
		return len(v.FloatArray)
	case DTDouble, DTDComplex:
		return len(v.DoubleArray)
	case DTDate, DTString:
		return len(v.StringArray)
	case DTBoolean:
		return len(v.BooleanArray)
	default:
		return 0
	}
}
