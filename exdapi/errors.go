package exdapi

import "errors"

// Protocol error taxonomy. Backends and the session layer wrap these
// sentinels with the offending handle/group/channel/parameter; the
// transport boundary maps them to status codes.
var (
	// ErrInvalidArgument marks a bad group id, channel id or row range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidHandle marks an unknown or already closed handle.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrUnsupportedColumnType marks a column whose intrinsic type has no
	// wire representation.
	ErrUnsupportedColumnType = errors.New("unsupported column type")
)
