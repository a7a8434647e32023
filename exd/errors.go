package exd

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/exd-lab/exdbox-go/exdapi"
	"github.com/exd-lab/exdbox-go/params"
	"github.com/exd-lab/exdbox-go/plugin"
)

// toStatus maps taxonomy errors to gRPC status codes at the handler
// boundary. Errors that already carry a status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(interface{ GRPCStatus() *status.Status }); ok {
		return err
	}

	switch {
	case errors.Is(err, exdapi.ErrInvalidHandle):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, plugin.ErrNoMatch), errors.Is(err, plugin.ErrNotRegistered):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, exdapi.ErrInvalidArgument), errors.Is(err, params.ErrMalformed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, exdapi.ErrUnsupportedColumnType):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
