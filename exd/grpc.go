package exd

import (
	"context"

	"google.golang.org/grpc"

	"github.com/exd-lab/exdbox-go/exdapi"
	_ "github.com/exd-lab/exdbox-go/internal/codec"     // register the msgpack codec
	_ "github.com/exd-lab/exdbox-go/internal/serialize" // register the zstd compressor
)

// ServiceName is the full gRPC service name of the external data reader.
const ServiceName = "ods.exd.ExternalDataReader"

// Method names as used by grpc.ClientConn.Invoke.
const (
	MethodOpen         = "/" + ServiceName + "/Open"
	MethodGetStructure = "/" + ServiceName + "/GetStructure"
	MethodGetValues    = "/" + ServiceName + "/GetValues"
	MethodClose        = "/" + ServiceName + "/Close"
)

// ExternalDataReaderServer is the server contract of the four protocol
// operations. *Server implements it.
type ExternalDataReaderServer interface {
	Open(ctx context.Context, in *exdapi.Identifier) (*exdapi.Handle, error)
	GetStructure(ctx context.Context, in *exdapi.StructureRequest) (*exdapi.StructureResult, error)
	GetValues(ctx context.Context, in *exdapi.ValuesRequest) (*exdapi.ValuesResult, error)
	Close(ctx context.Context, in *exdapi.Handle) (*exdapi.Empty, error)
}

// RegisterExternalDataReaderServer registers the service on a gRPC
// server. The service descriptor is hand-written: the wire messages are
// msgpack-tagged structs, not generated protobuf types.
func RegisterExternalDataReaderServer(s grpc.ServiceRegistrar, srv ExternalDataReaderServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExternalDataReaderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Open", Handler: openHandler},
		{MethodName: "GetStructure", Handler: getStructureHandler},
		{MethodName: "GetValues", Handler: getValuesHandler},
		{MethodName: "Close", Handler: closeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "exdapi/messages.go",
}

func openHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(exdapi.Identifier)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExternalDataReaderServer).Open(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodOpen}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExternalDataReaderServer).Open(ctx, req.(*exdapi.Identifier))
	}
	return interceptor(ctx, in, info, handler)
}

func getStructureHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(exdapi.StructureRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExternalDataReaderServer).GetStructure(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetStructure}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExternalDataReaderServer).GetStructure(ctx, req.(*exdapi.StructureRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getValuesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(exdapi.ValuesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExternalDataReaderServer).GetValues(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetValues}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExternalDataReaderServer).GetValues(ctx, req.(*exdapi.ValuesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func closeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(exdapi.Handle)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExternalDataReaderServer).Close(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodClose}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExternalDataReaderServer).Close(ctx, req.(*exdapi.Handle))
	}
	return interceptor(ctx, in, info, handler)
}
