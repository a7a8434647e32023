package exd

import (
	"context"

	"google.golang.org/grpc"

	"github.com/exd-lab/exdbox-go/exdapi"
	"github.com/exd-lab/exdbox-go/internal/codec"
)

// Client is a thin, stub-less client for the external data reader
// service. It forces the msgpack codec on every call so it can talk to
// servers registered through RegisterExternalDataReaderServer.
type Client struct {
	cc   grpc.ClientConnInterface
	opts []grpc.CallOption
}

// NewClient wraps an established connection. Extra call options (e.g.
// grpc.UseCompressor) apply to every request.
func NewClient(cc grpc.ClientConnInterface, opts ...grpc.CallOption) *Client {
	return &Client{
		cc:   cc,
		opts: append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...),
	}
}

// Open opens a data source and returns its session handle.
func (c *Client) Open(ctx context.Context, url, parameters string) (*exdapi.Handle, error) {
	out := new(exdapi.Handle)
	err := c.cc.Invoke(ctx, MethodOpen, &exdapi.Identifier{URL: url, Parameters: parameters}, out, c.opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetStructure queries the structure of an open source.
func (c *Client) GetStructure(ctx context.Context, req *exdapi.StructureRequest) (*exdapi.StructureResult, error) {
	out := new(exdapi.StructureResult)
	if err := c.cc.Invoke(ctx, MethodGetStructure, req, out, c.opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetValues pulls a row-range slice of selected channels.
func (c *Client) GetValues(ctx context.Context, req *exdapi.ValuesRequest) (*exdapi.ValuesResult, error) {
	out := new(exdapi.ValuesResult)
	if err := c.cc.Invoke(ctx, MethodGetValues, req, out, c.opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Close invalidates a handle and releases its backend.
func (c *Client) Close(ctx context.Context, handle *exdapi.Handle) error {
	out := new(exdapi.Empty)
	return c.cc.Invoke(ctx, MethodClose, handle, out, c.opts...)
}
