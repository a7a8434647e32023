// Package codec provides the MessagePack gRPC codec used by the external
// data reader service. The protocol's messages are plain tagged structs,
// so the transport encodes them with msgpack instead of protobuf.
package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/grpc/encoding"
)

// Name is the codec name registered with gRPC. Clients select it with
// grpc.CallContentSubtype(Name) or grpc.ForceCodec(Codec{}).
const Name = "msgpack"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec implements grpc/encoding.Codec over MessagePack.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return nil
}

func (Codec) Name() string { return Name }
