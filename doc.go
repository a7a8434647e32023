// Package exdbox provides a high-level API for building external data
// reader plugin hosts: gRPC services that expose measurement files and
// other tabular sources through a handle-based read protocol.
//
// The exdbox package simplifies building reader services by:
//   - Registering the reader service handlers on an existing grpc.Server
//   - Probing registered plugins to find the one that claims a source
//   - Deriving structure descriptions and typed value slices from Arrow
//     records via the simple adapter
//   - Handling authentication with bearer tokens
//
// # Quick Start
//
// Host an in-memory tabular source in under 30 lines:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/apache/arrow-go/v18/arrow"
//	    "github.com/apache/arrow-go/v18/arrow/array"
//	    "github.com/apache/arrow-go/v18/arrow/memory"
//
//	    "github.com/exd-lab/exdbox-go"
//	    "github.com/exd-lab/exdbox-go/simple"
//	)
//
//	func main() {
//	    schema := arrow.NewSchema([]arrow.Field{
//	        {Name: "time", Type: arrow.PrimitiveTypes.Float64},
//	        {Name: "value", Type: arrow.PrimitiveTypes.Float64},
//	    }, nil)
//
//	    open := func(url string, parameters map[string]any) (simple.Source, error) {
//	        builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
//	        defer builder.Release()
//	        builder.Field(0).(*array.Float64Builder).AppendValues([]float64{0, 0.1, 0.2}, nil)
//	        builder.Field(1).(*array.Float64Builder).AppendValues([]float64{1.5, 1.7, 1.6}, nil)
//	        return simple.RecordSource(builder.NewRecordBatch()), nil
//	    }
//
//	    registry, err := exdbox.NewRegistryBuilder().
//	        Simple("memory", open).
//	        Build()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    log.Fatal(exdbox.Serve(context.Background(), exdbox.ServerConfig{
//	        Registry: registry,
//	    }.FromEnv()))
//	}
//
// # Architecture
//
// The package follows an interface-based design:
//
//   - plugin.Backend: one open data source (probe, structure, values)
//   - plugin.Factory: constructs backends for a URL
//   - plugin.Registry: probes factories until one claims the source
//   - simple.Source: a single Arrow record adapted into a full Backend
//
// Users can either:
//   - Implement simple.Source for flat tabular sources
//   - Implement plugin.Backend directly for multi-group sources
//
// # Server Lifecycle
//
// NewServer registers handlers on a user-provided grpc.Server and does
// NOT manage server lifecycle (start/stop/listen). This gives users full
// control over TLS via grpc.Creds(), extra interceptors and graceful
// shutdown. Serve() is the managed alternative for standalone hosts.
//
// # Sessions
//
// Open returns an opaque handle bound to one backend instance. Handles
// stay valid until Close and are never reused. By default the plugin
// probe chain runs lazily on the first GetStructure or GetValues call;
// set ServerConfig.EagerOpen to surface probe failures from Open itself.
//
// # Authentication
//
// Bearer token authentication is supported via the BearerAuth helper:
//
//	auth := exdbox.BearerAuth(func(token string) (string, error) {
//	    if token == "secret-api-key" {
//	        return "user1", nil
//	    }
//	    return "", exdbox.ErrUnauthorized
//	})
//
//	exdbox.NewServer(grpcServer, exdbox.ServerConfig{
//	    Registry: registry,
//	    Auth:     auth,
//	})
//
// # Memory Management
//
// Arrow uses manual reference counting. Sources returning records they
// also hold elsewhere must Retain() them; the simple adapter retains the
// record it caches and releases it when the session closes.
package exdbox
