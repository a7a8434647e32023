package exdbox

import (
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/grpc"

	"github.com/exd-lab/exdbox-go/auth"
	"github.com/exd-lab/exdbox-go/exd"
)

// NewServer registers the external data reader service handlers on the
// provided gRPC server. This is the main entry point for the exdbox
// package.
//
// The function:
//  1. Validates the ServerConfig
//  2. Creates the reader service implementation
//  3. Registers it on grpcServer
//
// Returns error if config is invalid (e.g., nil Registry).
// Does NOT start the gRPC server - user controls lifecycle via
// grpcServer.Serve(), or uses Serve() for the managed variant.
//
// For authentication, use ServerOptions() to create a gRPC server with
// auth interceptors:
//
//	opts := exdbox.ServerOptions(exdbox.ServerConfig{
//	    Auth: exdbox.BearerAuth(validateToken),
//	})
//	grpcServer := grpc.NewServer(opts...)
//	err := exdbox.NewServer(grpcServer, config)
//
// Basic example without authentication:
//
//	grpcServer := grpc.NewServer()
//	err := exdbox.NewServer(grpcServer, exdbox.ServerConfig{
//	    Registry: myRegistry,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config ServerConfig) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := loggerFromConfig(config)

	readerServer := exd.NewServer(config.Registry, logger, config.EagerOpen)
	exd.RegisterExternalDataReaderServer(grpcServer, readerServer)

	logger.Info("External data reader registered",
		"plugins", config.Registry.Names(),
		"has_auth", config.Auth != nil,
		"eager_open", config.EagerOpen,
		"max_message_size", config.MaxMessageSize,
	)

	return nil
}

// validateConfig checks that required ServerConfig fields are valid.
func validateConfig(config ServerConfig) error {
	if config.Registry == nil {
		return fmt.Errorf("plugin registry is required")
	}
	if len(config.Registry.Names()) == 0 {
		return fmt.Errorf("plugin registry is empty")
	}
	return nil
}

// loggerFromConfig resolves the configured logger: an explicit Logger
// wins, then a fresh text logger at LogLevel, then slog.Default().
func loggerFromConfig(config ServerConfig) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	if config.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: *config.LogLevel,
		}))
	}
	return slog.Default()
}

// ServerOptions returns gRPC server options with authentication
// interceptors and message size limits. Use this when creating a gRPC
// server if you want authentication enabled.
//
// Example:
//
//	config := exdbox.ServerConfig{
//	    Registry: registry,
//	    Auth:     exdbox.BearerAuth(validateToken),
//	}
//	opts := exdbox.ServerOptions(config)
//	grpcServer := grpc.NewServer(opts...)
//	exdbox.NewServer(grpcServer, config)
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption

	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(auth.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(auth.StreamServerInterceptor(config.Auth)),
		)
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}
