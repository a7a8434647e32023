package exdbox

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"google.golang.org/grpc"
)

// defaultAddress is used by Serve when no address is configured.
const defaultAddress = "localhost:50051"

// FromEnv returns a copy of the config with unset fields filled from
// EXD_BOX_* environment variables:
//
//	EXD_BOX_ADDRESS           listen address for Serve
//	EXD_BOX_LOG_LEVEL         DEBUG, INFO, WARN or ERROR
//	EXD_BOX_MAX_MESSAGE_SIZE  gRPC message size limit in bytes
//	EXD_BOX_EAGER_OPEN        true to probe plugins during Open
//	EXD_BOX_AUTH_TOKEN        single shared bearer token
//
// Explicitly set fields win over the environment. Unparseable values
// are ignored.
func (c ServerConfig) FromEnv() ServerConfig {
	if c.Address == "" {
		c.Address = os.Getenv("EXD_BOX_ADDRESS")
	}
	if c.Logger == nil && c.LogLevel == nil {
		if v := os.Getenv("EXD_BOX_LOG_LEVEL"); v != "" {
			var level slog.Level
			if err := level.UnmarshalText([]byte(v)); err == nil {
				c.LogLevel = &level
			}
		}
	}
	if c.MaxMessageSize == 0 {
		if v := os.Getenv("EXD_BOX_MAX_MESSAGE_SIZE"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxMessageSize = n
			}
		}
	}
	if !c.EagerOpen {
		if v, err := strconv.ParseBool(os.Getenv("EXD_BOX_EAGER_OPEN")); err == nil {
			c.EagerOpen = v
		}
	}
	if c.Auth == nil {
		if token := os.Getenv("EXD_BOX_AUTH_TOKEN"); token != "" {
			c.Auth = BearerAuth(func(got string) (string, error) {
				if got != token {
					return "", ErrUnauthorized
				}
				return "token", nil
			})
		}
	}
	return c
}

// Serve is the managed variant of NewServer for standalone plugin hosts:
// it creates a gRPC server with ServerOptions, registers the reader
// service and serves on config.Address until the context is canceled,
// then stops gracefully.
//
// Example:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err := exdbox.Serve(ctx, exdbox.ServerConfig{Registry: registry}.FromEnv())
func Serve(ctx context.Context, config ServerConfig) error {
	if config.Address == "" {
		config.Address = defaultAddress
	}

	grpcServer := grpc.NewServer(ServerOptions(config)...)
	if err := NewServer(grpcServer, config); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", config.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", config.Address, err)
	}

	loggerFromConfig(config).Info("Serving external data reader", "address", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		grpcServer.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
