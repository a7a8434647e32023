package exdbox

import (
	"errors"
	"log/slog"

	"github.com/exd-lab/exdbox-go/auth"
	"github.com/exd-lab/exdbox-go/plugin"
)

// ServerConfig contains configuration for an external data reader server.
type ServerConfig struct {
	// Registry holds the reader plugins probed on Open.
	// REQUIRED: MUST NOT be nil and MUST have at least one plugin.
	Registry *plugin.Registry

	// Auth provides authentication logic.
	// OPTIONAL: If nil, no authentication (all requests allowed).
	Auth auth.Authenticator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// Valid values: slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// MaxMessageSize sets maximum gRPC message size in bytes.
	// OPTIONAL: If 0, uses gRPC default (4MB).
	// Recommended: 16MB for bulk value transfers.
	MaxMessageSize int

	// Address is the listen address used by Serve (e.g., "localhost:50051").
	// OPTIONAL: Ignored when registering on a caller-owned gRPC server.
	Address string

	// EagerOpen runs the plugin probe chain during Open instead of on
	// first structure or value access. Probe failures then surface as
	// Open errors at the cost of opening sources nobody queries.
	// OPTIONAL: Defaults to lazy resolution.
	EagerOpen bool
}

// Standard errors returned by the exdbox package.
var (
	// ErrUnauthorized indicates authentication failed.
	// Return this from Authenticator.Authenticate() for invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidConfig indicates ServerConfig validation failed.
	ErrInvalidConfig = errors.New("invalid server config")
)
