package exd

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/exd-lab/exdbox-go/exdapi"
	"github.com/exd-lab/exdbox-go/internal/recovery"
	"github.com/exd-lab/exdbox-go/params"
	"github.com/exd-lab/exdbox-go/plugin"
)

// Server implements the ExternalDataReader service handlers on top of a
// plugin registry and a session registry.
type Server struct {
	plugins  *plugin.Registry
	sessions *registry
	logger   *slog.Logger

	// eagerOpen resolves the backend during Open instead of on first
	// structure/value access, surfacing probe failures early.
	eagerOpen bool
}

// NewServer creates the service implementation. The logger is used for
// request tracing and plugin failures.
func NewServer(plugins *plugin.Registry, logger *slog.Logger, eagerOpen bool) *Server {
	return &Server{
		plugins:   plugins,
		sessions:  newRegistry(),
		logger:    logger,
		eagerOpen: eagerOpen,
	}
}

// Open decodes the parameter string, issues a fresh handle and registers
// the session. With eager open the probe chain runs immediately;
// otherwise the backend is constructed on first structure/value access.
func (s *Server) Open(ctx context.Context, in *exdapi.Identifier) (*exdapi.Handle, error) {
	s.logger.Debug("Open called", "url", in.URL)

	decoded, err := params.Decode(in.Parameters)
	if err != nil {
		s.logger.Error("Failed to decode parameters", "url", in.URL, "error", err)
		return nil, toStatus(err)
	}

	session := newSession(uuid.NewString(), in.URL, decoded, s.resolver(in.URL, decoded))
	if s.eagerOpen {
		if _, err := session.Backend(ctx); err != nil {
			s.logger.Error("Failed to resolve backend", "url", in.URL, "error", err)
			return nil, toStatus(err)
		}
	}

	s.sessions.add(session)
	s.logger.Debug("Session opened", "handle", session.handle, "url", in.URL)
	return &exdapi.Handle{UID: session.handle}, nil
}

// resolver builds the probe-chain closure for one session. Plugin code
// runs under panic recovery.
func (s *Server) resolver(url string, decoded map[string]any) resolveFunc {
	return func(ctx context.Context) (plugin.Backend, string, error) {
		type match struct {
			backend plugin.Backend
			name    string
		}
		m, err := recovery.ToValue(s.logger, "Resolve", func() (match, error) {
			backend, name, err := s.plugins.Resolve(ctx, url, decoded)
			return match{backend: backend, name: name}, err
		})
		return m.backend, m.name, err
	}
}

// GetStructure derives the structure description of an open source.
func (s *Server) GetStructure(ctx context.Context, in *exdapi.StructureRequest) (*exdapi.StructureResult, error) {
	session, err := s.sessions.get(in.Handle)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Debug("GetStructure called", "handle", session.handle)

	backend, err := session.Backend(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	structure := &exdapi.StructureResult{Name: sourceName(session.url)}
	err = recovery.ToError(s.logger, "FillStructure", func() error {
		return backend.FillStructure(ctx, structure)
	})
	if err != nil {
		s.logger.Error("Failed to fill structure", "handle", session.handle, "error", err)
		return nil, toStatus(err)
	}

	if in.SuppressChannels {
		for _, group := range structure.Groups {
			group.Channels = nil
		}
	}
	if in.SuppressAttributes {
		structure.Attributes = nil
		for _, group := range structure.Groups {
			group.Attributes = nil
			for _, channel := range group.Channels {
				channel.Attributes = nil
			}
		}
	}

	return structure, nil
}

// GetValues returns a bounds-clamped slice of the requested channels.
func (s *Server) GetValues(ctx context.Context, in *exdapi.ValuesRequest) (*exdapi.ValuesResult, error) {
	session, err := s.sessions.get(in.Handle)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Debug("GetValues called",
		"handle", session.handle,
		"group", in.GroupID,
		"channels", len(in.ChannelIDs),
		"start", in.Start,
		"limit", in.Limit,
	)

	backend, err := session.Backend(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	result, err := recovery.ToValue(s.logger, "GetValues", func() (*exdapi.ValuesResult, error) {
		return backend.GetValues(ctx, in)
	})
	if err != nil {
		s.logger.Error("Failed to get values", "handle", session.handle, "error", err)
		return nil, toStatus(err)
	}
	return result, nil
}

// Close releases the session's backend and invalidates the handle.
// Closing an unknown or already closed handle is a no-op.
func (s *Server) Close(ctx context.Context, in *exdapi.Handle) (*exdapi.Empty, error) {
	session := s.sessions.remove(in)
	if session == nil {
		s.logger.Debug("Close on unknown handle", "handle", handleUID(in))
		return &exdapi.Empty{}, nil
	}

	err := recovery.ToError(s.logger, "Close", session.Close)
	if err != nil {
		s.logger.Error("Failed to close backend", "handle", session.handle, "error", err)
		return nil, toStatus(err)
	}
	s.logger.Debug("Session closed", "handle", session.handle)
	return &exdapi.Empty{}, nil
}

func handleUID(h *exdapi.Handle) string {
	if h == nil {
		return ""
	}
	return h.UID
}

// sourceName derives the display name of a source from its URL.
func sourceName(sourceURL string) string {
	trimmed := strings.ReplaceAll(sourceURL, "\\", "/")
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
	}
	return path.Base(trimmed)
}
