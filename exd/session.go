// Package exd implements the external data reader service: the session
// registry that turns opened data sources into stable handles, the
// handlers for the four protocol operations and a stub-less gRPC client.
package exd

import (
	"context"
	"fmt"
	"sync"

	"github.com/exd-lab/exdbox-go/exdapi"
	"github.com/exd-lab/exdbox-go/plugin"
)

// sessionState is the explicit lifecycle of a session's backend.
type sessionState int

const (
	stateUninitialized sessionState = iota
	stateActive
	stateClosed
)

// resolveFunc runs the probe chain for a session's source.
type resolveFunc func(ctx context.Context) (plugin.Backend, string, error)

// Session owns one backend instance per open handle. The backend is
// constructed lazily on first real use; construction and teardown are
// serialized by the session mutex, while structure and value queries on
// an active session run concurrently against the backend.
type Session struct {
	handle     string
	url        string
	parameters map[string]any
	resolve    resolveFunc

	mu         sync.Mutex
	state      sessionState
	backend    plugin.Backend
	pluginName string
}

func newSession(handle, url string, parameters map[string]any, resolve resolveFunc) *Session {
	return &Session{
		handle:     handle,
		url:        url,
		parameters: parameters,
		resolve:    resolve,
	}
}

// Backend returns the session's backend, constructing it on first use.
// Concurrent first accesses block on the mutex instead of constructing
// twice. A closed session returns ErrInvalidHandle.
func (s *Session) Backend(ctx context.Context) (plugin.Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateClosed:
		return nil, fmt.Errorf("%w: %s", exdapi.ErrInvalidHandle, s.handle)
	case stateActive:
		return s.backend, nil
	}

	backend, name, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	s.backend = backend
	s.pluginName = name
	s.state = stateActive
	return s.backend, nil
}

// Close releases the backend and invalidates the session. Re-closing is
// a no-op. A query racing with Close either completes against the live
// backend or observes ErrInvalidHandle, never a half-closed backend.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateActive {
		s.state = stateClosed
		return nil
	}

	err := s.backend.Close()
	s.backend = nil
	s.state = stateClosed
	return err
}

// registry is the handle table, the only cross-session shared structure.
// Insert and erase never disturb unrelated entries.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*Session)}
}

func (r *registry) add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.handle] = s
}

// get resolves a handle to its session or fails with ErrInvalidHandle.
func (r *registry) get(handle *exdapi.Handle) (*Session, error) {
	if handle == nil || handle.UID == "" {
		return nil, fmt.Errorf("%w: missing handle", exdapi.ErrInvalidHandle)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[handle.UID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", exdapi.ErrInvalidHandle, handle.UID)
	}
	return s, nil
}

// remove erases a handle and returns its session, or nil when the handle
// is unknown or already closed.
func (r *registry) remove(handle *exdapi.Handle) *Session {
	if handle == nil || handle.UID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[handle.UID]
	if !ok {
		return nil
	}
	delete(r.sessions, handle.UID)
	return s
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
