// Package auth provides bearer-token authentication for external data
// reader servers: the Authenticator interface, ready-made implementations
// and the gRPC interceptors that enforce them.
package auth

import (
	"context"
)

// Authenticator validates bearer tokens and returns user identity.
// Implementations MUST be goroutine-safe.
type Authenticator interface {
	// Authenticate validates a bearer token and returns user identity.
	// Returns error if the token is invalid or expired. The identity
	// string is used for logging. Context allows timeouts for auth
	// backend calls.
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// noAuthenticator allows all requests. Development and testing only.
type noAuthenticator struct{}

// NoAuth returns an Authenticator that allows all requests, reporting
// every caller as "anonymous". DO NOT use in production.
func NoAuth() Authenticator {
	return &noAuthenticator{}
}

func (n *noAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return "anonymous", nil
}
