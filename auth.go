package exdbox

import (
	"context"

	"github.com/exd-lab/exdbox-go/auth"
)

// Authenticator validates bearer tokens and returns user identity.
// This is re-exported from the auth package for convenience.
type Authenticator = auth.Authenticator

// BearerAuth creates an Authenticator from a validation function.
// This is the simplest way to add authentication to your server.
//
// Example:
//
//	auth := exdbox.BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", exdbox.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
//
//	config := exdbox.ServerConfig{
//	    Registry: registry,
//	    Auth:     auth,
//	}
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return auth.BearerAuth(validateFunc)
}

// NoAuth returns an Authenticator that allows all requests without
// validation. Useful for development and testing. DO NOT use in
// production.
func NoAuth() Authenticator {
	return auth.NoAuth()
}

// IdentityFromContext retrieves the authenticated user identity from
// context. Returns empty string if no identity is set (unauthenticated
// request). Plugins can use this to restrict which sources a caller may
// open.
//
// Example:
//
//	func myFactory(url string, parameters map[string]any) (plugin.Backend, error) {
//	    // identity checks happen per request inside the backend, using
//	    // exdbox.IdentityFromContext(ctx)
//	}
func IdentityFromContext(ctx context.Context) string {
	return auth.IdentityFromContext(ctx)
}
