package modelsync

import (
	"context"
	"errors"
	"os"
)

// TokenProvider supplies the short-lived bearer token identifying the calling
// application instance. Implementations are expected to be safe for
// concurrent use; the client calls AuthToken once per sync attempt.
type TokenProvider interface {
	// AuthToken returns a bearer token, or an error if none could be
	// obtained. An error aborts the sync attempt before any request is made.
	AuthToken(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a plain function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

// AuthToken calls f.
func (f TokenProviderFunc) AuthToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticTokenProvider returns a TokenProvider that always yields the given
// token. Useful for tests and for CLI harnesses that receive a token out of
// band.
func StaticTokenProvider(token string) TokenProvider {
	return TokenProviderFunc(func(ctx context.Context) (string, error) {
		if token == "" {
			return "", errors.New("empty token")
		}
		return token, nil
	})
}

// EnvTokenProvider returns a TokenProvider that reads the token from the
// named environment variable on every call.
func EnvTokenProvider(envVar string) TokenProvider {
	return TokenProviderFunc(func(ctx context.Context) (string, error) {
		token := os.Getenv(envVar)
		if token == "" {
			return "", errors.New(envVar + " is not set")
		}
		return token, nil
	})
}
