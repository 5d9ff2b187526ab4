// This file defines the HTTP middleware that gates protected routes. The
// "authenticated" state is a per-request property derived solely from the
// presented bearer token; no session state is retained between requests.
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

// ContextKey is a dedicated type for context keys to avoid collisions with
// values set by other packages.
type ContextKey string

// UsernameKey is the context key under which the authenticated subject's
// username is stored.
const UsernameKey ContextKey = "username"

// genericTokenRejection is the one response body presented for every token
// verification failure. Malformed, forged, and expired tokens are logged
// distinctly server-side, but the client sees an identical rejection so the
// failure mode leaks nothing.
const genericTokenRejection = "invalid or expired token"

// JWTMiddleware verifies the Authorization header and, on success, stores
// the token's subject username in the request context for handlers further
// down the chain.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			// Expected format: "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			subject, err := VerifyToken(parts[1], cfg.JWTSecret)
			if err != nil {
				switch {
				case errors.Is(err, ErrTokenMalformed):
					log.Printf("auth: rejected malformed token: %v", err)
				case errors.Is(err, ErrTokenSignature):
					log.Printf("auth: rejected token with invalid signature")
				case errors.Is(err, ErrTokenExpired):
					log.Printf("auth: rejected expired token")
				default:
					log.Printf("auth: rejected token: %v", err)
				}
				WriteError(w, r, apperror.NewAuthError(genericTokenRejection, err))
				return
			}

			ctx := NewContextWithUsername(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewContextWithUsername returns a child context carrying the authenticated
// username.
func NewContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// UsernameFromContext retrieves the authenticated username set by
// JWTMiddleware. The second return value reports whether one was present.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
