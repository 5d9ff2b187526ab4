// This file contains the business logic for registration, login, and
// token-based identification, composing the password hasher, the credential
// store, and the token issuer/verifier.
package auth

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/config"
)

// HashPassword transforms a plaintext password into a salted bcrypt hash.
// bcrypt salts internally, so hashing the same password twice yields two
// different strings that both verify.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on malformed input (e.g. a password over its
		// 72-byte limit), so this surfaces as a validation problem.
		return "", apperror.NewValidationError("password could not be hashed", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored bcrypt hash.
// The comparison runs through bcrypt's native verification path, which is
// constant-time with respect to where a mismatch occurs.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService provides authentication-related services. Dependencies are
// injected at construction; the service itself holds no per-request state,
// so it is safe for concurrent use.
type AuthService struct {
	store      UserStore
	authConfig config.AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, authConfig config.AuthConfig) *AuthService {
	return &AuthService{
		store:      store,
		authConfig: authConfig,
	}
}

// Register hashes the password and creates the user record. On a duplicate
// username the store's ConflictError propagates unchanged; neither the
// password nor the hash is ever echoed back.
func (s *AuthService) Register(ctx context.Context, username, password string) (*User, error) {
	if username == "" {
		return nil, apperror.NewValidationError("username must not be empty", nil)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.store.CreateUser(ctx, username, hashedPassword)
}

// Login authenticates a user and returns a bearer token. An unknown username
// and a wrong password produce the same error, so the response cannot be
// used to enumerate registered usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		// A storage failure is fatal to this request but must not look like
		// a credential problem; log it and surface a 500.
		log.Printf("auth: user lookup failed during login: %v", err)
		return nil, err
	}

	if user == nil || !CheckPassword(password, user.HashedPassword) {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	tokenString, _, err := IssueToken(user.Username, s.authConfig.JWTSecret, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
	}, nil
}

// CurrentUser verifies a presented token and returns its subject claim for
// downstream authorization checks. Every verification failure maps to the
// same generic AuthError; the distinct cause travels in the wrapped error
// for server-side logs only.
func (s *AuthService) CurrentUser(tokenString string) (string, error) {
	subject, err := VerifyToken(tokenString, s.authConfig.JWTSecret)
	if err != nil {
		return "", apperror.NewAuthError("invalid or expired token", err)
	}
	return subject, nil
}
