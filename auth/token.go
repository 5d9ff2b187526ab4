// This file contains the token issuer/verifier. Tokens are stateless HS256
// JWTs carrying the username as the subject claim; validity is determined
// purely by recomputation (signature plus expiry check), never by lookup, so
// the server holds no reference to a token after issuance.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors classifying token verification failures. Callers log these
// distinctly but must surface one identical generic unauthorized response for
// all of them, so a client cannot tell which check failed.
var (
	// ErrTokenMalformed covers wrong encoding or missing claims.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignature covers integrity failures.
	ErrTokenSignature = errors.New("token signature is invalid")
	// ErrTokenExpired covers tokens whose expiry has elapsed.
	ErrTokenExpired = errors.New("token has expired")
)

// IssueToken produces a signed JWT for the given subject (username) with the
// configured time-to-live. It returns the token string and its expiry time.
func IssueToken(subject, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// VerifyToken parses and validates a token string, returning the subject
// claim on success. jwt/v5 verifies the signature before validating claims,
// so a forged token is rejected without inspecting its expiry.
//
// Failures are wrapped in one of the sentinel errors above so the caller can
// classify them for logging.
func VerifyToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("%w: %v", ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %v", ErrTokenExpired, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return "", ErrTokenSignature
	}

	// A token without a subject carries no identity; treat it as malformed.
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject claim", ErrTokenMalformed)
	}

	return claims.Subject, nil
}
