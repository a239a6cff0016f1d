package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session token lifetime used when no explicit
// TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims extends the registered JWT claims with the identity fields a
// session token carries. Subject holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// IssueToken creates a signed HS256 session token for a user. The token
// carries the user ID as subject plus username and email, and expires ttl
// after issuance (DefaultTokenTTL when ttl <= 0).
func IssueToken(user *User, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: user.Username,
		Email:    user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates and parses a session token.
//
// Claims are only returned when the signature verifies and the token has not
// expired. Failures map to distinguishable sentinels so callers can log the
// reason: ErrTokenExpired, ErrTokenSignature, ErrTokenMalformed — all of
// which also match ErrTokenInvalid via errors.Is.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return claims, nil
}

// classifyTokenError maps jwt parse failures onto the package sentinels.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w: %w", ErrTokenInvalid, ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w: %w", ErrTokenInvalid, ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w: %w", ErrTokenInvalid, ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}
