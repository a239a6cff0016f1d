package auth

import (
	"errors"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// MinPasswordLength is the minimum accepted password length,
// enforced server-side during registration.
const MinPasswordLength = 6

// IsValidUsername checks if a username meets format requirements.
// Usernames must be 1-64 characters, alphanumeric with dots, hyphens, underscores.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// User is a persisted credential record: the identity fields plus the
// password hash. The hash is never serialised; everything else is the
// public user view that handlers may return to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"` // never serialised
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists with this email or username")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrTokenSignature     = errors.New("token signature mismatch")
)
