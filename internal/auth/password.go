package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor for password hashing.
// 2^10 rounds keeps verification around tens of milliseconds.
const bcryptCost = 10

// HashPassword hashes a plaintext password using bcrypt. The salt and cost
// are embedded in the returned digest, so hashing the same password twice
// yields different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a bcrypt digest using
// bcrypt's constant-time comparison. A wrong password and a malformed digest
// both report false; neither is an error condition for callers.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
