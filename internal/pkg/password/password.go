package password

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const cost = 12

// Hash hashes a plaintext password with bcrypt. A value that is already a
// bcrypt hash is returned unchanged so that write-through of stored hashes
// stays idempotent.
func Hash(password string) (string, error) {
	if IsHashed(password) {
		return password, nil
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// IsHashed reports whether s looks like a bcrypt hash.
func IsHashed(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Verify compares a plaintext password with a stored hash.
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
