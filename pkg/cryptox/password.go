package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for account passwords and for
// refresh tokens at rest. bcrypt's default of 10 keeps a verify around
// 50-100ms on current hardware, slow enough to blunt offline guessing.
const PasswordCost = bcrypt.DefaultCost

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword returns the bcrypt hash of a plaintext password. The salt is
// generated internally and encoded into the returned string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// Returns ErrPasswordMismatch when they do not match.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
	return nil
}
