package security

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Same rule the signup form enforces: 8-20 chars from a restricted alphabet.
var passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*]+$`)

var ErrWeakPassword = errors.New("password must be 8-20 characters using letters, digits or !@#$%^&*")

func ValidatePassword(plain string) error {
	if len(plain) < 8 || len(plain) > 20 || !passwordPattern.MatchString(plain) {
		return ErrWeakPassword
	}

	return nil
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
