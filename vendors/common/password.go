package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultPasswordLength is the length of generated subscriber passwords.
const DefaultPasswordLength = 8

// PasswordAlphabet is the character set for generated passwords (A-Z, a-z, 0-9).
const PasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GeneratePassword returns length characters drawn uniformly from
// PasswordAlphabet using crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("password length must be at least 1, got %d", length)
	}
	size := big.NewInt(int64(len(PasswordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		buf[i] = PasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
