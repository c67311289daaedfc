package password

import (
	"golang.org/x/crypto/bcrypt"
)

const hashCost = 10

// Hash derives a salted bcrypt hash from the plaintext password.
// The plaintext is never logged or returned alongside the error.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored hash. A mismatch is a
// normal negative result, not an error.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
