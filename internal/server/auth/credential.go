package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCredential returns the bcrypt hash stored in users.credential.
func HashCredential(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(b), nil
}

// CheckCredential reports whether plain matches the stored hash.
func CheckCredential(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
