// Package utils holds small shared helpers.
package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain password with bcrypt. Used by deploy tooling to
// produce the DASHBOARD_PASSWORD_HASH value.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether plain matches the bcrypt hash.
func CheckPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
