package gateway

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned when a staff password cannot be stored.
var ErrInvalidPassword = errors.New("staff password must be 1 to 72 bytes")

// hashStaffPassword bcrypt-hashes a staff password. bcrypt reads at most 72
// bytes, so longer passwords are refused rather than truncated.
func hashStaffPassword(password string) (string, error) {
	if password == "" || len(password) > 72 {
		return "", ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
