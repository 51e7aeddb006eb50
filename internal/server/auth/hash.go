package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlevkov/authd/internal/common"
)

// hashPassword computes a salted bcrypt digest of password. The salt is
// generated per call, so two digests of the same password never match.
func hashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", common.ErrInvalidInput
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashingFailure, err)
	}
	return string(digest), nil
}

// checkPassword reports whether password matches the stored bcrypt digest.
func checkPassword(hashedPassword string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
