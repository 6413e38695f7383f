package service

import (
	"fmt"

	"github.com/dom/social-network-website/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// hashPassword produces a bcrypt digest. The salt is generated internally
// and embedded in the digest. An empty or too-short plaintext is rejected
// outright rather than hashed, so no stored digest can ever match one.
func hashPassword(plain string) (string, error) {
	if len(plain) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// verifyPassword compares a plaintext attempt against a stored digest.
// bcrypt's comparison does not short-circuit on the first differing byte.
func verifyPassword(plain, digest string) bool {
	if plain == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
