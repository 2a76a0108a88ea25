package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is outside bcrypt's range.
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt. The random
// salt is embedded in every hash, so verification needs nothing else.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password. Passwords longer than 72
// bytes are rejected by bcrypt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
