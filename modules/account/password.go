package account

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for stored credentials. 12 keeps a single
// hash around a quarter second on current hardware.
const bcryptCost = 12

// PasswordHasher hashes and verifies account passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher at the production work factor.
func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithCost(bcryptCost)
}

// NewPasswordHasherWithCost creates a PasswordHasher with an explicit work
// factor, clamped to bcrypt's supported range. Tests use the minimum cost to
// keep hashing fast.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted bcrypt hash for the password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the password matches the stored hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
