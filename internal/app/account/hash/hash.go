package hash

import (
	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the work factor the service has always used.
const DefaultCost = 10

// Hasher is the one-way password transform. Hash embeds a per-call random
// salt in the digest; Verify recomputes with that salt and compares in
// constant time. A mismatch is a false return, not an error.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
