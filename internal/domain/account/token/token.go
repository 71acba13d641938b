package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Issuer issues and verifies the signed session tokens that prove a recent
// successful authentication. Tokens terminate by expiry only; there is no
// revocation path.
type Issuer interface {
	Issue(accountID uuid.UUID, email string) (token string, exp time.Time, err error)
	Verify(raw string) (SessionClaims, error)
}
