package token

import (
	"errors"
	"time"

	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	domaintoken "github.com/aras72h/user-account-service/internal/domain/account/token"
	"github.com/aras72h/user-account-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTIssuer signs session tokens with the process-wide HMAC secret supplied
// through configuration at startup.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewJWTIssuer(cfg *config.Config) (*JWTIssuer, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty signing secret"), "NewJWTIssuer")
	}
	ttl := cfg.SessionTokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &JWTIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		issuer: cfg.JWTIssuer,
	}, nil
}

func (j *JWTIssuer) Issue(accountID uuid.UUID, email string) (string, time.Time, error) {
	now := time.Now()

	claims := domaintoken.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			ID:        uuid.NewString(),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign session token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JWTIssuer) Verify(raw string) (domaintoken.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &domaintoken.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.secret, nil
	}, jwt.WithIssuedAt())

	if err != nil {
		// An expired token is the one failure the caller may distinguish;
		// everything else collapses into invalid.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domaintoken.SessionClaims{}, customErrors.ErrTokenExpired
		}
		return domaintoken.SessionClaims{}, customErrors.ErrInvalidToken
	}
	if !parsed.Valid {
		return domaintoken.SessionClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*domaintoken.SessionClaims)
	if !ok {
		return domaintoken.SessionClaims{}, customErrors.ErrInvalidToken
	}

	if j.issuer != "" && claims.Issuer != j.issuer {
		return domaintoken.SessionClaims{}, customErrors.ErrInvalidToken
	}

	return *claims, nil
}
