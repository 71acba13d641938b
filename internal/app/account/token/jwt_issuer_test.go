package token

import (
	"testing"
	"time"

	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	"github.com/aras72h/user-account-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTIssuer:       "test",
		SessionTokenTTL: time.Minute,
	}
}

func TestJWTIssuer_IssueVerify(t *testing.T) {
	iss, err := NewJWTIssuer(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.New()
	tok, exp, err := iss.Issue(id, "a@b.com")
	if err != nil || tok == "" || exp.IsZero() {
		t.Fatalf("bad issue: %v", err)
	}
	claims, err := iss.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != id.String() {
		t.Fatalf("subject want %s got %s", id, claims.Subject)
	}
	if claims.Email != "a@b.com" {
		t.Fatalf("email want a@b.com got %s", claims.Email)
	}
}

func TestJWTIssuer_EmptySecret(t *testing.T) {
	if _, err := NewJWTIssuer(&config.Config{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTokenTTL = -time.Minute
	iss, _ := NewJWTIssuer(cfg)

	tok, _, err := iss.Issue(uuid.New(), "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	_, err = iss.Verify(tok)
	if !customErrors.IsTokenExpired(err) {
		t.Fatalf("want expired, got %v", err)
	}
}

func TestJWTIssuer_Tampered(t *testing.T) {
	iss, _ := NewJWTIssuer(testConfig())
	tok, _, _ := iss.Issue(uuid.New(), "a@b.com")

	raw := []byte(tok)
	i := len(raw) - 10
	if raw[i] == 'A' {
		raw[i] = 'B'
	} else {
		raw[i] = 'A'
	}
	_, err := iss.Verify(string(raw))
	if !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid, got %v", err)
	}
}

func TestJWTIssuer_WrongKey(t *testing.T) {
	iss, _ := NewJWTIssuer(testConfig())
	other, _ := NewJWTIssuer(&config.Config{JWTSecret: "other-secret", JWTIssuer: "test", SessionTokenTTL: time.Minute})

	tok, _, _ := other.Issue(uuid.New(), "a@b.com")
	if _, err := iss.Verify(tok); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid, got %v", err)
	}
}

func TestJWTIssuer_WrongIssuer(t *testing.T) {
	iss, _ := NewJWTIssuer(testConfig())
	other, _ := NewJWTIssuer(&config.Config{JWTSecret: "test-secret", JWTIssuer: "someone-else", SessionTokenTTL: time.Minute})

	tok, _, _ := other.Issue(uuid.New(), "a@b.com")
	if _, err := iss.Verify(tok); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid, got %v", err)
	}
}

func TestJWTIssuer_InvalidAlg(t *testing.T) {
	iss, _ := NewJWTIssuer(testConfig())
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := iss.Verify(tok); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid, got %v", err)
	}
}

func TestJWTIssuer_Malformed(t *testing.T) {
	iss, _ := NewJWTIssuer(testConfig())
	if _, err := iss.Verify("not-a-token"); !customErrors.IsInvalidToken(err) {
		t.Fatalf("want invalid, got %v", err)
	}
}
