package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/aras72h/user-account-service/internal/domain/account/errors"
	"github.com/aras72h/user-account-service/internal/domain/account/model"
	"github.com/aras72h/user-account-service/internal/domain/account/repo"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&accountRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, r *PostgresAccountRepo, email string) model.Account {
	t.Helper()
	a := model.Account{ID: uuid.New(), Email: email, PasswordHash: "h", CreatedAt: time.Now()}
	if _, err := r.CreateAccount(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

func TestPostgresAccountRepo_CRUD(t *testing.T) {
	r := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	a := seed(t, r, "e@e")
	got, err := r.GetAccountByEmail(ctx, "e@e")
	if err != nil || got.ID != a.ID {
		t.Fatalf("get by email: %v", err)
	}
	got2, err := r.GetAccountByID(ctx, a.ID)
	if err != nil || got2.Email != a.Email {
		t.Fatalf("get by id: %v", err)
	}

	newEmail := "new@e"
	newHash := "h2"
	upd, err := r.UpdateAccount(ctx, a.ID, repo.AccountUpdate{Email: &newEmail, PasswordHash: &newHash})
	if err != nil || upd.Email != "new@e" || upd.PasswordHash != "h2" {
		t.Fatalf("update: %v %+v", err, upd)
	}

	if err := r.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.GetAccountByID(ctx, a.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := r.DeleteAccount(ctx, a.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPostgresAccountRepo_UpdateUnknown(t *testing.T) {
	r := NewPostgresAccountRepo(setupDB(t))
	email := "x@e"
	if _, err := r.UpdateAccount(context.Background(), uuid.New(), repo.AccountUpdate{Email: &email}); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresAccountRepo_ResetCredential(t *testing.T) {
	r := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	a := seed(t, r, "reset@e")
	rc := &model.ResetCredential{Token: "tok-1", ExpiresAt: now.Add(time.Hour)}
	if err := r.SetResetCredential(ctx, a.ID, rc); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := r.GetAccountByResetToken(ctx, "tok-1", now)
	if err != nil || got.ID != a.ID {
		t.Fatalf("get by token: %v", err)
	}
	if got.Reset == nil || got.Reset.Token != "tok-1" {
		t.Fatalf("reset slot not mapped: %+v", got.Reset)
	}

	// expired token behaves as absent
	if _, err := r.GetAccountByResetToken(ctx, "tok-1", now.Add(2*time.Hour)); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for expired token, got %v", err)
	}

	// clearing the slot removes the match
	if err := r.SetResetCredential(ctx, a.ID, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := r.GetAccountByResetToken(ctx, "tok-1", now); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
}

func TestPostgresAccountRepo_ConsumeResetToken(t *testing.T) {
	r := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	a := seed(t, r, "consume@e")
	rc := &model.ResetCredential{Token: "tok-2", ExpiresAt: now.Add(time.Hour)}
	if err := r.SetResetCredential(ctx, a.ID, rc); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := r.ConsumeResetToken(ctx, "tok-2", "new-hash", now)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if got.PasswordHash != "new-hash" || got.Reset != nil {
		t.Fatalf("consume did not swap hash and clear slot: %+v", got)
	}

	if _, err := r.ConsumeResetToken(ctx, "tok-2", "other", now); !errors.IsResetTokenInvalid(err) {
		t.Fatalf("expected invalid on second consume, got %v", err)
	}
}

func TestPostgresAccountRepo_ConsumeExpired(t *testing.T) {
	r := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	a := seed(t, r, "stale@e")
	rc := &model.ResetCredential{Token: "tok-3", ExpiresAt: now.Add(-time.Minute)}
	if err := r.SetResetCredential(ctx, a.ID, rc); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := r.ConsumeResetToken(ctx, "tok-3", "h", now); !errors.IsResetTokenInvalid(err) {
		t.Fatalf("expected invalid for expired token, got %v", err)
	}
	// failed consume must leave the account untouched
	got, err := r.GetAccountByID(ctx, a.ID)
	if err != nil || got.PasswordHash != "h" {
		t.Fatalf("state changed on failed consume: %v %+v", err, got)
	}
}
