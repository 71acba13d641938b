package repo

import (
	"context"
	"time"

	"github.com/aras72h/user-account-service/internal/domain/account/model"
	"github.com/google/uuid"
)

// AccountUpdate carries the mutable fields of an account; nil means leave as is.
type AccountUpdate struct {
	Email        *string
	PasswordHash *string
}

// AccountRepo is the credential store contract. All mutations are single-row
// and atomic at the storage layer.
type AccountRepo interface {
	CreateAccount(ctx context.Context, a model.Account) (uuid.UUID, error)

	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)

	GetAccountByID(ctx context.Context, id uuid.UUID) (model.Account, error)

	UpdateAccount(ctx context.Context, id uuid.UUID, upd AccountUpdate) (model.Account, error)

	// SetResetCredential stores the pending reset slot; nil clears it.
	// Any previously pending token is overwritten.
	SetResetCredential(ctx context.Context, id uuid.UUID, rc *model.ResetCredential) error

	// GetAccountByResetToken matches only a token that is still unexpired at now.
	GetAccountByResetToken(ctx context.Context, token string, now time.Time) (model.Account, error)

	// ConsumeResetToken replaces the password hash and clears the reset slot in
	// one atomic read-modify-write. It fails with ErrResetTokenInvalid unless
	// the token matches and is unexpired at now, so of two racing consumes at
	// most one can succeed.
	ConsumeResetToken(ctx context.Context, token, newHash string, now time.Time) (model.Account, error)

	DeleteAccount(ctx context.Context, id uuid.UUID) error
}
