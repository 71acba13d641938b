package postgres

import (
	"context"
	"errors"
	"time"

	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	"github.com/aras72h/user-account-service/internal/domain/account/model"
	"github.com/aras72h/user-account-service/internal/domain/account/repo"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// accountRow is the storage shape of an account. The domain's optional reset
// credential maps onto the two nullable columns; the row type is the only
// place that split exists.
type accountRow struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email               string    `gorm:"uniqueIndex;not null"`
	PasswordHash        string    `gorm:"not null"`
	ResetToken          *string   `gorm:"index"`
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (accountRow) TableName() string { return "accounts" }

func toRow(a model.Account) accountRow {
	row := accountRow{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Reset != nil {
		token := a.Reset.Token
		exp := a.Reset.ExpiresAt
		row.ResetToken = &token
		row.ResetTokenExpiresAt = &exp
	}
	return row
}

func (r accountRow) toModel() model.Account {
	a := model.Account{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ResetToken != nil && r.ResetTokenExpiresAt != nil {
		a.Reset = &model.ResetCredential{Token: *r.ResetToken, ExpiresAt: *r.ResetTokenExpiresAt}
	}
	return a
}

type PostgresAccountRepo struct {
	db *gorm.DB
}

var _ repo.AccountRepo = (*PostgresAccountRepo)(nil)

func NewPostgresAccountRepo(db *gorm.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

func (p *PostgresAccountRepo) CreateAccount(ctx context.Context, a model.Account) (uuid.UUID, error) {
	row := toRow(a)
	res := p.db.WithContext(ctx).Create(&row)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateAccount")
	}
	return row.ID, nil
}

func (p *PostgresAccountRepo) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	var row accountRow
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "GetAccountByEmail")
	}
	return row.toModel(), nil
}

func (p *PostgresAccountRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	var row accountRow
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "GetAccountByID")
	}
	return row.toModel(), nil
}

func (p *PostgresAccountRepo) UpdateAccount(ctx context.Context, id uuid.UUID, upd repo.AccountUpdate) (model.Account, error) {
	var row accountRow
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customErrors.ErrNotFound
			}
			return customErrors.WrapInternal(err, "UpdateAccount")
		}

		updates := map[string]interface{}{}
		if upd.Email != nil {
			updates["email"] = *upd.Email
		}
		if upd.PasswordHash != nil {
			updates["password_hash"] = *upd.PasswordHash
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return customErrors.ErrAlreadyExists
			}
			return customErrors.WrapInternal(err, "UpdateAccount")
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return model.Account{}, err
	}
	return row.toModel(), nil
}

func (p *PostgresAccountRepo) SetResetCredential(ctx context.Context, id uuid.UUID, rc *model.ResetCredential) error {
	updates := map[string]interface{}{
		"reset_token":            nil,
		"reset_token_expires_at": nil,
	}
	if rc != nil {
		updates["reset_token"] = rc.Token
		updates["reset_token_expires_at"] = rc.ExpiresAt
	}

	res := p.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", id).Updates(updates)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "SetResetCredential")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresAccountRepo) GetAccountByResetToken(ctx context.Context, token string, now time.Time) (model.Account, error) {
	var row accountRow
	res := p.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expires_at > ?", token, now).
		First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "GetAccountByResetToken")
	}
	return row.toModel(), nil
}

func (p *PostgresAccountRepo) ConsumeResetToken(ctx context.Context, token, newHash string, now time.Time) (model.Account, error) {
	var row accountRow
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reset_token = ? AND reset_token_expires_at > ?", token, now).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customErrors.ErrResetTokenInvalid
			}
			return customErrors.WrapInternal(err, "ConsumeResetToken")
		}

		// Guarded write: the token must still match when we clear it, so a
		// concurrent consume of the same token cannot also win.
		res := tx.Model(&accountRow{}).
			Where("id = ? AND reset_token = ?", row.ID, token).
			Updates(map[string]interface{}{
				"password_hash":          newHash,
				"reset_token":            nil,
				"reset_token_expires_at": nil,
			})
		if err := res.Error; err != nil {
			return customErrors.WrapInternal(err, "ConsumeResetToken")
		}
		if res.RowsAffected == 0 {
			return customErrors.ErrResetTokenInvalid
		}

		return tx.Where("id = ?", row.ID).First(&row).Error
	})
	if err != nil {
		return model.Account{}, err
	}
	return row.toModel(), nil
}

func (p *PostgresAccountRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&accountRow{}, "id = ?", id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteAccount")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
