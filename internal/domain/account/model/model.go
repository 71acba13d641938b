package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is the persisted identity record. PasswordHash always holds the hash
// of the current password; it is never exposed past the transport boundary.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Reset        *ResetCredential
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResetCredential is the outstanding password-reset slot of an account.
// Token and ExpiresAt are always set and cleared together; a nil
// *ResetCredential means no reset is pending.
type ResetCredential struct {
	Token     string
	ExpiresAt time.Time
}

func (r *ResetCredential) Expired(now time.Time) bool {
	return r == nil || !now.Before(r.ExpiresAt)
}

// Session is what register and login hand back to the caller.
type Session struct {
	Token     string
	ExpiresAt time.Time
	AccountID uuid.UUID
}
