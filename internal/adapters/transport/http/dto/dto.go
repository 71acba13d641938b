package dto

import (
	"time"

	"github.com/aras72h/user-account-service/internal/domain/account/model"
)

type RegisterDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAccountDTO struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,strongpwd"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,strongpwd"`
}

// AccountResponse is the outward shape of an account; the password hash never
// leaves the service.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewSessionResponse(s model.Session) SessionResponse {
	return SessionResponse{
		Token:     s.Token,
		ExpiresIn: int(time.Until(s.ExpiresAt).Seconds()),
	}
}
