package service

import (
	"context"

	"github.com/aras72h/user-account-service/internal/adapters/transport/http/dto"
	"github.com/aras72h/user-account-service/internal/domain/account/model"
	"github.com/google/uuid"
)

// Sender dispatches a notification to an account holder. Delivery is the
// transport's problem; the service only guarantees dispatch.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service interface {
	Register(ctx context.Context, in dto.RegisterDTO) (model.Session, error)
	Login(ctx context.Context, in dto.LoginDTO) (model.Session, error)

	// Authenticate resolves a bearer token to the account it was issued for.
	Authenticate(ctx context.Context, raw string) (model.Account, error)

	Update(ctx context.Context, id uuid.UUID, in dto.UpdateAccountDTO) (model.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error

	RequestPasswordReset(ctx context.Context, in dto.ForgotPasswordDTO) error
	ValidateResetToken(ctx context.Context, token string) (model.Account, error)
	ResetPassword(ctx context.Context, in dto.ResetPasswordDTO) (model.Account, error)
}
