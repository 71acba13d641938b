package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aras72h/user-account-service/internal/adapters/transport/http/dto"
	"github.com/aras72h/user-account-service/internal/app/account/hash"
	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	"github.com/aras72h/user-account-service/internal/domain/account/model"
	"github.com/aras72h/user-account-service/internal/domain/account/repo"
	"github.com/aras72h/user-account-service/internal/domain/account/token"
	"github.com/aras72h/user-account-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resetTokenBytes = 32

type accountService struct {
	accountRepo repo.AccountRepo
	hasher      hash.Hasher
	issuer      token.Issuer
	sender      Sender
	cfg         *config.Config
	v           *validator.Validate
	log         *zap.Logger
}

func New(
	ar repo.AccountRepo,
	h hash.Hasher,
	iss token.Issuer,
	s Sender,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &accountService{
		accountRepo: ar, hasher: h, issuer: iss, sender: s, cfg: cfg, v: v, log: log,
	}
}

func (a *accountService) Register(ctx context.Context, in dto.RegisterDTO) (model.Session, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "Register")
	}

	account := model.Account{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: passwordHash,
	}
	if _, err = a.accountRepo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Session{}, customErrors.ErrAlreadyExists
		}
		return model.Session{}, customErrors.WrapInternal(err, "Register")
	}

	return a.issueSession(account)
}

func (a *accountService) Login(ctx context.Context, in dto.LoginDTO) (model.Session, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	account, err := a.accountRepo.GetAccountByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// Same failure as a wrong password, so the response never confirms
		// whether the email is registered.
		return model.Session{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.Session{}, customErrors.WrapInternal(err, "Login")
	}

	if !a.hasher.Verify(in.Password, account.PasswordHash) {
		return model.Session{}, customErrors.ErrInvalidCredentials
	}

	return a.issueSession(account)
}

func (a *accountService) Authenticate(ctx context.Context, raw string) (model.Account, error) {
	if raw == "" {
		return model.Account{}, customErrors.ErrMissingToken
	}

	claims, err := a.issuer.Verify(raw)
	if err != nil {
		return model.Account{}, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Account{}, customErrors.ErrInvalidToken
	}

	account, err := a.accountRepo.GetAccountByID(ctx, id)
	if err != nil {
		return model.Account{}, customErrors.ErrInvalidToken
	}
	return account, nil
}

func (a *accountService) Update(ctx context.Context, id uuid.UUID, in dto.UpdateAccountDTO) (model.Account, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Account{}, customErrors.NewInvalidArgument(err.Error())
	}
	if in.Email == "" && in.Password == "" {
		return model.Account{}, customErrors.NewInvalidArgument("no fields provided for update")
	}

	var upd repo.AccountUpdate
	if in.Email != "" {
		upd.Email = &in.Email
	}
	if in.Password != "" {
		passwordHash, err := a.hasher.Hash(in.Password)
		if err != nil {
			return model.Account{}, customErrors.WrapInternal(err, "Update")
		}
		upd.PasswordHash = &passwordHash
	}

	account, err := a.accountRepo.UpdateAccount(ctx, id, upd)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Account{}, customErrors.ErrNotFound
	case errors.Is(err, customErrors.ErrAlreadyExists):
		return model.Account{}, customErrors.ErrAlreadyExists
	case err != nil:
		return model.Account{}, customErrors.WrapInternal(err, "Update")
	}
	return account, nil
}

func (a *accountService) Delete(ctx context.Context, id uuid.UUID) error {
	err := a.accountRepo.DeleteAccount(ctx, id)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "Delete")
	}
	return nil
}

func (a *accountService) RequestPasswordReset(ctx context.Context, in dto.ForgotPasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	account, err := a.accountRepo.GetAccountByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	resetToken, err := newResetToken()
	if err != nil {
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	// A new request replaces any token still pending; only one reset may be
	// outstanding per account.
	rc := &model.ResetCredential{
		Token:     resetToken,
		ExpiresAt: time.Now().Add(a.cfg.ResetTokenTTL),
	}
	if err := a.accountRepo.SetResetCredential(ctx, account.ID, rc); err != nil {
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	subject := "Password reset"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Follow this link to choose a new password: %s\n\n"+
			"The link expires in %s. If you did not request a reset, ignore this message.",
		a.resetURL(resetToken), a.cfg.ResetTokenTTL,
	)
	if err := a.sender.Send(ctx, account.Email, subject, body); err != nil {
		// Dispatch is best effort; the token is stored either way.
		a.log.Error("send reset mail", zap.Error(err))
	}
	return nil
}

func (a *accountService) ValidateResetToken(ctx context.Context, resetToken string) (model.Account, error) {
	if resetToken == "" {
		return model.Account{}, customErrors.ErrResetTokenInvalid
	}

	account, err := a.accountRepo.GetAccountByResetToken(ctx, resetToken, time.Now())
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Account{}, customErrors.ErrResetTokenInvalid
	case err != nil:
		return model.Account{}, customErrors.WrapInternal(err, "ValidateResetToken")
	}
	return account, nil
}

func (a *accountService) ResetPassword(ctx context.Context, in dto.ResetPasswordDTO) (model.Account, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Account{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "ResetPassword")
	}

	account, err := a.accountRepo.ConsumeResetToken(ctx, in.Token, passwordHash, time.Now())
	switch {
	case errors.Is(err, customErrors.ErrResetTokenInvalid):
		return model.Account{}, customErrors.ErrResetTokenInvalid
	case err != nil:
		return model.Account{}, customErrors.WrapInternal(err, "ResetPassword")
	}
	return account, nil
}

func (a *accountService) issueSession(account model.Account) (model.Session, error) {
	signed, exp, err := a.issuer.Issue(account.ID, account.Email)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "issue session token")
	}
	return model.Session{Token: signed, ExpiresAt: exp, AccountID: account.ID}, nil
}

func (a *accountService) resetURL(resetToken string) string {
	return strings.TrimRight(a.cfg.AppBaseURL, "/") + "/reset-password?token=" + resetToken
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
