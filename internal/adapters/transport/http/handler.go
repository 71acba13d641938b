package http

import (
	"net/http"
	"time"

	"github.com/aras72h/user-account-service/internal/adapters/transport/http/dto"
	"github.com/aras72h/user-account-service/internal/adapters/transport/http/middleware"
	"github.com/aras72h/user-account-service/internal/app/account/service"
	customErrors "github.com/aras72h/user-account-service/internal/domain/account/errors"
	"github.com/aras72h/user-account-service/internal/domain/account/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc service.Service
	log *zap.Logger
}

func NewHandler(svc service.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes wires the public and the token-guarded route groups.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/forgot-password", h.forgotPassword)
	auth.POST("/reset-password", h.resetPassword)
	auth.GET("/reset-password", h.verifyResetToken)

	users := r.Group("/api/users", middleware.Auth(h.svc))
	users.GET("/me", h.me)
	users.PUT("", h.update)
	users.DELETE("", h.remove)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sess, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSessionResponse(sess))
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(sess))
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var body dto.ForgotPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reset link sent to your email"})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var body dto.ResetPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if _, err := h.svc.ResetPassword(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

// verifyResetToken lets the reset page check a link before showing the form.
// It never consumes the token.
func (h *Handler) verifyResetToken(c *gin.Context) {
	resetToken := c.Query("token")

	if _, err := h.svc.ValidateResetToken(c.Request.Context(), resetToken); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "token": resetToken})
}

func (h *Handler) me(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewAccountResponse(account)})
}

func (h *Handler) update(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
		return
	}

	var body dto.UpdateAccountDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), account.ID, body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewAccountResponse(updated)})
}

func (h *Handler) remove(c *gin.Context) {
	account, ok := accountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), account.ID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// handleError is the single point where service errors become responses.
// Anything outside the known taxonomy is a 500 with a generic message.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
	case customErrors.IsResetTokenInvalid(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case customErrors.IsMissingToken(err), customErrors.IsTokenExpired(err), customErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
	default:
		h.log.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func accountFromContext(c *gin.Context) (model.Account, bool) {
	v, ok := c.Get(middleware.ContextAccountKey)
	if !ok {
		return model.Account{}, false
	}
	account, ok := v.(model.Account)
	return account, ok
}
