package v1

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/auth"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/otp"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/middleware"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/validator"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type AuthHandler struct {
	repo store.Repository
	auth *auth.Service
	otp  *otp.Service
	log  *zap.Logger
}

func NewAuthHandler(repo store.Repository, authSvc *auth.Service, otpSvc *otp.Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{repo: repo, auth: authSvc, otp: otpSvc, log: log}
}

// Signup self-registers an intern account. Supervisor and admin accounts
// are provisioned through the admin surface instead.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if existing, err := h.repo.Users().GetByEmail(c.Request.Context(), req.Email); err == nil && existing != nil {
		c.Error(api.ConflictError("An account with this email already exists"))
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		c.Error(api.InternalError("Failed to create account", err))
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleIntern,
	}
	if err := h.repo.Users().Create(c.Request.Context(), user); err != nil {
		c.Error(api.InternalError("Failed to create account", err))
		return
	}

	h.log.Info("Intern account created", zap.Int64("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and returns a signed access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	user, err := h.repo.Users().GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.Error(api.UnauthorizedError("Invalid email or password"))
		return
	}

	if err := h.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		c.Error(api.UnauthorizedError("Invalid email or password"))
		return
	}

	token, err := h.auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		c.Error(api.InternalError("Failed to issue token", err))
		return
	}

	_ = h.repo.Users().UpdateLastLogin(c.Request.Context(), user.ID)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.repo.Users().GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api.NotFoundError("User not found"))
			return
		}
		c.Error(api.InternalError("Failed to load profile", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SendOTP issues a password-reset code to a registered email. The reply
// is identical whether or not the email exists, to avoid account
// enumeration.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req api.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if _, err := h.repo.Users().GetByEmail(c.Request.Context(), req.Email); err == nil {
		if err := h.otp.Issue(c.Request.Context(), req.Email); err != nil {
			h.log.Error("OTP issue failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a code has been sent"})
}

// VerifyOTP checks a code without consuming it.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req api.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		c.Error(api.BadRequestError("Code invalid or expired"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ResetPassword consumes a valid code and sets a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req api.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	user, err := h.repo.Users().GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.Error(api.BadRequestError("Code invalid or expired"))
		return
	}

	if err := h.otp.Consume(c.Request.Context(), req.Email, req.OTP); err != nil {
		c.Error(api.BadRequestError("Code invalid or expired"))
		return
	}

	hash, err := h.auth.HashPassword(req.NewPassword)
	if err != nil {
		c.Error(api.InternalError("Failed to reset password", err))
		return
	}

	if err := h.repo.Users().UpdatePassword(c.Request.Context(), user.ID, hash); err != nil {
		c.Error(api.InternalError("Failed to reset password", err))
		return
	}

	h.log.Info("Password reset completed", zap.Int64("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
