package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/auth"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/validator"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type AdminHandler struct {
	repo store.Repository
	auth *auth.Service
	log  *zap.Logger
}

func NewAdminHandler(repo store.Repository, authSvc *auth.Service, log *zap.Logger) *AdminHandler {
	return &AdminHandler{repo: repo, auth: authSvc, log: log}
}

// CreateUser provisions an account with an explicit role.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req api.CreateUserRequest
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
		c.Error(api.InternalError("Failed to create user", err))
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.repo.Users().Create(c.Request.Context(), user); err != nil {
		c.Error(api.InternalError("Failed to create user", err))
		return
	}

	h.log.Info("User provisioned",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// ListUsers returns users, optionally filtered by role.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.repo.Users().ListByRole(c.Request.Context(), c.Query("role"))
	if err != nil {
		c.Error(api.InternalError("Failed to list users", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// GetUser returns a single user by id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(api.BadRequestError("Invalid user id"))
		return
	}

	user, err := h.repo.Users().GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api.NotFoundError("User not found"))
			return
		}
		c.Error(api.InternalError("Failed to load user", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes an account.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(api.BadRequestError("Invalid user id"))
		return
	}

	if err := h.repo.Users().Delete(c.Request.Context(), id); err != nil {
		c.Error(api.InternalError("Failed to delete user", err))
		return
	}

	h.log.Info("User deleted", zap.Int64("user_id", id))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
