package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/middleware"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/validator"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type ProjectHandler struct {
	repo store.Repository
	log  *zap.Logger
}

func NewProjectHandler(repo store.Repository, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{repo: repo, log: log}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req api.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      model.ProjectOngoing,
		CreatedBy:   middleware.UserID(c),
	}
	if err := h.repo.Projects().Create(c.Request.Context(), project); err != nil {
		c.Error(api.InternalError("Failed to create project", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.repo.Projects().List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.Error(api.InternalError("Failed to list projects", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    len(projects),
	})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(api.BadRequestError("Invalid project id"))
		return
	}

	project, err := h.repo.Projects().GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api.NotFoundError("Project not found"))
			return
		}
		c.Error(api.InternalError("Failed to load project", err))
		return
	}

	members, err := h.repo.Projects().MembersOf(c.Request.Context(), id)
	if err != nil {
		c.Error(api.InternalError("Failed to load project members", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"members": members,
	})
}

func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(api.BadRequestError("Invalid project id"))
		return
	}

	var req api.UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if err := h.repo.Projects().UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api.NotFoundError("Project not found"))
			return
		}
		c.Error(api.InternalError("Failed to update project", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (h *ProjectHandler) AssignIntern(c *gin.Context) {
	var req api.AssignProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	assigned, err := h.repo.Projects().IsAssigned(c.Request.Context(), req.ProjectID, req.InternID)
	if err != nil {
		c.Error(api.InternalError("Failed to check assignment", err))
		return
	}
	if assigned {
		c.Error(api.ConflictError("Intern is already assigned to this project"))
		return
	}

	if err := h.repo.Projects().Assign(c.Request.Context(), req.ProjectID, req.InternID); err != nil {
		c.Error(api.InternalError("Failed to assign intern", err))
		return
	}

	h.log.Info("Intern assigned to project",
		zap.Int64("project_id", req.ProjectID),
		zap.Int64("intern_id", req.InternID),
	)
	c.JSON(http.StatusCreated, gin.H{"assigned": true})
}

func (h *ProjectHandler) RemoveIntern(c *gin.Context) {
	var req api.RemoveFromProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if err := h.repo.Projects().Unassign(c.Request.Context(), req.ProjectID, req.InternID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api.NotFoundError("Assignment not found"))
			return
		}
		c.Error(api.InternalError("Failed to remove intern", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}
