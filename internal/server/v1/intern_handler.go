package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/middleware"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/validator"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type InternHandler struct {
	repo store.Repository
	log  *zap.Logger
}

func NewInternHandler(repo store.Repository, log *zap.Logger) *InternHandler {
	return &InternHandler{repo: repo, log: log}
}

// CreateLogbookEntry records the intern's daily entry. One entry per day
// is enforced at the schema level.
func (h *InternHandler) CreateLogbookEntry(c *gin.Context) {
	var req api.CreateLogbookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		c.Error(api.BadRequestError("entry_date must be formatted YYYY-MM-DD"))
		return
	}

	userID := middleware.UserID(c)

	assigned, err := h.repo.Projects().IsAssigned(c.Request.Context(), req.ProjectID, userID)
	if err != nil {
		c.Error(api.InternalError("Failed to check project assignment", err))
		return
	}
	if !assigned {
		c.Error(api.ForbiddenError("You are not assigned to this project"))
		return
	}

	exists, err := h.repo.Logbook().HasEntryOn(c.Request.Context(), userID, entryDate)
	if err != nil {
		c.Error(api.InternalError("Failed to check existing entries", err))
		return
	}
	if exists {
		c.Error(api.ConflictError("An entry already exists for this date"))
		return
	}

	entry := &model.LogbookEntry{
		UserID:      userID,
		ProjectID:   req.ProjectID,
		EntryDate:   entryDate,
		Description: req.Description,
		HoursWorked: req.HoursWorked,
		Blockers:    req.Blockers,
	}
	if err := h.repo.Logbook().Create(c.Request.Context(), entry); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.Error(api.ConflictError("An entry already exists for this date"))
			return
		}
		c.Error(api.InternalError("Failed to save logbook entry", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// ListLogbookEntries returns the caller's entries in a date range,
// defaulting to the trailing 30 days.
func (h *InternHandler) ListLogbookEntries(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.Error(api.BadRequestError("start_date must be formatted YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.Error(api.BadRequestError("end_date must be formatted YYYY-MM-DD"))
			return
		}
		to = parsed
	}

	entries, err := h.repo.Logbook().ForInternInRange(c.Request.Context(), middleware.UserID(c), from, to)
	if err != nil {
		c.Error(api.InternalError("Failed to load logbook entries", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// MyProjects lists the projects the caller is assigned to.
func (h *InternHandler) MyProjects(c *gin.Context) {
	projects, err := h.repo.Projects().ProjectsFor(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(api.InternalError("Failed to load projects", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    len(projects),
	})
}
