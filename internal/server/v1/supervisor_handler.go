package v1

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// SupervisorHandler covers intern oversight: rosters and logbook review.
type SupervisorHandler struct {
	repo store.Repository
	log  *zap.Logger
}

func NewSupervisorHandler(repo store.Repository, log *zap.Logger) *SupervisorHandler {
	return &SupervisorHandler{repo: repo, log: log}
}

// ListInterns returns every intern together with their project assignments.
func (h *SupervisorHandler) ListInterns(c *gin.Context) {
	interns, err := h.repo.Users().ListByRole(c.Request.Context(), model.RoleIntern)
	if err != nil {
		c.Error(api.InternalError("Failed to load interns", err))
		return
	}

	type internSummary struct {
		model.User
		Projects []model.Project `json:"projects"`
	}

	out := make([]internSummary, 0, len(interns))
	for _, intern := range interns {
		projects, err := h.repo.Projects().ProjectsFor(c.Request.Context(), intern.ID)
		if err != nil {
			c.Error(api.InternalError("Failed to load intern projects", err))
			return
		}
		if projects == nil {
			projects = []model.Project{}
		}
		out = append(out, internSummary{User: intern, Projects: projects})
	}

	c.JSON(http.StatusOK, gin.H{
		"interns": out,
		"total":   len(out),
	})
}

// InternLogbook returns one intern's entries in a date range, defaulting
// to the trailing 30 days.
func (h *SupervisorHandler) InternLogbook(c *gin.Context) {
	internID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(api.BadRequestError("Intern id must be numeric"))
		return
	}

	if _, err := h.repo.Users().GetByID(c.Request.Context(), internID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(api.NotFoundError("Intern not found"))
			return
		}
		c.Error(api.InternalError("Failed to load intern", err))
		return
	}

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

	entries, err := h.repo.Logbook().ForInternInRange(c.Request.Context(), internID, from, to)
	if err != nil {
		c.Error(api.InternalError("Failed to load logbook entries", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intern_id": internID,
		"entries":   entries,
		"total":     len(entries),
	})
}
