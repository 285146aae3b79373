package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/report"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/middleware"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/server/validator"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type ReportHandler struct {
	service *report.Service
}

func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// GenerateReport runs the full generation flow. A response with
// success=false means every provider attempt failed; the HTTP status is
// still 200 because the request itself was processed.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req api.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EstimateCost prices a prospective generation without calling any
// provider.
func (h *ReportHandler) EstimateCost(c *gin.Context) {
	var req api.CostEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	estimate, err := h.service.Estimate(c.Request.Context(), &req)
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// History lists stored reports, filterable by intern, project, type,
// provider, and status.
func (h *ReportHandler) History(c *gin.Context) {
	filter := store.ReportFilter{
		ReportType: c.Query("report_type"),
		Provider:   c.Query("provider"),
		Status:     c.Query("status"),
	}
	filter.InternID, _ = strconv.ParseInt(c.Query("intern_id"), 10, 64)
	filter.ProjectID, _ = strconv.ParseInt(c.Query("project_id"), 10, 64)
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, pagination, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		c.Error(api.InternalError("Failed to load report history", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":    reports,
		"pagination": pagination,
	})
}

// GetReport returns one stored report by its public identifier.
func (h *ReportHandler) GetReport(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ArchiveReport transitions a report from active to archived.
func (h *ReportHandler) ArchiveReport(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), c.Param("id")); err != nil {
		h.reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": true})
}

// SubmitFeedback records a rating for a generated report.
func (h *ReportHandler) SubmitFeedback(c *gin.Context) {
	var req api.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	if err := h.service.Feedback(c.Request.Context(), middleware.UserID(c), &req); err != nil {
		h.reportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recorded": true})
}

func (h *ReportHandler) reportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrUnknownProvider),
		errors.Is(err, report.ErrInvalidReportType),
		errors.Is(err, report.ErrInvalidDateRange):
		c.Error(api.BadRequestError(err.Error()))
	case errors.Is(err, report.ErrInternNotFound),
		errors.Is(err, report.ErrReportNotFound):
		c.Error(api.NotFoundError(err.Error()))
	default:
		c.Error(api.InternalError("Report operation failed", err))
	}
}
