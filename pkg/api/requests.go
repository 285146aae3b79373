package api

import (
	"fmt"
	"time"
)

// ReportType enumerates the supported report categories.
type ReportType string

const (
	ReportWeekly         ReportType = "weekly"
	ReportMonthly        ReportType = "monthly"
	ReportProjectSummary ReportType = "project_summary"
	ReportInternAnalysis ReportType = "intern_analysis"
)

// Valid reports whether t is one of the known report types.
func (t ReportType) Valid() bool {
	switch t {
	case ReportWeekly, ReportMonthly, ReportProjectSummary, ReportInternAnalysis:
		return true
	}
	return false
}

// DateRange bounds the logbook entries a report is generated from.
// Both dates are inclusive, formatted YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// IsZero reports whether no explicit bounds were supplied.
func (r *DateRange) IsZero() bool {
	return r == nil || (r.StartDate == "" && r.EndDate == "")
}

// Parse returns the bounds as times. An empty end date means "now".
func (r *DateRange) Parse() (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	if r.EndDate == "" {
		return from, time.Now().UTC(), nil
	}
	to, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date precedes start_date")
	}
	return from, to, nil
}

type GenerateReportRequest struct {
	Provider    string     `json:"provider" binding:"required"`
	InternID    int64      `json:"intern_id" binding:"required"`
	ProjectID   *int64     `json:"project_id,omitempty"`
	ReportType  ReportType `json:"report_type" binding:"required,oneof=weekly monthly project_summary intern_analysis"`
	DateRange   *DateRange `json:"date_range,omitempty"`
	UseFallback *bool      `json:"use_fallback,omitempty"` // nil means true
}

// FallbackAllowed resolves the optional flag; fallback defaults to on.
func (r *GenerateReportRequest) FallbackAllowed() bool {
	return r.UseFallback == nil || *r.UseFallback
}

type CostEstimateRequest struct {
	Provider   string     `json:"provider" binding:"required"`
	InternID   int64      `json:"intern_id" binding:"required"`
	ProjectID  *int64     `json:"project_id,omitempty"`
	ReportType ReportType `json:"report_type" binding:"required,oneof=weekly monthly project_summary intern_analysis"`
	DateRange  *DateRange `json:"date_range,omitempty"`
}

type FeedbackRequest struct {
	ReportID string `json:"report_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin supervisor intern"`
}

type CreateLogbookEntryRequest struct {
	ProjectID   int64   `json:"project_id" binding:"required"`
	EntryDate   string  `json:"entry_date" binding:"required"` // YYYY-MM-DD
	Description string  `json:"description" binding:"required"`
	HoursWorked float64 `json:"hours_worked" binding:"omitempty,min=0,max=24"`
	Blockers    string  `json:"blockers,omitempty"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ongoing completed on_hold"`
}

type AssignProjectRequest struct {
	InternID  int64 `json:"intern_id" binding:"required"`
	ProjectID int64 `json:"project_id" binding:"required"`
}

type RemoveFromProjectRequest struct {
	InternID  int64 `json:"intern_id" binding:"required"`
	ProjectID int64 `json:"project_id" binding:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
