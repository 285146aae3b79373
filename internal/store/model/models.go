package model

import (
	"database/sql"
	"time"
)

// Role values stored on User.Role.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleIntern     = "intern"
)

// Project lifecycle states.
const (
	ProjectOngoing   = "ongoing"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on_hold"
)

// Report lifecycle states.
const (
	ReportActive   = "active"
	ReportArchived = "archived"
)

type User struct {
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Email        string       `db:"email" json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Role         string       `db:"role" json:"role"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	LastLoginAt  sql.NullTime `db:"last_login_at" json:"last_login_at,omitempty"`
}

type Project struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ProjectAssignment struct {
	ID         int64     `db:"id" json:"id"`
	ProjectID  int64     `db:"project_id" json:"project_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}

// LogbookEntry is one intern's record for one working day. The UNIQUE
// (user_id, entry_date) constraint keeps it to one entry per day.
type LogbookEntry struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	ProjectID   int64     `db:"project_id" json:"project_id"`
	EntryDate   time.Time `db:"entry_date" json:"entry_date"`
	Description string    `db:"description" json:"description"`
	HoursWorked float64   `db:"hours_worked" json:"hours_worked"`
	Blockers    string    `db:"blockers" json:"blockers"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AIReport is a persisted generation result. Content and Metadata hold
// JSON blobs; callers decode them into pkg/api types.
type AIReport struct {
	ID               int64          `db:"id" json:"id"`
	ReportID         string         `db:"report_id" json:"report_id"`
	InternID         sql.NullInt64  `db:"intern_id" json:"intern_id,omitempty"`
	ProjectID        sql.NullInt64  `db:"project_id" json:"project_id,omitempty"`
	ReportType       string         `db:"report_type" json:"report_type"`
	ProviderUsed     string         `db:"provider_used" json:"provider_used"`
	ModelUsed        string         `db:"model_used" json:"model_used"`
	FallbackUsed     bool           `db:"fallback_used" json:"fallback_used"`
	OriginalProvider sql.NullString `db:"original_provider" json:"original_provider,omitempty"`
	Content          string         `db:"content" json:"content"`
	Metadata         string         `db:"metadata" json:"metadata"`
	IdempotencyKey   string         `db:"idempotency_key" json:"idempotency_key"`
	Status           string         `db:"status" json:"status"`
	GeneratedBy      int64          `db:"generated_by" json:"generated_by"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

type ReportFeedback struct {
	ID        int64     `db:"id" json:"id"`
	ReportID  string    `db:"report_id" json:"report_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GenerationLog is an analytics row recorded for every generation
// attempt, successful or not. Written by the batching ingestor.
type GenerationLog struct {
	ID           int64     `db:"id" json:"id"`
	ReportID     string    `db:"report_id" json:"report_id"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	ReportType   string    `db:"report_type" json:"report_type"`
	FallbackUsed bool      `db:"fallback_used" json:"fallback_used"`
	InputTokens  int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens int       `db:"output_tokens" json:"output_tokens"`
	DurationMS   int64     `db:"duration_ms" json:"duration_ms"`
	Success      bool      `db:"success" json:"success"`
	ErrorText    string    `db:"error_text" json:"error_text"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
