package store

import (
	"context"
	"time"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
)

// ReportFilter narrows a history query. Zero values mean "no filter".
type ReportFilter struct {
	InternID   int64
	ProjectID  int64
	ReportType string
	Provider   string
	Status     string
	Limit      int
	Offset     int
}

// Repository is the main contract for the data layer.
type Repository interface {
	Users() UserRepository
	Projects() ProjectRepository
	Logbook() LogbookRepository
	Reports() ReportRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListByRole returns users with the given role, or all users when
	// role is empty.
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context, status string) ([]model.Project, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Assign(ctx context.Context, projectID, userID int64) error
	Unassign(ctx context.Context, projectID, userID int64) error
	// MembersOf returns the users assigned to a project.
	MembersOf(ctx context.Context, projectID int64) ([]model.User, error)
	// ProjectsFor returns the projects a user is assigned to.
	ProjectsFor(ctx context.Context, userID int64) ([]model.Project, error)
	IsAssigned(ctx context.Context, projectID, userID int64) (bool, error)
}

type LogbookRepository interface {
	// Create inserts a daily entry. The one-entry-per-day constraint is
	// enforced by the schema; violations surface as errors.
	Create(ctx context.Context, entry *model.LogbookEntry) error
	// ForInternInRange returns an intern's entries in [from, to],
	// oldest first.
	ForInternInRange(ctx context.Context, internID int64, from, to time.Time) ([]model.LogbookEntry, error)
	// ForProjectInRange returns all entries on a project in [from, to],
	// oldest first.
	ForProjectInRange(ctx context.Context, projectID int64, from, to time.Time) ([]model.LogbookEntry, error)
	HasEntryOn(ctx context.Context, internID int64, day time.Time) (bool, error)
}

type ReportRepository interface {
	Save(ctx context.Context, report *model.AIReport) error
	GetByReportID(ctx context.Context, reportID string) (*model.AIReport, error)
	// History returns reports matching the filter, newest first, plus
	// the total match count for pagination.
	History(ctx context.Context, filter ReportFilter) ([]model.AIReport, int, error)
	Archive(ctx context.Context, reportID string) error
	// FindByIdempotencyKey returns the most recent active report for a
	// key, or nil when none exists.
	FindByIdempotencyKey(ctx context.Context, key string) (*model.AIReport, error)
	SaveFeedback(ctx context.Context, fb *model.ReportFeedback) error
	FeedbackFor(ctx context.Context, reportID string) ([]model.ReportFeedback, error)
	// InsertGenerationLogs writes a batch of analytics rows in one
	// transaction. Used by the ingestor's flush path.
	InsertGenerationLogs(ctx context.Context, logs []model.GenerationLog) error
}
