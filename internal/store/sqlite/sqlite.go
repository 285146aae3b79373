package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Users() store.UserRepository {
	return &userRepo{db: r.executor}
}

func (r *SqliteRepository) Projects() store.ProjectRepository {
	return &projectRepo{db: r.executor}
}

func (r *SqliteRepository) Logbook() store.LogbookRepository {
	return &logbookRepo{db: r.executor}
}

func (r *SqliteRepository) Reports() store.ReportRepository {
	return &reportRepo{db: r.executor}
}

type userRepo struct {
	db DB
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	query := `
	INSERT INTO users (name, email, password_hash, role, created_at)
	VALUES (:name, :email, :password_hash, :role, :created_at)`
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	if role == "" {
		err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at DESC`)
		return users, err
	}
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users WHERE role = ? ORDER BY created_at DESC`, role)
	return users, err
}

func (r *userRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	return err
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

type projectRepo struct {
	db DB
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = model.ProjectOngoing
	}
	query := `
	INSERT INTO projects (name, description, status, created_by, created_at, updated_at)
	VALUES (:name, :description, :status, :created_by, :created_at, :updated_at)`
	res, err := r.db.NamedExecContext(ctx, query, project)
	if err != nil {
		return err
	}
	project.ID, err = res.LastInsertId()
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	err := r.db.GetContext(ctx, &p, `SELECT * FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, status string) ([]model.Project, error) {
	var projects []model.Project
	if status == "" {
		err := r.db.SelectContext(ctx, &projects, `SELECT * FROM projects ORDER BY created_at DESC`)
		return projects, err
	}
	err := r.db.SelectContext(ctx, &projects, `SELECT * FROM projects WHERE status = ? ORDER BY created_at DESC`, status)
	return projects, err
}

func (r *projectRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *projectRepo) Assign(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_assignments (project_id, user_id, assigned_at) VALUES (?, ?, ?)`,
		projectID, userID, time.Now().UTC())
	return err
}

func (r *projectRepo) Unassign(ctx context.Context, projectID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM project_assignments WHERE project_id = ? AND user_id = ?`,
		projectID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *projectRepo) MembersOf(ctx context.Context, projectID int64) ([]model.User, error) {
	var users []model.User
	query := `
	SELECT u.* FROM users u
	JOIN project_assignments pa ON pa.user_id = u.id
	WHERE pa.project_id = ?
	ORDER BY pa.assigned_at`
	err := r.db.SelectContext(ctx, &users, query, projectID)
	return users, err
}

func (r *projectRepo) ProjectsFor(ctx context.Context, userID int64) ([]model.Project, error) {
	var projects []model.Project
	query := `
	SELECT p.* FROM projects p
	JOIN project_assignments pa ON pa.project_id = p.id
	WHERE pa.user_id = ?
	ORDER BY pa.assigned_at DESC`
	err := r.db.SelectContext(ctx, &projects, query, userID)
	return projects, err
}

func (r *projectRepo) IsAssigned(ctx context.Context, projectID, userID int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(1) FROM project_assignments WHERE project_id = ? AND user_id = ?`,
		projectID, userID)
	return count > 0, err
}

type logbookRepo struct {
	db DB
}

func (r *logbookRepo) Create(ctx context.Context, entry *model.LogbookEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO logbook_entries (user_id, project_id, entry_date, description, hours_worked, blockers, created_at)
	VALUES (:user_id, :project_id, :entry_date, :description, :hours_worked, :blockers, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return err
	}
	entry.ID, err = res.LastInsertId()
	return err
}

func (r *logbookRepo) ForInternInRange(ctx context.Context, internID int64, from, to time.Time) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	query := `
	SELECT * FROM logbook_entries
	WHERE user_id = ? AND entry_date >= ? AND entry_date <= ?
	ORDER BY entry_date`
	err := r.db.SelectContext(ctx, &entries, query, internID, from, to)
	return entries, err
}

func (r *logbookRepo) ForProjectInRange(ctx context.Context, projectID int64, from, to time.Time) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	query := `
	SELECT * FROM logbook_entries
	WHERE project_id = ? AND entry_date >= ? AND entry_date <= ?
	ORDER BY entry_date`
	err := r.db.SelectContext(ctx, &entries, query, projectID, from, to)
	return entries, err
}

func (r *logbookRepo) HasEntryOn(ctx context.Context, internID int64, day time.Time) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(1) FROM logbook_entries WHERE user_id = ? AND entry_date = ?`,
		internID, day)
	return count > 0, err
}

type reportRepo struct {
	db DB
}

func (r *reportRepo) Save(ctx context.Context, report *model.AIReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	if report.Status == "" {
		report.Status = model.ReportActive
	}
	query := `
	INSERT INTO ai_reports (
		report_id, intern_id, project_id, report_type, provider_used, model_used,
		fallback_used, original_provider, content, metadata, idempotency_key,
		status, generated_by, created_at
	) VALUES (
		:report_id, :intern_id, :project_id, :report_type, :provider_used, :model_used,
		:fallback_used, :original_provider, :content, :metadata, :idempotency_key,
		:status, :generated_by, :created_at
	)`
	res, err := r.db.NamedExecContext(ctx, query, report)
	if err != nil {
		return err
	}
	report.ID, err = res.LastInsertId()
	return err
}

func (r *reportRepo) GetByReportID(ctx context.Context, reportID string) (*model.AIReport, error) {
	var report model.AIReport
	err := r.db.GetContext(ctx, &report, `SELECT * FROM ai_reports WHERE report_id = ?`, reportID)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) History(ctx context.Context, filter store.ReportFilter) ([]model.AIReport, int, error) {
	conds := []string{"1=1"}
	var args []interface{}

	if filter.InternID != 0 {
		conds = append(conds, "intern_id = ?")
		args = append(args, filter.InternID)
	}
	if filter.ProjectID != 0 {
		conds = append(conds, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.ReportType != "" {
		conds = append(conds, "report_type = ?")
		args = append(args, filter.ReportType)
	}
	if filter.Provider != "" {
		conds = append(conds, "provider_used = ?")
		args = append(args, filter.Provider)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}

	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total,
		fmt.Sprintf(`SELECT COUNT(1) FROM ai_reports WHERE %s`, where), args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var reports []model.AIReport
	query := fmt.Sprintf(
		`SELECT * FROM ai_reports WHERE %s ORDER BY created_at DESC LIMIT ? OFFSET ?`, where)
	args = append(args, limit, filter.Offset)
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepo) Archive(ctx context.Context, reportID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ai_reports SET status = 'archived' WHERE report_id = ?`, reportID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *reportRepo) FindByIdempotencyKey(ctx context.Context, key string) (*model.AIReport, error) {
	var report model.AIReport
	query := `
	SELECT * FROM ai_reports
	WHERE idempotency_key = ? AND status = 'active'
	ORDER BY created_at DESC LIMIT 1`
	err := r.db.GetContext(ctx, &report, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) SaveFeedback(ctx context.Context, fb *model.ReportFeedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO report_feedback (report_id, user_id, rating, comment, created_at)
	VALUES (:report_id, :user_id, :rating, :comment, :created_at)`
	res, err := r.db.NamedExecContext(ctx, query, fb)
	if err != nil {
		return err
	}
	fb.ID, err = res.LastInsertId()
	return err
}

func (r *reportRepo) FeedbackFor(ctx context.Context, reportID string) ([]model.ReportFeedback, error) {
	var out []model.ReportFeedback
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM report_feedback WHERE report_id = ? ORDER BY created_at DESC`, reportID)
	return out, err
}

func (r *reportRepo) InsertGenerationLogs(ctx context.Context, logs []model.GenerationLog) error {
	if len(logs) == 0 {
		return nil
	}
	query := `
	INSERT INTO generation_logs (
		report_id, provider, model, report_type, fallback_used,
		input_tokens, output_tokens, duration_ms, success, error_text, created_at
	) VALUES (
		:report_id, :provider, :model, :report_type, :fallback_used,
		:input_tokens, :output_tokens, :duration_ms, :success, :error_text, :created_at
	)`
	for i := range logs {
		if logs[i].CreatedAt.IsZero() {
			logs[i].CreatedAt = time.Now().UTC()
		}
		if _, err := r.db.NamedExecContext(ctx, query, &logs[i]); err != nil {
			return err
		}
	}
	return nil
}
