package report

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// fakeRepo is an in-memory store.Repository for service tests.
type fakeRepo struct {
	users    *fakeUsers
	projects *fakeProjects
	logbook  *fakeLogbook
	reports  *fakeReports
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    &fakeUsers{byID: map[int64]*model.User{}},
		projects: &fakeProjects{byID: map[int64]*model.Project{}},
		logbook:  &fakeLogbook{},
		reports:  &fakeReports{byKey: map[string]*model.AIReport{}},
	}
}

func (r *fakeRepo) Users() store.UserRepository       { return r.users }
func (r *fakeRepo) Projects() store.ProjectRepository { return r.projects }
func (r *fakeRepo) Logbook() store.LogbookRepository  { return r.logbook }
func (r *fakeRepo) Reports() store.ReportRepository   { return r.reports }

func (r *fakeRepo) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) Close() error { return nil }

type fakeUsers struct {
	byID map[int64]*model.User
}

func (u *fakeUsers) Create(ctx context.Context, user *model.User) error {
	user.ID = int64(len(u.byID) + 1)
	u.byID[user.ID] = user
	return nil
}

func (u *fakeUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := u.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (u *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range u.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (u *fakeUsers) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	return nil, nil
}

func (u *fakeUsers) UpdatePassword(ctx context.Context, id int64, hash string) error { return nil }
func (u *fakeUsers) UpdateLastLogin(ctx context.Context, id int64) error             { return nil }
func (u *fakeUsers) Delete(ctx context.Context, id int64) error                      { return nil }

type fakeProjects struct {
	byID map[int64]*model.Project
}

func (p *fakeProjects) Create(ctx context.Context, project *model.Project) error {
	project.ID = int64(len(p.byID) + 1)
	p.byID[project.ID] = project
	return nil
}

func (p *fakeProjects) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	project, ok := p.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return project, nil
}

func (p *fakeProjects) List(ctx context.Context, status string) ([]model.Project, error) {
	return nil, nil
}

func (p *fakeProjects) UpdateStatus(ctx context.Context, id int64, status string) error { return nil }
func (p *fakeProjects) Assign(ctx context.Context, projectID, userID int64) error       { return nil }
func (p *fakeProjects) Unassign(ctx context.Context, projectID, userID int64) error     { return nil }

func (p *fakeProjects) MembersOf(ctx context.Context, projectID int64) ([]model.User, error) {
	return nil, nil
}

func (p *fakeProjects) ProjectsFor(ctx context.Context, userID int64) ([]model.Project, error) {
	return nil, nil
}

func (p *fakeProjects) IsAssigned(ctx context.Context, projectID, userID int64) (bool, error) {
	return true, nil
}

type fakeLogbook struct {
	entries []model.LogbookEntry
}

func (l *fakeLogbook) Create(ctx context.Context, entry *model.LogbookEntry) error {
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *fakeLogbook) ForInternInRange(ctx context.Context, internID int64, from, to time.Time) ([]model.LogbookEntry, error) {
	var out []model.LogbookEntry
	for _, e := range l.entries {
		if e.UserID == internID && !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *fakeLogbook) ForProjectInRange(ctx context.Context, projectID int64, from, to time.Time) ([]model.LogbookEntry, error) {
	var out []model.LogbookEntry
	for _, e := range l.entries {
		if e.ProjectID == projectID && !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *fakeLogbook) HasEntryOn(ctx context.Context, internID int64, day time.Time) (bool, error) {
	return false, nil
}

type fakeReports struct {
	saved    []*model.AIReport
	byKey    map[string]*model.AIReport
	feedback []model.ReportFeedback
	logs     []model.GenerationLog
}

func (r *fakeReports) Save(ctx context.Context, report *model.AIReport) error {
	report.ID = int64(len(r.saved) + 1)
	r.saved = append(r.saved, report)
	r.byKey[report.IdempotencyKey] = report
	return nil
}

func (r *fakeReports) GetByReportID(ctx context.Context, reportID string) (*model.AIReport, error) {
	for _, report := range r.saved {
		if report.ReportID == reportID {
			return report, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeReports) History(ctx context.Context, filter store.ReportFilter) ([]model.AIReport, int, error) {
	var all []model.AIReport
	for _, report := range r.saved {
		if filter.Provider != "" && report.ProviderUsed != filter.Provider {
			continue
		}
		all = append(all, *report)
	}
	total := len(all)
	if filter.Offset > len(all) {
		return nil, total, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (r *fakeReports) Archive(ctx context.Context, reportID string) error {
	report, err := r.GetByReportID(ctx, reportID)
	if err != nil {
		return err
	}
	report.Status = model.ReportArchived
	return nil
}

func (r *fakeReports) FindByIdempotencyKey(ctx context.Context, key string) (*model.AIReport, error) {
	report, ok := r.byKey[key]
	if !ok {
		return nil, nil
	}
	return report, nil
}

func (r *fakeReports) SaveFeedback(ctx context.Context, fb *model.ReportFeedback) error {
	r.feedback = append(r.feedback, *fb)
	return nil
}

func (r *fakeReports) FeedbackFor(ctx context.Context, reportID string) ([]model.ReportFeedback, error) {
	var out []model.ReportFeedback
	for _, fb := range r.feedback {
		if fb.ReportID == reportID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (r *fakeReports) InsertGenerationLogs(ctx context.Context, logs []model.GenerationLog) error {
	r.logs = append(r.logs, logs...)
	return nil
}

type captureRecorder struct {
	logs []model.GenerationLog
}

func (c *captureRecorder) Record(log model.GenerationLog) {
	c.logs = append(c.logs, log)
}

func newTestService(repo store.Repository, recorder Recorder, providers ...*stubProvider) *Service {
	registry := newTestRegistry(providers...)
	orch, _ := newTestOrchestrator(registry, []string{"ollama", "gpt4", "claude"})
	estimator := NewCostEstimator(registry, 500)
	return NewService(repo, registry, orch, estimator, recorder, zap.NewNop())
}

func seedIntern(repo *fakeRepo) {
	repo.users.byID[7] = &model.User{ID: 7, Name: "Kasun", Email: "kasun@example.com", Role: model.RoleIntern}
	repo.logbook.entries = append(repo.logbook.entries, model.LogbookEntry{
		ID:          1,
		UserID:      7,
		ProjectID:   1,
		EntryDate:   time.Now().UTC().AddDate(0, 0, -2),
		Description: "Implemented the report history endpoint",
		HoursWorked: 7.5,
	})
}

func TestServiceGeneratePersistsOnSuccess(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	recorder := &captureRecorder{}
	svc := newTestService(repo, recorder, &stubProvider{name: "ollama", reply: stubReply})

	result, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.NotEmpty(t, result.ReportID)

	require.Len(t, repo.reports.saved, 1)
	row := repo.reports.saved[0]
	assert.Equal(t, result.ReportID, row.ReportID)
	assert.Equal(t, model.ReportActive, row.Status)
	assert.Equal(t, int64(1), row.GeneratedBy)
	assert.Equal(t, result.IdempotencyKey, row.IdempotencyKey)
	assert.Contains(t, row.Content, "summary")

	require.Len(t, recorder.logs, 1)
	assert.True(t, recorder.logs[0].Success)
	assert.Equal(t, "ollama", recorder.logs[0].Provider)
}

func TestServiceGenerateRepeatReturnsStoredReport(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	provider := &stubProvider{name: "ollama", reply: stubReply}
	svc := newTestService(repo, nil, provider)

	req := &api.GenerateReportRequest{Provider: "ollama", InternID: 7, ReportType: api.ReportWeekly}

	first, err := svc.Generate(context.Background(), 1, req)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), 1, req)
	require.NoError(t, err)

	assert.Equal(t, first.ReportID, second.ReportID)
	assert.Equal(t, 1, provider.calls)
	assert.Len(t, repo.reports.saved, 1)
	assert.True(t, second.Success)
	assert.Equal(t, first.Content.Summary, second.Content.Summary)
}

func TestServiceGenerateFailureNotPersisted(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	recorder := &captureRecorder{}
	svc := newTestService(repo, recorder, &stubProvider{name: "ollama", err: errors.New("model not loaded")})

	result, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, repo.reports.saved)

	require.Len(t, recorder.logs, 1)
	assert.False(t, recorder.logs[0].Success)
	assert.Contains(t, recorder.logs[0].ErrorText, "model not loaded")
}

func TestServiceGenerateInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	svc := newTestService(repo, nil, &stubProvider{name: "ollama", reply: stubReply})

	_, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: "quarterly",
	})
	assert.ErrorIs(t, err, ErrInvalidReportType)

	_, err = svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "grok",
		InternID:   7,
		ReportType: api.ReportWeekly,
	})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   404,
		ReportType: api.ReportWeekly,
	})
	assert.ErrorIs(t, err, ErrInternNotFound)
}

func TestServiceGenerateExplicitRange(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	svc := newTestService(repo, nil, &stubProvider{name: "ollama", reply: stubReply})

	_, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
		DateRange:  &api.DateRange{StartDate: "2026-08-10", EndDate: "2026-08-01"},
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
		DateRange:  &api.DateRange{StartDate: "not-a-date"},
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	result, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
		DateRange:  &api.DateRange{StartDate: "2026-08-01", EndDate: "2026-08-20"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestServiceEstimateUsesLogbookData(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)

	registry := newTestRegistry()
	registry.Add(config.ProviderConfig{
		Name: "gpt4", Type: "stub", Model: "gpt-4", MaxTokens: 2000, CostPer1K: 0.03,
	}, &stubProvider{name: "gpt4"})
	orch, _ := newTestOrchestrator(registry, []string{"ollama", "gpt4", "claude"})
	svc := NewService(repo, registry, orch, NewCostEstimator(registry, 500), nil, zap.NewNop())

	estimate, err := svc.Estimate(context.Background(), &api.CostEstimateRequest{
		Provider:   "gpt4",
		InternID:   7,
		ReportType: api.ReportWeekly,
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt4", estimate.Provider)
	assert.Greater(t, estimate.EstimatedInputTokens, 0)
	assert.Greater(t, estimate.EstimatedCostUSD, 0.0)
	assert.False(t, estimate.IsFree)
}

func TestServiceHistoryPagination(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	svc := newTestService(repo, nil, &stubProvider{name: "ollama", reply: stubReply})

	start := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	for i := 0; i < 3; i++ {
		_, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
			Provider:   "ollama",
			InternID:   7,
			ReportType: api.ReportWeekly,
			DateRange:  &api.DateRange{StartDate: start, EndDate: time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")},
		})
		require.NoError(t, err)
	}

	reports, page, err := svc.History(context.Background(), store.ReportFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)

	reports, page, err = svc.History(context.Background(), store.ReportFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.False(t, page.HasMore)
}

func TestServiceGetAndArchive(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	svc := newTestService(repo, nil, &stubProvider{name: "ollama", reply: stubReply})

	result, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), result.ReportID)
	require.NoError(t, err)
	assert.Equal(t, result.ReportID, got.ReportID)

	require.NoError(t, svc.Archive(context.Background(), result.ReportID))
	assert.Equal(t, model.ReportArchived, repo.reports.saved[0].Status)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.ErrorIs(t, svc.Archive(context.Background(), "missing"), ErrReportNotFound)
}

func TestServiceFeedback(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	svc := newTestService(repo, nil, &stubProvider{name: "ollama", reply: stubReply})

	result, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ReportType: api.ReportWeekly,
	})
	require.NoError(t, err)

	err = svc.Feedback(context.Background(), 2, &api.FeedbackRequest{
		ReportID: result.ReportID,
		Rating:   4,
		Comment:  "Accurate summary",
	})
	require.NoError(t, err)
	require.Len(t, repo.reports.feedback, 1)
	assert.Equal(t, 4, repo.reports.feedback[0].Rating)

	got, err := svc.Get(context.Background(), result.ReportID)
	require.NoError(t, err)
	require.Len(t, got.Feedback, 1)
	assert.Equal(t, int64(2), got.Feedback[0].UserID)
	assert.Equal(t, "Accurate summary", got.Feedback[0].Comment)

	err = svc.Feedback(context.Background(), 2, &api.FeedbackRequest{ReportID: "missing", Rating: 1})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestServiceGenerateProjectSummaryCoversProject(t *testing.T) {
	repo := newFakeRepo()
	seedIntern(repo)
	repo.projects.byID[1] = &model.Project{ID: 1, Name: "Billing Portal"}
	repo.users.byID[8] = &model.User{ID: 8, Name: "Nimal", Email: "nimal@example.com", Role: model.RoleIntern}
	repo.logbook.entries = append(repo.logbook.entries, model.LogbookEntry{
		ID:          2,
		UserID:      8,
		ProjectID:   1,
		EntryDate:   time.Now().UTC().AddDate(0, 0, -3),
		Description: "Refactored the settlement batch job",
		HoursWorked: 6,
	})
	provider := &stubProvider{name: "ollama", reply: stubReply}
	svc := newTestService(repo, nil, provider)

	projectID := int64(1)
	result, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ProjectID:  &projectID,
		ReportType: api.ReportProjectSummary,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	// the summary covers every intern on the project, not just the subject
	assert.Contains(t, provider.lastPrompt.User, "settlement batch job")
	assert.Contains(t, provider.lastPrompt.User, "report history endpoint")

	// intern-scoped kinds still filter to the one intern
	weekly, err := svc.Generate(context.Background(), 1, &api.GenerateReportRequest{
		Provider:   "ollama",
		InternID:   7,
		ProjectID:  &projectID,
		ReportType: api.ReportWeekly,
	})
	require.NoError(t, err)
	assert.True(t, weekly.Success)
	assert.NotContains(t, provider.lastPrompt.User, "settlement batch job")
	assert.Contains(t, provider.lastPrompt.User, "report history endpoint")
}
