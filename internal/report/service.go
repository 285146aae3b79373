package report

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// Recorder receives one analytics row per generation attempt. Implemented
// by the batching ingestor; a nil Recorder disables recording.
type Recorder interface {
	Record(log model.GenerationLog)
}

var (
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInternNotFound    = errors.New("intern not found")
	ErrReportNotFound    = errors.New("report not found")
)

// Service drives the full generation flow: subject resolution, the
// provider call chain, persistence, and analytics.
type Service struct {
	repo         store.Repository
	registry     *ai.Registry
	orchestrator *Orchestrator
	estimator    *CostEstimator
	recorder     Recorder
	log          *zap.Logger
}

func NewService(repo store.Repository, registry *ai.Registry, orchestrator *Orchestrator, estimator *CostEstimator, recorder Recorder, log *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		registry:     registry,
		orchestrator: orchestrator,
		estimator:    estimator,
		recorder:     recorder,
		log:          log,
	}
}

// resolveRange fills an absent date range from the report kind: weekly
// covers the trailing 7 days, monthly the trailing 30, and the long-form
// kinds cover all recorded history.
func resolveRange(reportType api.ReportType, r *api.DateRange, now time.Time) (time.Time, time.Time, error) {
	if !r.IsZero() {
		from, to, err := r.Parse()
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		return from, to, nil
	}
	switch reportType {
	case api.ReportWeekly:
		return now.AddDate(0, 0, -7), now, nil
	case api.ReportMonthly:
		return now.AddDate(0, 0, -30), now, nil
	default:
		return time.Time{}, now, nil
	}
}

// idempotencyKey is deterministic for identical logical requests made on
// the same day. Concurrent identical requests may both generate; the key
// lets callers and cleanup jobs spot duplicates after the fact.
func idempotencyKey(internID int64, reportType api.ReportType, from, to, day time.Time) string {
	raw := fmt.Sprintf("%d|%s|%s|%s|%s",
		internID, reportType,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		day.Format("2006-01-02"))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Generate runs the full report flow for one request. The returned report
// has Success=false when every provider attempt failed; that is a domain
// outcome, not a Go error. Go errors cover invalid input and storage
// failures only.
func (s *Service) Generate(ctx context.Context, generatedBy int64, req *api.GenerateReportRequest) (*api.GeneratedReport, error) {
	if !req.ReportType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReportType, req.ReportType)
	}
	if _, ok := s.registry.Get(req.Provider); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, req.Provider)
	}

	now := time.Now().UTC()
	from, to, err := resolveRange(req.ReportType, req.DateRange, now)
	if err != nil {
		return nil, err
	}
	key := idempotencyKey(req.InternID, req.ReportType, from, to, now)

	if existing, err := s.repo.Reports().FindByIdempotencyKey(ctx, key); err == nil && existing != nil {
		s.log.Info("Returning existing report for repeated request",
			zap.String("report_id", existing.ReportID),
		)
		return s.decode(existing), nil
	}

	subject, err := s.resolveSubject(ctx, req, from, to)
	if err != nil {
		return nil, err
	}

	result := s.orchestrator.Generate(ctx, req.Provider, req.FallbackAllowed(), req.ReportType, subject)
	result.ReportID = uuid.NewString()
	result.InternID = req.InternID
	result.ProjectID = req.ProjectID
	result.IdempotencyKey = key

	s.record(result)

	if result.Success {
		if err := s.persist(ctx, generatedBy, result); err != nil {
			return nil, fmt.Errorf("failed to store report: %w", err)
		}
	}

	return result, nil
}

func (s *Service) resolveSubject(ctx context.Context, req *api.GenerateReportRequest, from, to time.Time) (Subject, error) {
	intern, err := s.repo.Users().GetByID(ctx, req.InternID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Subject{}, ErrInternNotFound
		}
		return Subject{}, err
	}

	subject := Subject{InternName: intern.Name}

	if req.ProjectID != nil {
		project, err := s.repo.Projects().GetByID(ctx, *req.ProjectID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return Subject{}, err
		}
		if project != nil {
			subject.ProjectName = project.Name
			subject.ProjectDescription = project.Description
		}
	}

	// A project summary covers the whole project's activity; every other
	// kind is about one intern.
	var entries []model.LogbookEntry
	if req.ReportType == api.ReportProjectSummary && req.ProjectID != nil {
		entries, err = s.repo.Logbook().ForProjectInRange(ctx, *req.ProjectID, from, to)
	} else {
		entries, err = s.repo.Logbook().ForInternInRange(ctx, req.InternID, from, to)
		if err == nil && req.ProjectID != nil {
			filtered := entries[:0]
			for _, e := range entries {
				if e.ProjectID == *req.ProjectID {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}
	}
	if err != nil {
		return Subject{}, err
	}
	subject.Entries = entries

	return subject, nil
}

func (s *Service) persist(ctx context.Context, generatedBy int64, result *api.GeneratedReport) error {
	contentJSON, err := json.Marshal(result.Content)
	if err != nil {
		return err
	}

	meta := map[string]interface{}{
		"input_tokens":     result.InputTokens,
		"output_tokens":    result.OutputTokens,
		"tokens_estimated": result.TokensEstimated,
		"generation_ms":    result.GenerationMS,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	row := &model.AIReport{
		ReportID:       result.ReportID,
		InternID:       sql.NullInt64{Int64: result.InternID, Valid: result.InternID != 0},
		ReportType:     string(result.ReportType),
		ProviderUsed:   result.ProviderUsed,
		ModelUsed:      result.ModelUsed,
		FallbackUsed:   result.FallbackUsed,
		Content:        string(contentJSON),
		Metadata:       string(metaJSON),
		IdempotencyKey: result.IdempotencyKey,
		Status:         model.ReportActive,
		GeneratedBy:    generatedBy,
		CreatedAt:      result.GeneratedAt,
	}
	if result.ProjectID != nil {
		row.ProjectID = sql.NullInt64{Int64: *result.ProjectID, Valid: true}
	}
	if result.OriginalProvider != "" {
		row.OriginalProvider = sql.NullString{String: result.OriginalProvider, Valid: true}
	}

	return s.repo.Reports().Save(ctx, row)
}

func (s *Service) record(result *api.GeneratedReport) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(model.GenerationLog{
		ReportID:     result.ReportID,
		Provider:     result.ProviderUsed,
		Model:        result.ModelUsed,
		ReportType:   string(result.ReportType),
		FallbackUsed: result.FallbackUsed,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		DurationMS:   result.GenerationMS,
		Success:      result.Success,
		ErrorText:    result.Error,
		CreatedAt:    result.GeneratedAt,
	})
}

// decode rebuilds the API shape from a stored row.
func (s *Service) decode(row *model.AIReport) *api.GeneratedReport {
	out := &api.GeneratedReport{
		ReportID:       row.ReportID,
		ReportType:     api.ReportType(row.ReportType),
		ProviderUsed:   row.ProviderUsed,
		ModelUsed:      row.ModelUsed,
		FallbackUsed:   row.FallbackUsed,
		IdempotencyKey: row.IdempotencyKey,
		GeneratedAt:    row.CreatedAt,
		Success:        true,
	}
	if row.InternID.Valid {
		out.InternID = row.InternID.Int64
	}
	if row.ProjectID.Valid {
		pid := row.ProjectID.Int64
		out.ProjectID = &pid
	}
	if row.OriginalProvider.Valid {
		out.OriginalProvider = row.OriginalProvider.String
	}
	_ = json.Unmarshal([]byte(row.Content), &out.Content)

	var meta struct {
		InputTokens     int   `json:"input_tokens"`
		OutputTokens    int   `json:"output_tokens"`
		TokensEstimated bool  `json:"tokens_estimated"`
		GenerationMS    int64 `json:"generation_ms"`
	}
	if err := json.Unmarshal([]byte(row.Metadata), &meta); err == nil {
		out.InputTokens = meta.InputTokens
		out.OutputTokens = meta.OutputTokens
		out.TokensEstimated = meta.TokensEstimated
		out.GenerationMS = meta.GenerationMS
	}
	return out
}

// Estimate prices a prospective generation locally. The real logbook
// data is loaded so the figure tracks actual input size.
func (s *Service) Estimate(ctx context.Context, req *api.CostEstimateRequest) (*api.CostEstimate, error) {
	if !req.ReportType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReportType, req.ReportType)
	}
	if _, ok := s.registry.Get(req.Provider); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, req.Provider)
	}

	now := time.Now().UTC()
	from, to, err := resolveRange(req.ReportType, req.DateRange, now)
	if err != nil {
		return nil, err
	}

	genReq := &api.GenerateReportRequest{
		Provider:   req.Provider,
		InternID:   req.InternID,
		ProjectID:  req.ProjectID,
		ReportType: req.ReportType,
	}
	subject, err := s.resolveSubject(ctx, genReq, from, to)
	if err != nil {
		return nil, err
	}

	estimate, err := s.estimator.Estimate(req.Provider, subject)
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// History returns stored reports matching the filter plus pagination info.
func (s *Service) History(ctx context.Context, filter store.ReportFilter) ([]*api.GeneratedReport, api.Pagination, error) {
	rows, total, err := s.repo.Reports().History(ctx, filter)
	if err != nil {
		return nil, api.Pagination{}, err
	}

	out := make([]*api.GeneratedReport, 0, len(rows))
	for i := range rows {
		out = append(out, s.decode(&rows[i]))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := api.Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  filter.Offset,
		HasMore: filter.Offset+len(rows) < total,
	}
	return out, page, nil
}

// Get returns one stored report by its public identifier.
func (s *Service) Get(ctx context.Context, reportID string) (*api.GeneratedReport, error) {
	row, err := s.repo.Reports().GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	result := s.decode(row)
	feedback, err := s.repo.Reports().FeedbackFor(ctx, reportID)
	if err != nil {
		return nil, err
	}
	for _, fb := range feedback {
		result.Feedback = append(result.Feedback, api.ReportFeedback{
			UserID:    fb.UserID,
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			CreatedAt: fb.CreatedAt,
		})
	}
	return result, nil
}

// Archive transitions a report from active to archived.
func (s *Service) Archive(ctx context.Context, reportID string) error {
	err := s.repo.Reports().Archive(ctx, reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReportNotFound
	}
	return err
}

// Feedback stores a user rating for a generated report.
func (s *Service) Feedback(ctx context.Context, userID int64, req *api.FeedbackRequest) error {
	if _, err := s.repo.Reports().GetByReportID(ctx, req.ReportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReportNotFound
		}
		return err
	}
	return s.repo.Reports().SaveFeedback(ctx, &model.ReportFeedback{
		ReportID: req.ReportID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
}
