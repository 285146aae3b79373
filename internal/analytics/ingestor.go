package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
)

// Ingestor handles the asynchronous persistence of generation logs.
// Record never blocks the generation path: when the buffer is full the
// row is dropped with a warning.
type Ingestor interface {
	Record(log model.GenerationLog)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan model.GenerationLog
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan model.GenerationLog, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

func (i *ingestor) Record(log model.GenerationLog) {
	select {
	case i.logChan <- log:
	default:
		i.logger.Warn("Analytics buffer full, dropping log", zap.String("report_id", log.ReportID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.logChan)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]model.GenerationLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		if err := i.repo.Reports().InsertGenerationLogs(context.Background(), batch); err != nil {
			i.logger.Error("Failed to persist generation logs",
				zap.Int("count", len(batch)),
				zap.Error(err),
			)
		}
		batch = batch[:0]
	}

	for {
		select {
		case log, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, log)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}
