package report

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// HealthChecker probes registered providers and caches the outcome.
// Results are advisory: a stale "available" can still fail at generation
// time, and concurrent probes of the same provider simply race; the last
// write wins and is always internally consistent.
type HealthChecker struct {
	registry *ai.Registry
	timeout  time.Duration
	log      *zap.Logger

	mu     sync.RWMutex
	status map[string]api.ProviderHealth
}

func NewHealthChecker(registry *ai.Registry, timeout time.Duration, log *zap.Logger) *HealthChecker {
	return &HealthChecker{
		registry: registry,
		timeout:  timeout,
		log:      log,
		status:   make(map[string]api.ProviderHealth),
	}
}

// Check probes a single provider and refreshes its cached record.
func (h *HealthChecker) Check(ctx context.Context, name string) api.ProviderHealth {
	provider, ok := h.registry.Get(name)
	if !ok {
		return api.ProviderHealth{
			Available:     false,
			LastError:     "provider not registered",
			LastCheckedAt: time.Now().UTC(),
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := provider.Health(probeCtx)
	elapsed := time.Since(start)

	record := api.ProviderHealth{
		Available:      err == nil,
		LastCheckedAt:  time.Now().UTC(),
		ResponseTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	}
	if err != nil {
		record.LastError = err.Error()
		h.log.Warn("Provider health check failed",
			zap.String("provider", name),
			zap.Error(err),
		)
	} else {
		// Model listing is best-effort decoration on a healthy probe.
		if models, mErr := provider.Models(probeCtx); mErr == nil {
			record.Models = models
		}
	}

	h.mu.Lock()
	h.status[name] = record
	h.mu.Unlock()

	return record
}

// CheckAll probes every registered provider concurrently and returns the
// refreshed snapshot keyed by provider name.
func (h *HealthChecker) CheckAll(ctx context.Context) map[string]api.ProviderHealth {
	names := h.registry.Names()

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			h.Check(ctx, n)
		}(name)
	}
	wg.Wait()

	return h.Snapshot()
}

// Status returns the cached record for a provider. The second return is
// false when the provider has never been probed.
func (h *HealthChecker) Status(name string) (api.ProviderHealth, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	record, ok := h.status[name]
	return record, ok
}

// Snapshot copies the current cache.
func (h *HealthChecker) Snapshot() map[string]api.ProviderHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]api.ProviderHealth, len(h.status))
	for k, v := range h.status {
		out[k] = v
	}
	return out
}
