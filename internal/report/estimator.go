package report

import (
	"fmt"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// CostEstimator prices a prospective generation without any network
// calls. Inputs are the subject's activity data and the provider's
// configured per-1K-token rate; the result is deterministic for
// identical inputs.
type CostEstimator struct {
	registry *ai.Registry

	// typicalOutputTokens is the assumed reply size when the provider
	// config sets no output budget.
	typicalOutputTokens int
}

func NewCostEstimator(registry *ai.Registry, typicalOutputTokens int) *CostEstimator {
	if typicalOutputTokens <= 0 {
		typicalOutputTokens = 500
	}
	return &CostEstimator{registry: registry, typicalOutputTokens: typicalOutputTokens}
}

// Estimate prices the subject's data against one provider. Input tokens
// count the formatted logbook data only (zero when there are no entries);
// counts use the chars/4 approximation, so treat the figure as
// indicative, not exact.
func (e *CostEstimator) Estimate(providerName string, subject Subject) (api.CostEstimate, error) {
	cfg, ok := e.registry.Config(providerName)
	if !ok {
		return api.CostEstimate{}, fmt.Errorf("unknown provider: %s", providerName)
	}

	inputTokens := 0
	if len(subject.Entries) > 0 {
		inputTokens = EstimateTokens(formatEntries(subject))
	}

	outputTokens := cfg.MaxTokens
	if outputTokens <= 0 {
		outputTokens = e.typicalOutputTokens
	}

	total := inputTokens + outputTokens
	cost := float64(total) / 1000.0 * cfg.CostPer1K

	return api.CostEstimate{
		Provider:              providerName,
		EstimatedInputTokens:  inputTokens,
		EstimatedOutputTokens: outputTokens,
		TotalTokens:           total,
		EstimatedCostUSD:      cost,
		IsFree:                cfg.CostPer1K == 0,
	}, nil
}

// EstimateAll prices the subject against every registered provider, in
// registry priority order.
func (e *CostEstimator) EstimateAll(subject Subject) []api.CostEstimate {
	names := e.registry.Names()
	out := make([]api.CostEstimate, 0, len(names))
	for _, name := range names {
		est, err := e.Estimate(name, subject)
		if err != nil {
			continue
		}
		out = append(out, est)
	}
	return out
}
