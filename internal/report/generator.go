package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/httpclient"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// Generator runs a single provider attempt end to end: prompt rendering,
// the model call, parsing, and token accounting. Transport and auth
// failures come back as report values with Success=false, not as Go
// errors; callers branch on the flag.
type Generator struct {
	registry *ai.Registry
	timeout  time.Duration
	log      *zap.Logger
}

func NewGenerator(registry *ai.Registry, timeout time.Duration, log *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Generator{registry: registry, timeout: timeout, log: log}
}

// Generate performs one attempt against one provider. The returned report
// always carries ProviderUsed, timing, and the report identity fields;
// Content and token counts are filled only on success.
func (g *Generator) Generate(ctx context.Context, providerName string, reportType api.ReportType, subject Subject) *api.GeneratedReport {
	result := &api.GeneratedReport{
		ReportType:   reportType,
		ProviderUsed: providerName,
		GeneratedAt:  time.Now().UTC(),
	}

	provider, ok := g.registry.Get(providerName)
	if !ok {
		result.Error = "provider not registered: " + providerName
		return result
	}
	cfg, _ := g.registry.Config(providerName)
	result.ModelUsed = cfg.Model

	prompt, err := BuildPrompt(reportType, subject)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	completion, err := provider.Complete(callCtx, prompt)
	result.GenerationMS = time.Since(start).Milliseconds()

	if err != nil {
		if httpclient.IsTimeout(err) {
			result.Error = "request to " + providerName + " timed out"
		} else {
			result.Error = err.Error()
		}
		g.log.Warn("Generation attempt failed",
			zap.String("provider", providerName),
			zap.String("report_type", string(reportType)),
			zap.Error(err),
		)
		return result
	}

	if completion.Model != "" {
		result.ModelUsed = completion.Model
	}
	result.Content = ParseContent(completion.Text)

	if completion.HasUsage {
		result.InputTokens = completion.InputTokens
		result.OutputTokens = completion.OutputTokens
	} else {
		// chars/4 approximation, flagged so consumers don't treat the
		// counts as billing-grade.
		result.InputTokens = EstimateTokens(prompt.System) + EstimateTokens(prompt.User)
		result.OutputTokens = EstimateTokens(completion.Text)
		result.TokensEstimated = true
	}

	result.Success = true
	return result
}
