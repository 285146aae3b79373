package report

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// Orchestrator wraps the generator with the substitution policy: when a
// requested provider fails and the caller allows it, the remaining
// providers are tried in configured priority order, each at most once.
type Orchestrator struct {
	generator *Generator
	health    *HealthChecker
	order     []string
	log       *zap.Logger
}

func NewOrchestrator(generator *Generator, health *HealthChecker, fallbackOrder []string, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		health:    health,
		order:     fallbackOrder,
		log:       log,
	}
}

// Generate runs the requested provider and, when allowed, falls back
// across the priority chain. Semantics:
//
//   - useFallback=false: exactly one attempt, against requested only.
//   - A cached-unavailable provider is skipped without an attempt; a
//     never-probed provider is attempted (health is advisory).
//   - On substitution the result reports the provider actually used,
//     FallbackUsed=true, and the originally requested provider with its
//     failure reason.
//   - When every candidate fails, the result is Success=false and names
//     the requested provider, with the per-provider errors aggregated;
//     FallbackUsed is still true because substitution was attempted.
func (o *Orchestrator) Generate(ctx context.Context, requested string, useFallback bool, reportType api.ReportType, subject Subject) *api.GeneratedReport {
	first := o.generator.Generate(ctx, requested, reportType, subject)
	if first.Success || !useFallback {
		return first
	}

	o.log.Info("Requested provider failed, entering fallback",
		zap.String("requested", requested),
		zap.String("error", first.Error),
	)

	failures := []string{requested + ": " + first.Error}
	candidates := o.candidates(requested)

	for _, candidate := range candidates {
		if status, probed := o.health.Status(candidate); probed && !status.Available {
			failures = append(failures, candidate+": skipped (unavailable: "+status.LastError+")")
			continue
		}

		result := o.generator.Generate(ctx, candidate, reportType, subject)
		if result.Success {
			result.FallbackUsed = true
			result.OriginalProvider = requested
			result.OriginalError = first.Error
			o.log.Info("Fallback succeeded",
				zap.String("requested", requested),
				zap.String("used", candidate),
			)
			return result
		}
		failures = append(failures, candidate+": "+result.Error)
	}

	// Nothing worked. Report against the requested provider so the caller
	// sees the identity they asked for. When substitutes were considered,
	// flag that fallback ran even though it did not help.
	if len(candidates) > 0 {
		first.FallbackUsed = true
		first.OriginalProvider = requested
	}
	first.Error = "all providers failed: " + strings.Join(failures, "; ")
	return first
}

// candidates returns the fallback chain minus the requested provider,
// preserving configured order and dropping unregistered names.
func (o *Orchestrator) candidates(requested string) []string {
	out := make([]string, 0, len(o.order))
	for _, name := range o.order {
		if name == requested {
			continue
		}
		if _, ok := o.generator.registry.Get(name); !ok {
			continue
		}
		out = append(out, name)
	}
	return out
}
