package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

type stubProvider struct {
	name       string
	reply      string
	err        error
	healthErr  error
	calls      int
	lastPrompt ai.Prompt
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Type() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, p ai.Prompt) (*ai.Completion, error) {
	s.calls++
	s.lastPrompt = p
	if s.err != nil {
		return nil, s.err
	}
	return &ai.Completion{Text: s.reply, Model: s.name + "-model"}, nil
}

func (s *stubProvider) Models(ctx context.Context) ([]string, error) {
	return []string{s.name + "-model"}, nil
}

func (s *stubProvider) Health(ctx context.Context) error { return s.healthErr }

const stubReply = `**WEEKLY PROGRESS SUMMARY**
Steady progress across the board.

**STRENGTHS OBSERVED**
- Finished the assigned migration tasks`

func newTestRegistry(providers ...*stubProvider) *ai.Registry {
	registry := ai.NewRegistry()
	for _, p := range providers {
		registry.Add(config.ProviderConfig{Name: p.name, Type: "stub", Model: p.name + "-model"}, p)
	}
	return registry
}

func newTestOrchestrator(registry *ai.Registry, order []string) (*Orchestrator, *HealthChecker) {
	log := zap.NewNop()
	gen := NewGenerator(registry, 5*time.Second, log)
	health := NewHealthChecker(registry, time.Second, log)
	return NewOrchestrator(gen, health, order, log), health
}

func TestFallbackSubstitutesNextProvider(t *testing.T) {
	local := &stubProvider{name: "ollama", reply: stubReply}
	hosted := &stubProvider{name: "gpt4", err: errors.New("connection refused")}
	registry := newTestRegistry(local, hosted)
	orch, _ := newTestOrchestrator(registry, []string{"ollama", "gpt4", "claude"})

	result := orch.Generate(context.Background(), "gpt4", true, api.ReportWeekly, Subject{InternName: "Kasun"})

	require.True(t, result.Success)
	assert.Equal(t, "ollama", result.ProviderUsed)
	assert.True(t, result.FallbackUsed)
	assert.Equal(t, "gpt4", result.OriginalProvider)
	assert.Contains(t, result.OriginalError, "connection refused")
	assert.Equal(t, 1, hosted.calls)
	assert.Equal(t, 1, local.calls)
}

func TestFallbackDisabledMakesOneAttempt(t *testing.T) {
	local := &stubProvider{name: "ollama", reply: stubReply}
	hosted := &stubProvider{name: "gpt4", err: errors.New("boom")}
	registry := newTestRegistry(local, hosted)
	orch, _ := newTestOrchestrator(registry, []string{"ollama", "gpt4"})

	result := orch.Generate(context.Background(), "gpt4", false, api.ReportWeekly, Subject{})

	assert.False(t, result.Success)
	assert.Equal(t, "gpt4", result.ProviderUsed)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, 1, hosted.calls)
	assert.Equal(t, 0, local.calls)
}

func TestFallbackAllProvidersFail(t *testing.T) {
	a := &stubProvider{name: "ollama", err: errors.New("no models installed")}
	b := &stubProvider{name: "gpt4", err: errors.New("401 unauthorized")}
	registry := newTestRegistry(a, b)
	orch, _ := newTestOrchestrator(registry, []string{"ollama", "gpt4"})

	result := orch.Generate(context.Background(), "ollama", true, api.ReportWeekly, Subject{})

	assert.False(t, result.Success)
	assert.Equal(t, "ollama", result.ProviderUsed)
	assert.True(t, result.FallbackUsed)
	assert.Equal(t, result.ProviderUsed, result.OriginalProvider)
	assert.Contains(t, result.Error, "all providers failed")
	assert.Contains(t, result.Error, "no models installed")
	assert.Contains(t, result.Error, "401 unauthorized")
}

func TestFallbackSkipsCachedUnavailable(t *testing.T) {
	requested := &stubProvider{name: "gpt4", err: errors.New("boom")}
	down := &stubProvider{name: "ollama", healthErr: errors.New("refused"), err: errors.New("should not be called")}
	up := &stubProvider{name: "claude", reply: stubReply}
	registry := newTestRegistry(down, requested, up)
	orch, health := newTestOrchestrator(registry, []string{"ollama", "gpt4", "claude"})

	// Populate the health cache so ollama is known-unavailable.
	health.Check(context.Background(), "ollama")

	result := orch.Generate(context.Background(), "gpt4", true, api.ReportWeekly, Subject{})

	require.True(t, result.Success)
	assert.Equal(t, "claude", result.ProviderUsed)
	assert.True(t, result.FallbackUsed)
	assert.Equal(t, 0, down.calls)
}

func TestFallbackAttemptsUnprobedProvider(t *testing.T) {
	// Health status is advisory: a provider that was never probed still
	// gets an attempt.
	requested := &stubProvider{name: "gpt4", err: errors.New("boom")}
	unknown := &stubProvider{name: "ollama", reply: stubReply}
	registry := newTestRegistry(unknown, requested)
	orch, _ := newTestOrchestrator(registry, []string{"ollama", "gpt4"})

	result := orch.Generate(context.Background(), "gpt4", true, api.ReportWeekly, Subject{})

	require.True(t, result.Success)
	assert.Equal(t, "ollama", result.ProviderUsed)
	assert.Equal(t, 1, unknown.calls)
}

func TestGeneratorTokenEstimation(t *testing.T) {
	// Stub completions carry no usage data, so counts fall back to the
	// chars/4 heuristic and are flagged as estimated.
	local := &stubProvider{name: "ollama", reply: stubReply}
	registry := newTestRegistry(local)
	gen := NewGenerator(registry, time.Second, zap.NewNop())

	result := gen.Generate(context.Background(), "ollama", api.ReportWeekly, Subject{InternName: "Amara"})

	require.True(t, result.Success)
	assert.True(t, result.TokensEstimated)
	assert.Equal(t, EstimateTokens(stubReply), result.OutputTokens)
	assert.Greater(t, result.InputTokens, 0)
}

func TestGeneratorUnknownProvider(t *testing.T) {
	registry := newTestRegistry()
	gen := NewGenerator(registry, time.Second, zap.NewNop())

	result := gen.Generate(context.Background(), "missing", api.ReportWeekly, Subject{})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not registered")
}
