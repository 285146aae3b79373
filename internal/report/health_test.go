package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthCheckAvailable(t *testing.T) {
	up := &stubProvider{name: "ollama"}
	registry := newTestRegistry(up)
	checker := NewHealthChecker(registry, time.Second, zap.NewNop())

	record := checker.Check(context.Background(), "ollama")

	assert.True(t, record.Available)
	assert.Empty(t, record.LastError)
	assert.False(t, record.LastCheckedAt.IsZero())
	assert.Equal(t, []string{"ollama-model"}, record.Models)

	cached, ok := checker.Status("ollama")
	require.True(t, ok)
	assert.Equal(t, record.Available, cached.Available)
}

func TestHealthCheckUnavailable(t *testing.T) {
	down := &stubProvider{name: "gpt4", healthErr: errors.New("401 unauthorized")}
	registry := newTestRegistry(down)
	checker := NewHealthChecker(registry, time.Second, zap.NewNop())

	record := checker.Check(context.Background(), "gpt4")

	assert.False(t, record.Available)
	assert.Contains(t, record.LastError, "401")
	assert.Empty(t, record.Models)
}

func TestHealthCheckUnregistered(t *testing.T) {
	checker := NewHealthChecker(newTestRegistry(), time.Second, zap.NewNop())

	record := checker.Check(context.Background(), "ghost")

	assert.False(t, record.Available)
	assert.Contains(t, record.LastError, "not registered")
}

func TestHealthStatusBeforeProbe(t *testing.T) {
	registry := newTestRegistry(&stubProvider{name: "ollama"})
	checker := NewHealthChecker(registry, time.Second, zap.NewNop())

	_, ok := checker.Status("ollama")
	assert.False(t, ok)
}

func TestHealthCheckAllRefreshesEveryProvider(t *testing.T) {
	a := &stubProvider{name: "ollama"}
	b := &stubProvider{name: "gpt4", healthErr: errors.New("refused")}
	registry := newTestRegistry(a, b)
	checker := NewHealthChecker(registry, time.Second, zap.NewNop())

	snapshot := checker.CheckAll(context.Background())

	require.Len(t, snapshot, 2)
	assert.True(t, snapshot["ollama"].Available)
	assert.False(t, snapshot["gpt4"].Available)
}

func TestHealthRecheckMovesTimestampForward(t *testing.T) {
	registry := newTestRegistry(&stubProvider{name: "ollama"})
	checker := NewHealthChecker(registry, time.Second, zap.NewNop())

	first := checker.Check(context.Background(), "ollama")
	second := checker.Check(context.Background(), "ollama")

	assert.False(t, second.LastCheckedAt.Before(first.LastCheckedAt))
}
