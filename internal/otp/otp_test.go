package otp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/cache"
)

type captureSender struct {
	email string
	code  string
	err   error
}

func (c *captureSender) Send(ctx context.Context, email, code string) error {
	if c.err != nil {
		return c.err
	}
	c.email = email
	c.code = code
	return nil
}

func TestIssueAndConsume(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(cache.NewMemoryCache(), sender, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "intern@example.com"))
	assert.Equal(t, "intern@example.com", sender.email)
	assert.Len(t, sender.code, 6)

	require.NoError(t, svc.Verify(ctx, "intern@example.com", sender.code))
	require.NoError(t, svc.Consume(ctx, "intern@example.com", sender.code))

	// Consumed codes cannot be replayed.
	assert.ErrorIs(t, svc.Consume(ctx, "intern@example.com", sender.code), ErrCodeInvalid)
}

func TestVerifyWrongCode(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(cache.NewMemoryCache(), sender, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "intern@example.com"))
	assert.ErrorIs(t, svc.Verify(ctx, "intern@example.com", "000000"), ErrCodeInvalid)
}

func TestVerifyUnknownEmail(t *testing.T) {
	svc := NewService(cache.NewMemoryCache(), &captureSender{}, zap.NewNop())
	assert.ErrorIs(t, svc.Verify(context.Background(), "nobody@example.com", "123456"), ErrCodeInvalid)
}

func TestIssueReplacesEarlierCode(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(cache.NewMemoryCache(), sender, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "intern@example.com"))
	first := sender.code
	require.NoError(t, svc.Issue(ctx, "intern@example.com"))
	second := sender.code

	if first != second {
		assert.ErrorIs(t, svc.Verify(ctx, "intern@example.com", first), ErrCodeInvalid)
	}
	assert.NoError(t, svc.Verify(ctx, "intern@example.com", second))
}

func TestIssueDeliveryFailureLeavesNoCode(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	mem := cache.NewMemoryCache()
	svc := NewService(mem, sender, zap.NewNop())
	ctx := context.Background()

	require.Error(t, svc.Issue(ctx, "intern@example.com"))

	var stored string
	assert.ErrorIs(t, mem.Get(ctx, "otp:intern@example.com", &stored), cache.ErrCacheMiss)
}
