package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type payload struct {
		Code string `json:"code"`
	}

	require.NoError(t, c.Set(ctx, "otp:user@example.com", payload{Code: "482913"}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "otp:user@example.com", &got))
	assert.Equal(t, "482913", got.Code)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	var dest string
	err := c.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", -time.Second))

	var dest string
	err := c.Get(ctx, "short", &dest)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var dest string
	assert.ErrorIs(t, c.Get(ctx, "k", &dest), ErrCacheMiss)
}
