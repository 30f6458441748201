package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "a", "1", 0))
	v, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, kv.Set(ctx, "a", "2", 0))
	v, _, _ = kv.Get(ctx, "a")
	assert.Equal(t, "2", v)

	require.NoError(t, kv.Delete(ctx, "a"))
	_, ok, _ = kv.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryKV_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, "short", "x", time.Minute))
	require.NoError(t, kv.Set(ctx, "forever", "y", 0))

	_, ok, _ := kv.Get(ctx, "short")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = kv.Get(ctx, "short")
	assert.False(t, ok)

	n, err := kv.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, ok, _ := kv.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}
