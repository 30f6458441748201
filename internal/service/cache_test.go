package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache[[]string](time.Hour)
	c.now = func() time.Time { return now }

	_, ok := c.Get()
	assert.False(t, ok)

	c.Set([]string{"a"})
	got, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, got)

	now = now.Add(61 * time.Minute)
	_, ok = c.Get()
	assert.False(t, ok)

	c.Set([]string{"b"})
	c.Invalidate()
	_, ok = c.Get()
	assert.False(t, ok)
}
