package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_PutAndGet(t *testing.T) {
	c := NewMemoryCache("content", time.Minute, time.Minute)

	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("/content/home", []byte("home")))

	value, ok, err := c.Get("/content/home")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("home"), value)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.HitCount)
	assert.Equal(t, int64(1), stats.MissCount)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestMemoryCache_GetOrLoad(t *testing.T) {
	c := NewMemoryCache("content", 0, 0)
	calls := 0
	loader := func() ([]byte, error) {
		calls++
		return []byte("loaded"), nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.GetOrLoad("key", loader)
		require.NoError(t, err)
		assert.Equal(t, []byte("loaded"), value)
	}

	assert.Equal(t, 1, calls)
	stats := c.Stats()
	assert.Equal(t, int64(1), stats.LoadSuccessCount)
	assert.Equal(t, int64(2), stats.HitCount)
	assert.Equal(t, int64(1), stats.MissCount)
}

func TestMemoryCache_GetOrLoadError(t *testing.T) {
	c := NewMemoryCache("content", 0, 0)
	boom := errors.New("boom")

	_, err := c.GetOrLoad("key", func() ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	size, err := c.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
	assert.Equal(t, int64(1), c.Stats().LoadExceptionCount)
}

func TestMemoryCache_InvalidateIsNotEviction(t *testing.T) {
	c := NewMemoryCache("content", 0, 0)
	require.NoError(t, c.Put("a", []byte("1")))
	require.NoError(t, c.Put("b", []byte("2")))

	require.NoError(t, c.Invalidate("a"))

	size, err := c.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
	assert.Zero(t, c.Stats().EvictionCount)

	require.NoError(t, c.InvalidateAll())
	size, err = c.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestMemoryCache_ExpiryCountsEviction(t *testing.T) {
	c := NewMemoryCache("content", 10*time.Millisecond, time.Hour)
	require.NoError(t, c.Put("a", []byte("1")))

	time.Sleep(30 * time.Millisecond)
	c.items.DeleteExpired()

	_, ok, err := c.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().EvictionCount)
}

func TestStats_Rates(t *testing.T) {
	var empty Stats
	assert.Equal(t, 1.0, empty.HitRate())
	assert.Equal(t, 0.0, empty.MissRate())
	assert.Zero(t, empty.AverageLoadPenalty())

	s := Stats{
		HitCount:           3,
		MissCount:          1,
		LoadSuccessCount:   1,
		LoadExceptionCount: 1,
		TotalLoadTime:      4 * time.Millisecond,
	}
	assert.Equal(t, int64(4), s.RequestCount())
	assert.InDelta(t, 0.75, s.HitRate(), 1e-9)
	assert.InDelta(t, 0.25, s.MissRate(), 1e-9)
	assert.Equal(t, int64(2), s.LoadCount())
	assert.Equal(t, 2*time.Millisecond, s.AverageLoadPenalty())
}
