package cache

import (
	"errors"
	"testing"
	"time"

	"bedrock/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	_, client := setupTestRedis(t)
	m, err := NewManagerFromConfig([]config.CacheSpec{
		{Name: "content", Backend: config.BackendMemory, TTL: time.Minute},
		{Name: "navigation", Backend: config.BackendRedis},
	}, client, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestManager_ListCaches(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, []string{"content", "navigation"}, m.ListCaches())
}

func TestManager_SizeStatsAndClear(t *testing.T) {
	m := newTestManager(t)

	for _, name := range m.ListCaches() {
		c, err := m.Cache(name)
		require.NoError(t, err)
		require.NoError(t, c.Put("k1", []byte("v1")))
		require.NoError(t, c.Put("k2", []byte("v2")))
		_, _, err = c.Get("k1")
		require.NoError(t, err)
	}

	size, err := m.GetCacheSize("navigation")
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	stats, err := m.GetCacheStats("content")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.HitCount)

	require.NoError(t, m.ClearSpecificCache("content"))
	size, err = m.GetCacheSize("content")
	require.NoError(t, err)
	assert.Zero(t, size)

	size, err = m.GetCacheSize("navigation")
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	require.NoError(t, m.ClearAllCaches())
	size, err = m.GetCacheSize("navigation")
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestManager_DuplicateRegistration(t *testing.T) {
	m := NewManager(zap.NewNop())
	require.NoError(t, m.Register(NewMemoryCache("content", 0, 0)))
	assert.Error(t, m.Register(NewMemoryCache("content", 0, 0)))
}

func TestNewManagerFromConfig_RedisWithoutClient(t *testing.T) {
	_, err := NewManagerFromConfig([]config.CacheSpec{
		{Name: "navigation", Backend: config.BackendRedis},
	}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestManager_ClearAllJoinsErrors(t *testing.T) {
	mr, client := setupTestRedis(t)
	m := NewManager(zap.NewNop())
	require.NoError(t, m.Register(NewMemoryCache("content", 0, 0)))
	require.NoError(t, m.Register(NewRedisCache(client, "navigation", 0)))
	mr.Close()

	err := m.ClearAllCaches()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation")
}

func TestManager_UnknownNamesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewManager(zap.New(core))
	require.NoError(t, m.Register(NewMemoryCache("content", 0, 0)))

	_, err := m.GetCacheSize("missing")
	assert.ErrorIs(t, err, ErrCacheNotFound)
	_, err = m.GetCacheStats("missing")
	assert.ErrorIs(t, err, ErrCacheNotFound)
	assert.ErrorIs(t, m.ClearSpecificCache("missing"), ErrCacheNotFound)

	entries := logs.FilterMessage("unknown cache").All()
	require.Len(t, entries, 3)
	for i, operation := range []string{"size", "stats", "clear"} {
		assert.Equal(t, "missing", entries[i].ContextMap()["cache"])
		assert.Equal(t, operation, entries[i].ContextMap()["operation"])
	}

	_, err = m.GetCacheSize("content")
	require.NoError(t, err)
	assert.Equal(t, 3, logs.FilterMessage("unknown cache").Len())
}

func TestManager_UnknownNamesAlwaysFail(t *testing.T) {
	m := newTestManager(t)
	configured := map[string]bool{"content": true, "navigation": true}

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.String().Filter(func(s string) bool { return !configured[s] }).Draw(rt, "name")

		if err := m.ClearSpecificCache(name); !errors.Is(err, ErrCacheNotFound) {
			rt.Fatalf("clear %q: got %v", name, err)
		}

		size, err := m.GetCacheSize(name)
		if !errors.Is(err, ErrCacheNotFound) || size != 0 {
			rt.Fatalf("size %q: got %d, %v", name, size, err)
		}

		stats, err := m.GetCacheStats(name)
		if !errors.Is(err, ErrCacheNotFound) || stats != (Stats{}) {
			rt.Fatalf("stats %q: got %+v, %v", name, stats, err)
		}
	})
}
