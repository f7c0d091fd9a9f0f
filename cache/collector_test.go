package cache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollector(t *testing.T) {
	m := NewManager(zap.NewNop())
	content := NewMemoryCache("content", 0, 0)
	require.NoError(t, m.Register(content))
	require.NoError(t, m.Register(NewMemoryCache("templates", 0, 0)))

	require.NoError(t, content.Put("a", []byte("1")))
	_, _, err := content.Get("a")
	require.NoError(t, err)

	collector := NewCollector("bedrock", m)

	assert.Equal(t, 10, testutil.CollectAndCount(collector))
	assert.Equal(t, 2, testutil.CollectAndCount(collector, "bedrock_cache_hits_total"))
}
