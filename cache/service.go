package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"bedrock/config"

	"go.uber.org/zap"
	"gopkg.in/redis.v5"
)

// Service is the administrative façade over the configured caches.
type Service interface {
	ClearAllCaches() error
	ClearSpecificCache(name string) error
	GetCacheSize(name string) (int64, error)
	GetCacheStats(name string) (Stats, error)
	ListCaches() []string
}

// Manager owns the named caches. It is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	caches map[string]Cache
	logger *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		caches: make(map[string]Cache),
		logger: logger.With(zap.String("component", "cache")),
	}
}

// NewManagerFromConfig builds one cache per spec. client may be nil when no
// spec uses the redis backend.
func NewManagerFromConfig(specs []config.CacheSpec, client *redis.Client, logger *zap.Logger) (*Manager, error) {
	m := NewManager(logger)

	for _, spec := range specs {
		var c Cache

		switch spec.Backend {
		case "", config.BackendMemory:
			c = NewMemoryCache(spec.Name, spec.TTL, spec.CleanupInterval)
		case config.BackendRedis:
			if client == nil {
				return nil, fmt.Errorf("cache %s: redis backend requires a redis client", spec.Name)
			}
			c = NewRedisCache(client, spec.Name, spec.TTL)
		default:
			return nil, fmt.Errorf("cache %s: unknown backend %q", spec.Name, spec.Backend)
		}

		if err := m.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Manager) Register(c Cache) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.caches[c.Name()]; ok {
		return fmt.Errorf("cache %s is already registered", c.Name())
	}
	m.caches[c.Name()] = c

	m.logger.Debug("cache registered", zap.String("cache", c.Name()))
	return nil
}

// Cache returns the named cache or an error wrapping ErrCacheNotFound.
func (m *Manager) Cache(name string) (Cache, error) {
	m.mu.RLock()
	c, ok := m.caches[name]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheNotFound, name)
	}
	return c, nil
}

// lookup is Cache for the by-name façade operations; unknown names are
// logged before the error is returned.
func (m *Manager) lookup(name, operation string) (Cache, error) {
	c, err := m.Cache(name)
	if err != nil {
		m.logger.Warn("unknown cache", zap.String("cache", name), zap.String("operation", operation))
	}
	return c, err
}

func (m *Manager) ClearAllCaches() error {
	var errs []error

	for _, name := range m.ListCaches() {
		if err := m.ClearSpecificCache(name); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) ClearSpecificCache(name string) error {
	c, err := m.lookup(name, "clear")
	if err != nil {
		return err
	}

	if err := c.InvalidateAll(); err != nil {
		m.logger.Error("error clearing cache", zap.String("cache", name), zap.Error(err))
		return err
	}

	m.logger.Info("cache cleared", zap.String("cache", name))
	return nil
}

func (m *Manager) GetCacheSize(name string) (int64, error) {
	c, err := m.lookup(name, "size")
	if err != nil {
		return 0, err
	}
	return c.Size()
}

func (m *Manager) GetCacheStats(name string) (Stats, error) {
	c, err := m.lookup(name, "stats")
	if err != nil {
		return Stats{}, err
	}
	return c.Stats(), nil
}

func (m *Manager) ListCaches() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.caches))
	for name := range m.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
