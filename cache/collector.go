package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Collector exports the counters of every cache held by a Manager.
type Collector struct {
	manager *Manager
	logger  *zap.Logger

	size           *prometheus.Desc
	hits           *prometheus.Desc
	misses         *prometheus.Desc
	evictions      *prometheus.Desc
	loadExceptions *prometheus.Desc
}

func NewCollector(namespace string, manager *Manager) *Collector {
	labels := []string{"cache"}

	return &Collector{
		manager: manager,
		logger:  manager.logger,
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "size"),
			"Number of entries in the cache", labels, nil),
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hits_total"),
			"Cache lookups that found an entry", labels, nil),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "misses_total"),
			"Cache lookups that found no entry", labels, nil),
		evictions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "evictions_total"),
			"Entries removed by expiry", labels, nil),
		loadExceptions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "load_exceptions_total"),
			"Loader calls that returned an error", labels, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.loadExceptions
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.manager.ListCaches() {
		cache, err := c.manager.Cache(name)
		if err != nil {
			continue
		}

		if size, err := cache.Size(); err != nil {
			c.logger.Warn("cache size unavailable", zap.String("cache", name), zap.Error(err))
		} else {
			ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(size), name)
		}

		stats := cache.Stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.HitCount), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.MissCount), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(stats.EvictionCount), name)
		ch <- prometheus.MustNewConstMetric(c.loadExceptions, prometheus.CounterValue, float64(stats.LoadExceptionCount), name)
	}
}
