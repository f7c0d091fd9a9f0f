package cache

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of a cache's counters.
type Stats struct {
	HitCount           int64         `json:"hit_count"`
	MissCount          int64         `json:"miss_count"`
	LoadSuccessCount   int64         `json:"load_success_count"`
	LoadExceptionCount int64         `json:"load_exception_count"`
	TotalLoadTime      time.Duration `json:"total_load_time"`
	EvictionCount      int64         `json:"eviction_count"`
}

func (s Stats) RequestCount() int64 {
	return s.HitCount + s.MissCount
}

// HitRate is 1 when no requests were made.
func (s Stats) HitRate() float64 {
	requests := s.RequestCount()
	if requests == 0 {
		return 1
	}
	return float64(s.HitCount) / float64(requests)
}

func (s Stats) MissRate() float64 {
	requests := s.RequestCount()
	if requests == 0 {
		return 0
	}
	return float64(s.MissCount) / float64(requests)
}

func (s Stats) LoadCount() int64 {
	return s.LoadSuccessCount + s.LoadExceptionCount
}

func (s Stats) AverageLoadPenalty() time.Duration {
	loads := s.LoadCount()
	if loads == 0 {
		return 0
	}
	return s.TotalLoadTime / time.Duration(loads)
}

type statsCounter struct {
	hits           atomic.Int64
	misses         atomic.Int64
	loadSuccesses  atomic.Int64
	loadExceptions atomic.Int64
	totalLoadTime  atomic.Int64
	evictions      atomic.Int64
}

func (c *statsCounter) recordHit()  { c.hits.Add(1) }
func (c *statsCounter) recordMiss() { c.misses.Add(1) }

func (c *statsCounter) recordEviction() { c.evictions.Add(1) }

func (c *statsCounter) recordLoadSuccess(d time.Duration) {
	c.loadSuccesses.Add(1)
	c.totalLoadTime.Add(int64(d))
}

func (c *statsCounter) recordLoadException(d time.Duration) {
	c.loadExceptions.Add(1)
	c.totalLoadTime.Add(int64(d))
}

func (c *statsCounter) snapshot() Stats {
	return Stats{
		HitCount:           c.hits.Load(),
		MissCount:          c.misses.Load(),
		LoadSuccessCount:   c.loadSuccesses.Load(),
		LoadExceptionCount: c.loadExceptions.Load(),
		TotalLoadTime:      time.Duration(c.totalLoadTime.Load()),
		EvictionCount:      c.evictions.Load(),
	}
}
