package service

import (
	"errors"
	"net/http"
	"time"

	"bedrock/cache"
	"bedrock/request"
	"bedrock/servlet"

	"github.com/gin-gonic/gin"
)

// CacheServlet exposes the cache façade: GET lists or describes caches,
// DELETE clears them.
type CacheServlet struct {
	servlet.Base
	caches cache.Service
}

func NewCacheServlet(caches cache.Service) *CacheServlet {
	return &CacheServlet{caches: caches}
}

type cacheSummary struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type cacheStats struct {
	cache.Stats
	RequestCount       int64         `json:"request_count"`
	HitRate            float64       `json:"hit_rate"`
	MissRate           float64       `json:"miss_rate"`
	AverageLoadPenalty time.Duration `json:"average_load_penalty"`
}

type cacheDetail struct {
	Name  string     `json:"name"`
	Size  int64      `json:"size"`
	Stats cacheStats `json:"stats"`
}

func (s *CacheServlet) AllowedMethods() []string {
	return []string{http.MethodDelete, http.MethodGet}
}

func (s *CacheServlet) ProcessGet(req *request.ComponentRequest) error {
	name := req.Param("name")

	if name == "" {
		names := s.caches.ListCaches()
		summaries := make([]cacheSummary, 0, len(names))
		for _, cacheName := range names {
			size, err := s.caches.GetCacheSize(cacheName)
			if err != nil {
				return err
			}
			summaries = append(summaries, cacheSummary{cacheName, size})
		}
		return servlet.WriteJSON(req, http.StatusOK, gin.H{"caches": summaries})
	}

	size, err := s.caches.GetCacheSize(name)
	if err != nil {
		return cacheError(err)
	}

	stats, err := s.caches.GetCacheStats(name)
	if err != nil {
		return cacheError(err)
	}

	return servlet.WriteJSON(req, http.StatusOK, cacheDetail{
		Name: name,
		Size: size,
		Stats: cacheStats{
			Stats:              stats,
			RequestCount:       stats.RequestCount(),
			HitRate:            stats.HitRate(),
			MissRate:           stats.MissRate(),
			AverageLoadPenalty: stats.AverageLoadPenalty(),
		},
	})
}

func (s *CacheServlet) ProcessDelete(req *request.ComponentRequest) error {
	name := req.Param("name")

	if name == "" {
		if err := s.caches.ClearAllCaches(); err != nil {
			return err
		}
		return servlet.WriteJSON(req, http.StatusOK, gin.H{"status": "cleared", "caches": s.caches.ListCaches()})
	}

	if err := s.caches.ClearSpecificCache(name); err != nil {
		return cacheError(err)
	}
	return servlet.WriteJSON(req, http.StatusOK, gin.H{"status": "cleared", "caches": []string{name}})
}

func cacheError(err error) error {
	if errors.Is(err, cache.ErrCacheNotFound) {
		return &servlet.StatusError{Status: http.StatusNotFound, Message: err.Error(), Err: err}
	}
	return err
}
