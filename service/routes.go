package service

import (
	"net/http"

	"bedrock/cache"
	"bedrock/component"
	"bedrock/db"
	"bedrock/servlet"
	"bedrock/tags"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Dependencies struct {
	Caches     *cache.Manager
	Resources  db.ResourceManager
	Components *component.Registry
	Library    *tags.Library
	Metrics    *prometheus.Registry
	Logger     *zap.Logger
}

func SetupRoutes(deps Dependencies) (*gin.Engine, error) {
	routes := gin.New()
	routes.Use(Recovery(deps.Logger), RequestLogger(deps.Logger))

	routes.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "caches": len(deps.Caches.ListCaches())})
	})

	if deps.Metrics != nil {
		routes.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	system := servlet.NewDispatcher(nil, deps.Logger)
	cacheServlet := NewCacheServlet(deps.Caches)
	system.Mount(routes, "/system/caches", cacheServlet)
	system.Mount(routes, "/system/caches/:name", cacheServlet)
	system.Mount(routes, "/system/content/store", NewStoreServlet(deps.Resources))

	contentServlet, err := NewContentServlet(servlet.Base{Components: deps.Components}, deps.Resources, deps.Library)
	if err != nil {
		return nil, err
	}
	servlet.NewDispatcher(deps.Resources, deps.Logger).Mount(routes, "/content/*path", contentServlet)

	return routes, nil
}
