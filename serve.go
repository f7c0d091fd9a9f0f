package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bedrock/cache"
	"bedrock/component"
	"bedrock/config"
	"bedrock/db"
	"bedrock/service"
	"bedrock/tags"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/redis.v5"
)

const CONTENT_CACHE = "content"

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP server",
		Action: serve,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient, err = config.SetupRedis(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	caches, err := cache.NewManagerFromConfig(cfg.Caches, redisClient, logger)
	if err != nil {
		return err
	}

	resources, err := setupResources(cfg, caches, logger)
	if err != nil {
		return err
	}

	registry := component.NewRegistry(logger)
	classes := tags.NewClasses()
	if err := service.RegisterComponents(registry, classes); err != nil {
		return err
	}

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		cache.NewCollector("bedrock", caches),
	)

	routes, err := service.SetupRoutes(service.Dependencies{
		Caches:     caches,
		Resources:  resources,
		Components: registry,
		Library:    tags.NewLibrary(classes, logger),
		Metrics:    metrics,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{Addr: cfg.Server.Addr, Handler: routes}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr), zap.Strings("caches", caches.ListCaches()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// setupResources picks Elasticsearch when configured, else memory, and
// reads through the content cache when one is configured.
func setupResources(cfg *config.Config, caches *cache.Manager, logger *zap.Logger) (db.ResourceManager, error) {
	var resources db.ResourceManager

	if cfg.Elastic.URL != "" {
		elasticResources, err := db.SetupElasticResourceManager(cfg.Elastic)
		if err != nil {
			return nil, err
		}
		logger.Info("content repository", zap.String("backend", "elastic"), zap.String("index", cfg.Elastic.Index))
		resources = elasticResources
	} else {
		logger.Warn("content repository", zap.String("backend", "memory"))
		resources = db.NewMemoryResourceManager()
	}

	contentCache, err := caches.Cache(CONTENT_CACHE)
	if errors.Is(err, cache.ErrCacheNotFound) {
		return resources, nil
	}
	if err != nil {
		return nil, err
	}

	return db.NewCachedResourceManager(resources, contentCache), nil
}
