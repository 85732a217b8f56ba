package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/bootstrap"
	"github.com/kailas-cloud/fusegate/internal/config"
	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	logpkg "github.com/kailas-cloud/fusegate/internal/logger"
	"github.com/kailas-cloud/fusegate/internal/metrics"
	searchrepo "github.com/kailas-cloud/fusegate/internal/repository/search"
	"github.com/kailas-cloud/fusegate/internal/resilience"
	chiTransport "github.com/kailas-cloud/fusegate/internal/transport/chi"
	healthuc "github.com/kailas-cloud/fusegate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/fusegate/internal/usecase/search"
	"github.com/kailas-cloud/fusegate/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fusegate API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("index", cfg.Index.Name),
	)

	// Explicit registration, no init().
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Connected to database")

	// Only the redis store doubles as a key-value cache.
	kv, _ := store.(db.KVStore)

	embedBreaker := bootstrap.Breaker("embedding", cfg.Resilience, logger)
	searchBreaker := bootstrap.Breaker("search", cfg.Resilience, logger)

	embedder, err := bootstrap.BuildEmbedder(cfg.Embedding, kv, embedBreaker, logger)
	if err != nil {
		logger.Fatal("Failed to build embedder", zap.Error(err))
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("cache", cfg.Embedding.Cache.Store),
	)

	layout := bootstrap.Layout(&cfg)
	repo := searchrepo.New(resilience.NewSearcher(store, searchBreaker), layout)
	searchSvc := searchuc.New(repo, embedder, logger).
		WithLimits(cfg.Search.TopK, cfg.Search.HybridFetch, cfg.Search.Candidates)

	healthOpts := []healthuc.Option{healthuc.WithIndex(store, layout.Name)}
	if hc, ok := embedder.(domain.HealthChecker); ok {
		healthOpts = append(healthOpts, healthuc.WithEmbedding(hc))
	}
	for _, b := range []*resilience.Breaker{embedBreaker, searchBreaker} {
		if b != nil {
			healthOpts = append(healthOpts, healthuc.WithBreakers(b))
		}
	}
	healthSvc := healthuc.New(store, healthOpts...)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger,
		chiTransport.WithDefaults(cfg.Search.DefaultTenant, *cfg.Search.DefaultAlpha),
		chiTransport.WithTimeout(time.Duration(cfg.Search.TimeoutSec)*time.Second),
		chiTransport.WithAPIKeys(cfg.Auth.APIKeys),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
