// Package bootstrap assembles the backend store and the embedder chain from
// configuration. It is shared by the API server and the seed tool.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/config"
	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/fusegate/internal/db/redis"
	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/metrics"
	"github.com/kailas-cloud/fusegate/internal/repository/embcache"
	"github.com/kailas-cloud/fusegate/internal/resilience"
	"github.com/kailas-cloud/fusegate/internal/transport/lookup"
	openaiEmb "github.com/kailas-cloud/fusegate/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/fusegate/internal/usecase/embedding"
)

var errNoKVStore = errors.New("embedding cache store redis requires the redis driver")

// OpenStore connects to the configured backend and waits until it answers.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case config.DriverPostgres:
		store, err = postgres.NewStore(ctx, postgres.Config{
			URL:      cfg.URL,
			MaxConns: cfg.MaxConns,
			Language: cfg.Language,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
	}
	return store, nil
}

// Layout returns the document index layout for the configuration.
func Layout(cfg *config.Config) domain.IndexLayout {
	return domain.DefaultIndexLayout(cfg.Index.Name, cfg.Index.KeyPrefix, cfg.Embedding.Dimensions)
}

// HNSW returns the vector graph parameters for the configuration.
func HNSW(cfg *config.Config) db.HNSWParams {
	return db.HNSWParams{M: cfg.Index.HNSWM, EFConstruction: cfg.Index.HNSWEFConstruct}
}

// Breaker creates a circuit breaker, or nil when breakers are disabled.
// A nil *resilience.Breaker passes every call through.
func Breaker(name string, cfg config.ResilienceConfig, logger *zap.Logger) *resilience.Breaker {
	if !cfg.BreakerEnabled {
		return nil
	}
	return resilience.NewBreaker(name, resilience.Config{
		MinRequests:      cfg.MinRequests,
		FailureRatio:     cfg.FailureRatio,
		OpenTimeout:      time.Duration(cfg.OpenTimeoutSec) * time.Second,
		HalfOpenMaxCalls: cfg.HalfOpenMaxCalls,
	}, logger)
}

// BuildEmbedder assembles the decorator chain:
// provider -> breaker -> cache -> instrumented -> instruction.
// kv backs the redis cache store and may be nil otherwise.
func BuildEmbedder(
	cfg config.EmbeddingConfig,
	kv db.KVStore,
	breaker *resilience.Breaker,
	logger *zap.Logger,
) (domain.Embedder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := provider(cfg, logger)
	if err != nil {
		return nil, err
	}

	var embedder domain.Embedder = resilience.NewEmbedder(base, breaker)

	switch cfg.Cache.Store {
	case config.CacheRedis:
		if kv == nil {
			return nil, errNoKVStore
		}
		embedder = embcache.New(embedder, kv, cacheOptions(cfg, config.CacheRedis),
			metrics.EmbeddingCacheTotal, logger)
	case config.CacheMemory:
		mem := embcache.NewMemoryStore(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSec)*time.Second)
		embedder = embcache.New(embedder, mem, cacheOptions(cfg, config.CacheMemory),
			metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Name, cfg.Model, cfg.Dimensions, logger)

	// Outermost, so cache keys include the instruction.
	if cfg.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, cfg.QueryInstruction)
	}
	return embedder, nil
}

func provider(cfg config.EmbeddingConfig, logger *zap.Logger) (domain.Embedder, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Name,
			Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
			Logger:     logger,
		}), nil
	case config.ProviderLookup:
		rules := make([]lookup.Rule, len(cfg.Lookup.Rules))
		for i, r := range cfg.Lookup.Rules {
			rules[i] = lookup.Rule{Match: r.Match, Vector: r.Vector}
		}
		e, err := lookup.New(rules, cfg.Lookup.Fallback)
		if err != nil {
			return nil, fmt.Errorf("lookup embedder: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func cacheOptions(cfg config.EmbeddingConfig, store string) embcache.Options {
	return embcache.Options{
		StoreName: store,
		Model:     cfg.Model,
		TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
	}
}
