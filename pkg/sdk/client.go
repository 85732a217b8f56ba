package fusegate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/bootstrap"
	"github.com/kailas-cloud/fusegate/internal/config"
	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/domain/search/fused"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
	"github.com/kailas-cloud/fusegate/internal/domain/search/query"
	searchrepo "github.com/kailas-cloud/fusegate/internal/repository/search"
	healthuc "github.com/kailas-cloud/fusegate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/fusegate/internal/usecase/search"
)

const (
	defaultReadinessTimeoutSec = 10
	defaultIndexName           = "fusegate_docs"
	defaultRedisKeyPrefix      = "fusegate:doc:"
	defaultDimensions          = 1024
)

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Keyword(ctx context.Context, q query.Query) ([]hit.Hit, error)
	Semantic(ctx context.Context, q query.Query) ([]hit.Hit, error)
	Hybrid(ctx context.Context, q query.Query) ([]fused.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the fusegate SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the backend.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexName:  defaultIndexName,
		dimensions: defaultDimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("fusegate: backend required (use WithRedis or WithPostgres)")
	}
	if cfg.driver == config.DriverRedis && cfg.keyPrefix == "" {
		cfg.keyPrefix = defaultRedisKeyPrefix
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := bootstrap.OpenStore(ctx, config.DatabaseConfig{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		URL:              cfg.url,
		ReadinessTimeout: defaultReadinessTimeoutSec,
	})
	if err != nil {
		return nil, fmt.Errorf("fusegate: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	layout := domain.DefaultIndexLayout(cfg.indexName, cfg.keyPrefix, cfg.dimensions)

	var emb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	}

	searchSvc := searchuc.New(searchrepo.New(store, layout), emb, zap.NewNop()).
		WithLimits(cfg.topK, cfg.hybridFetch, cfg.candidates)
	healthSvc := healthuc.New(store, healthuc.WithIndex(store, layout.Name))

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Keyword returns the top BM25 hits for the query's tenant.
func (c *Client) Keyword(ctx context.Context, q Query) (hits []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("keyword", start, err) }()

	dq, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	res, err := c.searchSvc.Keyword(ctx, dq)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return hitsFromDomain(res), nil
}

// Semantic returns the nearest vector hits for the query's tenant.
func (c *Client) Semantic(ctx context.Context, q Query) (hits []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("semantic", start, err) }()

	dq, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	res, err := c.searchSvc.Semantic(ctx, dq)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	return hitsFromDomain(res), nil
}

// Hybrid fuses keyword and semantic results with the query's alpha.
func (c *Client) Hybrid(ctx context.Context, q Query) (rows []FusedHit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("hybrid", start, err) }()

	dq, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	res, err := c.searchSvc.Hybrid(ctx, dq)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	rows = make([]FusedHit, len(res))
	for i, r := range res {
		rows[i] = FusedHit{
			ID:          r.ID,
			HybridScore: r.HybridScore,
			BM25Score:   r.LexicalScore,
			VectorScore: r.VectorScore,
			Title:       r.Document.Title,
			URL:         r.Document.URL,
			Source:      Source(r.Source),
			Fields:      r.Document.Extra,
		}
	}
	return rows, nil
}

func (q Query) toDomain() (query.Query, error) {
	dq, err := query.New(q.Text, q.TenantID, q.Alpha)
	if err != nil {
		return query.Query{}, fmt.Errorf("fusegate: %w", err)
	}
	return dq, nil
}

func hitsFromDomain(res []hit.Hit) []Hit {
	out := make([]Hit, len(res))
	for i, h := range res {
		out[i] = Hit{
			ID:     h.ID,
			Score:  h.Score,
			Title:  h.Document.Title,
			URL:    h.Document.URL,
			Fields: h.Document.Extra,
		}
	}
	return out
}
