package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/domain/search/fused"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
	"github.com/kailas-cloud/fusegate/internal/domain/search/mode"
	"github.com/kailas-cloud/fusegate/internal/domain/search/query"
	"github.com/kailas-cloud/fusegate/internal/metrics"
)

// Default result-set sizes.
const (
	DefaultTopK        = 5
	DefaultHybridFetch = 10
	DefaultCandidates  = 100
)

// Service runs keyword, semantic and hybrid retrieval for one tenant at a time.
// It keeps no state between calls.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger

	topK        int
	hybridFetch int
	candidates  int
}

// New creates a search service with default limits.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		embed:       embed,
		logger:      logger,
		topK:        DefaultTopK,
		hybridFetch: DefaultHybridFetch,
		candidates:  DefaultCandidates,
	}
}

// WithLimits overrides result-set sizes. Non-positive values keep the current setting.
func (s *Service) WithLimits(topK, hybridFetch, candidates int) *Service {
	if topK > 0 {
		s.topK = topK
	}
	if hybridFetch > 0 {
		s.hybridFetch = hybridFetch
	}
	if candidates > 0 {
		s.candidates = candidates
	}
	return s
}

// Keyword returns the top lexical hits in backend order.
func (s *Service) Keyword(ctx context.Context, q query.Query) (hits []hit.Hit, err error) {
	defer s.observe(mode.Keyword, time.Now(), &hits, &err)

	if !s.repo.SupportsTextSearch(ctx) {
		return nil, domain.ErrKeywordSearchNotSupported
	}
	return s.lexical(ctx, q, s.topK)
}

// Semantic embeds the query and returns the nearest hits in backend order.
func (s *Service) Semantic(ctx context.Context, q query.Query) (hits []hit.Hit, err error) {
	defer s.observe(mode.Semantic, time.Now(), &hits, &err)

	return s.vector(ctx, q, s.topK)
}

// Hybrid runs both modes concurrently, normalizes each result set and fuses
// them with the query's alpha. Either mode failing fails the whole call.
func (s *Service) Hybrid(ctx context.Context, q query.Query) (results []fused.Result, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveRetrieval(string(mode.Hybrid), started, len(results), err)
	}()

	if !s.repo.SupportsTextSearch(ctx) {
		return nil, domain.ErrKeywordSearchNotSupported
	}

	var lexHits, vecHits []hit.Hit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var lerr error
		lexHits, lerr = s.lexical(gctx, q, s.hybridFetch)
		return lerr
	})
	g.Go(func() error {
		var verr error
		vecHits, verr = s.vector(gctx, q, s.hybridFetch)
		return verr
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	results = Fuse(lexHits, vecHits, Normalize(lexHits), Normalize(vecHits), q.Alpha(), s.topK)

	s.logger.Debug("hybrid fused",
		zap.String("tenant", q.TenantID()),
		zap.Float64("alpha", q.Alpha()),
		zap.Int("lexical_hits", len(lexHits)),
		zap.Int("vector_hits", len(vecHits)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func (s *Service) lexical(ctx context.Context, q query.Query, size int) ([]hit.Hit, error) {
	hits, err := s.repo.Lexical(ctx, q.Text(), q.TenantID(), size)
	if err != nil {
		return nil, fmt.Errorf("%w: lexical: %w", domain.ErrRetrieval, err)
	}
	return hits, nil
}

func (s *Service) vector(ctx context.Context, q query.Query, k int) ([]hit.Hit, error) {
	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: vectorize query: %w", domain.ErrRetrieval, err)
	}
	domain.UsageFromContext(ctx).Record(emb.TotalTokens)

	hits, err := s.repo.Vector(ctx, emb.Embedding, q.TenantID(), k, max(s.candidates, k))
	if err != nil {
		return nil, fmt.Errorf("%w: vector: %w", domain.ErrRetrieval, err)
	}
	return hits, nil
}

func (s *Service) observe(m mode.Mode, started time.Time, hits *[]hit.Hit, err *error) {
	metrics.ObserveRetrieval(string(m), started, len(*hits), *err)
	if *err != nil {
		return
	}
	s.logger.Debug("retrieval done", zap.String("mode", string(m)), zap.Int("hits", len(*hits)))
}
