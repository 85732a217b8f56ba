package resilience

import (
	"context"

	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
)

// Compile-time checks.
var (
	_ db.Searcher     = (*Searcher)(nil)
	_ domain.Embedder = (*Embedder)(nil)
)

// Searcher guards backend search calls with a breaker.
type Searcher struct {
	inner   db.Searcher
	breaker *Breaker
}

// NewSearcher wraps inner. A nil breaker makes it a pass-through.
func NewSearcher(inner db.Searcher, b *Breaker) *Searcher {
	return &Searcher{inner: inner, breaker: b}
}

// SearchKNN runs the vector query through the breaker.
func (s *Searcher) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	return execute(ctx, s.breaker, func(ctx context.Context) (*db.SearchResult, error) {
		return s.inner.SearchKNN(ctx, q)
	})
}

// SearchBM25 runs the text query through the breaker.
func (s *Searcher) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	return execute(ctx, s.breaker, func(ctx context.Context) (*db.SearchResult, error) {
		return s.inner.SearchBM25(ctx, q)
	})
}

// SupportsTextSearch is not guarded: it never reaches the backend.
func (s *Searcher) SupportsTextSearch(ctx context.Context) bool {
	return s.inner.SupportsTextSearch(ctx)
}

// Embedder guards the embedding provider with a breaker.
type Embedder struct {
	inner   domain.Embedder
	breaker *Breaker
}

// NewEmbedder wraps inner. A nil breaker makes it a pass-through.
func NewEmbedder(inner domain.Embedder, b *Breaker) *Embedder {
	return &Embedder{inner: inner, breaker: b}
}

// Embed runs the provider call through the breaker.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return execute(ctx, e.breaker, func(ctx context.Context) (domain.EmbeddingResult, error) {
		return e.inner.Embed(ctx, text)
	})
}

// HealthCheck bypasses the breaker so /health reports the provider itself.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
