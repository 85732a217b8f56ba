package search

import (
	"context"

	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
)

// Repository defines the backend contract for both retrieval modes.
// Implementations must apply the tenant as a hard filter.
type Repository interface {
	Lexical(ctx context.Context, text, tenantID string, size int) ([]hit.Hit, error)
	Vector(ctx context.Context, vector []float32, tenantID string, k, candidates int) ([]hit.Hit, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
