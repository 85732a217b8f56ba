// Package lookup provides a deterministic embedder driven by a rule table.
// It serves demos and tests that must run without an embedding API.
package lookup

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/fusegate/internal/domain"
)

// Compile-time check.
var _ domain.Embedder = (*Embedder)(nil)

// Rule maps texts containing Match (case-insensitive) to Vector.
type Rule struct {
	Match  string
	Vector []float32
}

// Embedder returns the vector of the first matching rule, or the fallback.
type Embedder struct {
	rules      []Rule
	fallback   []float32
	dimensions int
}

// New validates the table: every vector must share one dimension and the
// fallback is required.
func New(rules []Rule, fallback []float32) (*Embedder, error) {
	if len(fallback) == 0 {
		return nil, fmt.Errorf("lookup embedder: fallback vector is required")
	}
	dims := len(fallback)

	normalized := make([]Rule, 0, len(rules))
	for i, r := range rules {
		match := strings.ToLower(strings.TrimSpace(r.Match))
		if match == "" {
			return nil, fmt.Errorf("lookup embedder: rule %d: match is required", i)
		}
		if len(r.Vector) != dims {
			return nil, fmt.Errorf("lookup embedder: rule %d (%q): %w: got %d, want %d",
				i, r.Match, domain.ErrVectorDimMismatch, len(r.Vector), dims)
		}
		normalized = append(normalized, Rule{Match: match, Vector: slices.Clone(r.Vector)})
	}

	return &Embedder{rules: normalized, fallback: slices.Clone(fallback), dimensions: dims}, nil
}

// Dimensions returns the vector size of the table.
func (e *Embedder) Dimensions() int { return e.dimensions }

// Embed never fails and consumes no tokens. Callers get their own copy.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, err
	}

	lower := strings.ToLower(text)
	for _, r := range e.rules {
		if strings.Contains(lower, r.Match) {
			return domain.EmbeddingResult{Embedding: slices.Clone(r.Vector)}, nil
		}
	}
	return domain.EmbeddingResult{Embedding: slices.Clone(e.fallback)}, nil
}

// HealthCheck always succeeds.
func (e *Embedder) HealthCheck(context.Context) error { return nil }
