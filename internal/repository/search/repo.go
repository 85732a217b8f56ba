package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/domain/search/filter"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/search.Repository over one index layout.
type Repo struct {
	store  store
	layout domain.IndexLayout
}

// New creates a search repository.
func New(s store, layout domain.IndexLayout) *Repo {
	return &Repo{store: s, layout: layout}
}

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// Lexical runs a tenant-filtered BM25 query and returns up to size hits in
// backend relevance order.
func (r *Repo) Lexical(ctx context.Context, text, tenantID string, size int) ([]hit.Hit, error) {
	tenant, err := filter.Tenant(r.layout.TenantField, tenantID)
	if err != nil {
		return nil, err
	}

	sr, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    r.layout.Name,
		Query:        text,
		TextFields:   r.layout.TextFields,
		Filters:      tenant,
		TopK:         size,
		ReturnFields: r.returnFields(),
	})
	if err != nil {
		return nil, fmt.Errorf("search bm25 %s: %w", r.layout.Name, err)
	}
	return r.toHits(sr, tenantID), nil
}

// Vector runs a tenant-filtered KNN query drawing from a pool of candidates.
func (r *Repo) Vector(
	ctx context.Context, vector []float32, tenantID string, k, candidates int,
) ([]hit.Hit, error) {
	tenant, err := filter.Tenant(r.layout.TenantField, tenantID)
	if err != nil {
		return nil, err
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.layout.Name,
		VectorField:  r.layout.VectorField,
		Filters:      tenant,
		Vector:       vector,
		K:            k,
		EFRuntime:    candidates,
		ReturnFields: r.returnFields(),
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", r.layout.Name, err)
	}
	return r.toHits(sr, tenantID), nil
}

// returnFields asks for the tenant too so toHits can verify isolation.
func (r *Repo) returnFields() []string {
	fields := make([]string, 0, len(r.layout.DisplayFields)+1)
	fields = append(fields, r.layout.DisplayFields...)
	return append(fields, r.layout.TenantField)
}

// toHits converts entries into hits, stripping the key prefix. Entries whose
// stored tenant differs from the requested one are dropped.
func (r *Repo) toHits(sr *db.SearchResult, tenantID string) []hit.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	hits := make([]hit.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if t, ok := entry.Fields[r.layout.TenantField]; ok && t != tenantID {
			continue
		}
		id := strings.TrimPrefix(entry.Key, r.layout.KeyPrefix)
		doc := hit.DocumentFromFields(entry.Fields, domain.FieldTitle, domain.FieldURL,
			r.layout.TenantField, r.layout.VectorField)
		hits = append(hits, hit.New(id, entry.Score, doc))
	}
	return hits
}
