package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

// store is the consumer interface for provisioning (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	PutRecords(ctx context.Context, def *db.IndexDefinition, records []db.Record) error
}

// Repo provisions the document index and writes documents into it.
type Repo struct {
	store  store
	layout domain.IndexLayout
	def    *db.IndexDefinition
}

// New creates a document repository for layout.
func New(s store, layout domain.IndexLayout, hnsw db.HNSWParams) (*Repo, error) {
	def, err := db.FromLayout(layout, hnsw)
	if err != nil {
		return nil, fmt.Errorf("build index definition: %w", err)
	}
	return &Repo{store: s, layout: layout, def: def}, nil
}

// Definition returns the index schema the repository provisions.
func (r *Repo) Definition() *db.IndexDefinition { return r.def }

// EnsureIndex creates the index if missing. With recreate, an existing index
// is dropped first. Returns true if an index was created.
func (r *Repo) EnsureIndex(ctx context.Context, recreate bool) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.def.Name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.def.Name, err)
	}

	if exists && !recreate {
		return false, nil
	}
	if exists {
		if err := r.store.DropIndex(ctx, r.def.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return false, fmt.Errorf("drop index %s: %w", r.def.Name, err)
		}
	}

	if err := r.store.CreateIndex(ctx, r.def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.def.Name, err)
	}
	return true, nil
}

// Put writes docs with their vectors. vectors[i] belongs to docs[i].
func (r *Repo) Put(ctx context.Context, docs []domdoc.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("%w: %d documents, %d vectors", domain.ErrInvalidDocument, len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	records := make([]db.Record, len(docs))
	for i := range docs {
		if len(vectors[i]) != r.layout.Dimensions {
			return fmt.Errorf("document %s: %w: got %d, want %d",
				docs[i].ID(), domain.ErrVectorDimMismatch, len(vectors[i]), r.layout.Dimensions)
		}
		records[i] = toRecord(r.layout, &docs[i], vectors[i])
	}

	if err := r.store.PutRecords(ctx, r.def, records); err != nil {
		return fmt.Errorf("put %d records: %w", len(records), err)
	}
	return nil
}
