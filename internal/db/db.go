package db

import (
	"context"
	"time"
)

// Store is the backend facade the server and the seed tool are wired with.
// Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	Searcher
	Provisioner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs the two retrieval primitives over an index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchBM25(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Record is one document row as written by the provisioner.
type Record struct {
	ID     string
	Fields map[string]string
	Vector []float32
}

// Provisioner creates the index and loads documents. Used by tooling only.
type Provisioner interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	PutRecords(ctx context.Context, def *IndexDefinition, records []Record) error
}

// KVStore provides the byte-value operations the embedding cache needs.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
