package seed

import (
	"context"

	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

// Writer provisions the index and stores documents.
type Writer interface {
	EnsureIndex(ctx context.Context, recreate bool) (bool, error)
	Put(ctx context.Context, docs []domdoc.Document, vectors [][]float32) error
}
