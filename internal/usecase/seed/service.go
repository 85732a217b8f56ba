package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/domain"
	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

// DefaultBatchSize is the number of documents embedded and written per round.
const DefaultBatchSize = 64

// Result summarizes a seed run.
type Result struct {
	IndexCreated bool
	Documents    int
	Tokens       int
	Duration     time.Duration
}

// Service provisions the index and loads documents with their embeddings.
type Service struct {
	writer    Writer
	embed     domain.Embedder
	batchSize int
	logger    *zap.Logger
}

// New creates a seed service.
func New(w Writer, embed domain.Embedder, logger *zap.Logger) *Service {
	return &Service{writer: w, embed: embed, batchSize: DefaultBatchSize, logger: logger}
}

// WithBatchSize overrides the batch size. Non-positive values are ignored.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Run ensures the index exists (dropping it first with recreate) and writes
// docs in batches. A failed batch aborts the run; earlier batches stay written.
func (s *Service) Run(ctx context.Context, docs []domdoc.Document, recreate bool) (Result, error) {
	start := time.Now()

	created, err := s.writer.EnsureIndex(ctx, recreate)
	if err != nil {
		return Result{}, fmt.Errorf("ensure index: %w", err)
	}
	res := Result{IndexCreated: created}
	s.logger.Info("Index ready", zap.Bool("created", created), zap.Bool("recreate", recreate))

	for offset := 0; offset < len(docs); offset += s.batchSize {
		end := min(offset+s.batchSize, len(docs))
		batch := docs[offset:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].EmbeddingText()
		}

		emb, err := domain.EmbedAll(ctx, s.embed, texts)
		if err != nil {
			return res, fmt.Errorf("embed documents %d-%d: %w", offset, end-1, err)
		}

		if err := s.writer.Put(ctx, batch, emb.Embeddings); err != nil {
			return res, fmt.Errorf("write documents %d-%d: %w", offset, end-1, err)
		}

		res.Documents += len(batch)
		res.Tokens += emb.TotalTokens
		s.logger.Debug("Seed batch written",
			zap.Int("offset", offset),
			zap.Int("size", len(batch)),
			zap.Int("tokens", emb.TotalTokens),
		)
	}

	res.Duration = time.Since(start)
	return res, nil
}
