package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/domain"
	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

type mockWriter struct {
	ensureErr error
	putErr    error
	recreate  bool
	puts      [][]domdoc.Document
	vectors   [][][]float32
}

func (m *mockWriter) EnsureIndex(_ context.Context, recreate bool) (bool, error) {
	m.recreate = recreate
	return m.ensureErr == nil, m.ensureErr
}

func (m *mockWriter) Put(_ context.Context, docs []domdoc.Document, vectors [][]float32) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts = append(m.puts, docs)
	m.vectors = append(m.vectors, vectors)
	return nil
}

// mockEmbedder returns a one-dim vector holding the text length.
type mockEmbedder struct {
	err   error
	texts []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	m.texts = append(m.texts, text)
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text))}, TotalTokens: 1}, nil
}

func testDocs(t *testing.T, n int) []domdoc.Document {
	t.Helper()
	docs := make([]domdoc.Document, n)
	for i := range docs {
		d, err := domdoc.New(strings.Repeat("d", i+1), "demo", "Title", "", "body", nil)
		if err != nil {
			t.Fatalf("document.New: %v", err)
		}
		docs[i] = d
	}
	return docs
}

func TestRun_Batches(t *testing.T) {
	w := &mockWriter{}
	e := &mockEmbedder{}
	svc := New(w, e, zap.NewNop()).WithBatchSize(2)

	res, err := svc.Run(context.Background(), testDocs(t, 5), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !w.recreate {
		t.Error("expected recreate to be passed through")
	}
	if len(w.puts) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(w.puts))
	}
	if len(w.puts[2]) != 1 {
		t.Errorf("expected last batch of 1, got %d", len(w.puts[2]))
	}
	if res.Documents != 5 || res.Tokens != 5 || !res.IndexCreated {
		t.Errorf("unexpected result %+v", res)
	}
	if e.texts[0] != "Title\nbody" {
		t.Errorf("expected title and body embedded, got %q", e.texts[0])
	}
	for i, batch := range w.puts {
		if len(batch) != len(w.vectors[i]) {
			t.Errorf("batch %d: %d docs, %d vectors", i, len(batch), len(w.vectors[i]))
		}
	}
}

func TestRun_Empty(t *testing.T) {
	w := &mockWriter{}
	res, err := New(w, &mockEmbedder{}, zap.NewNop()).Run(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Documents != 0 || len(w.puts) != 0 {
		t.Errorf("expected nothing written, got %+v", res)
	}
	if !res.IndexCreated {
		t.Error("index must still be provisioned")
	}
}

func TestRun_EnsureIndexError(t *testing.T) {
	w := &mockWriter{ensureErr: errors.New("boom")}
	_, err := New(w, &mockEmbedder{}, zap.NewNop()).Run(context.Background(), testDocs(t, 1), false)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_EmbedError(t *testing.T) {
	w := &mockWriter{}
	e := &mockEmbedder{err: domain.ErrEmbeddingProviderError}

	_, err := New(w, e, zap.NewNop()).Run(context.Background(), testDocs(t, 2), false)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if len(w.puts) != 0 {
		t.Error("nothing must be written when embedding fails")
	}
}

func TestRun_PutErrorKeepsProgress(t *testing.T) {
	w := &mockWriter{putErr: errors.New("disk full")}

	res, err := New(w, &mockEmbedder{}, zap.NewNop()).Run(context.Background(), testDocs(t, 3), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Documents != 0 {
		t.Errorf("expected 0 documents written, got %d", res.Documents)
	}
}
