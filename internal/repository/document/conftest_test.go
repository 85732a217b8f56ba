package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	existsFn func(ctx context.Context, name string) (bool, error)
	createFn func(ctx context.Context, def *db.IndexDefinition) error
	dropFn   func(ctx context.Context, name string) error
	putFn    func(ctx context.Context, def *db.IndexDefinition, records []db.Record) error

	created, dropped int
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.created++
	if m.createFn != nil {
		return m.createFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	m.dropped++
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func (m *mockStore) PutRecords(ctx context.Context, def *db.IndexDefinition, records []db.Record) error {
	if m.putFn != nil {
		return m.putFn(ctx, def, records)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	r, err := New(ms, domain.DefaultIndexLayout("docs", "doc:", 2), db.DefaultHNSW)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, ms
}

func testDocument(t *testing.T, id string) domdoc.Document {
	t.Helper()
	d, err := domdoc.New(id, "acme", "Title "+id, "https://example.com/"+id, "body of "+id,
		map[string]string{"lang": "en"})
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return d
}
