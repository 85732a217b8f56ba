package document

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotDef *db.IndexDefinition
	ms.createFn = func(_ context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	created, err := repo.EnsureIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true")
	}
	if gotDef == nil || gotDef.Name != "docs" {
		t.Fatalf("unexpected definition: %+v", gotDef)
	}
	if vf, ok := gotDef.VectorField(); !ok || vf.VectorDim != 2 {
		t.Errorf("expected 2-dim vector field, got %+v", vf)
	}
}

func TestEnsureIndex_KeepsExisting(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	created, err := repo.EnsureIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || ms.created != 0 || ms.dropped != 0 {
		t.Errorf("expected no-op, created=%v creates=%d drops=%d", created, ms.created, ms.dropped)
	}
}

func TestEnsureIndex_Recreate(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	created, err := repo.EnsureIndex(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || ms.dropped != 1 || ms.created != 1 {
		t.Errorf("expected drop+create, created=%v creates=%d drops=%d", created, ms.created, ms.dropped)
	}
}

func TestEnsureIndex_RaceOnCreate(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createFn = func(_ context.Context, _ *db.IndexDefinition) error { return db.ErrIndexExists }

	created, err := repo.EnsureIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("concurrent creation must not fail: %v", err)
	}
	if created {
		t.Error("expected created=false")
	}
}

func TestEnsureIndex_ExistsError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, errors.New("conn refused") }

	if _, err := repo.EnsureIndex(context.Background(), false); err == nil {
		t.Fatal("expected error")
	}
}

func TestPut(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []db.Record
	ms.putFn = func(_ context.Context, _ *db.IndexDefinition, records []db.Record) error {
		got = records
		return nil
	}

	docs := []domdoc.Document{testDocument(t, "a"), testDocument(t, "b")}
	if err := repo.Put(context.Background(), docs, [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	r := got[0]
	if r.ID != "a" {
		t.Errorf("expected id a, got %s", r.ID)
	}
	if r.Fields[domain.FieldTenant] != "acme" || r.Fields[domain.FieldTitle] != "Title a" {
		t.Errorf("unexpected fields: %v", r.Fields)
	}
	if r.Fields["lang"] != "en" {
		t.Errorf("expected extra field carried, got %v", r.Fields)
	}
	if got[1].Vector[1] != 1 {
		t.Errorf("vectors mismatched to documents: %v", got[1].Vector)
	}
}

func TestPut_LengthMismatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.Put(context.Background(), []domdoc.Document{testDocument(t, "a")}, nil)
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestPut_DimensionMismatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.Put(context.Background(), []domdoc.Document{testDocument(t, "a")}, [][]float32{{1, 2, 3}})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestToRecord_ReservedFieldsWin(t *testing.T) {
	l := domain.DefaultIndexLayout("docs", "doc:", 2)
	d, err := domdoc.New("x", "acme", "Real", "", "", map[string]string{
		domain.FieldTenant: "evil", domain.FieldTitle: "fake", domain.FieldEmbedding: "blob",
	})
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}

	r := toRecord(l, &d, []float32{1, 1})
	if r.Fields[domain.FieldTenant] != "acme" || r.Fields[domain.FieldTitle] != "Real" {
		t.Errorf("reserved fields overridden: %v", r.Fields)
	}
	if _, ok := r.Fields[domain.FieldEmbedding]; ok {
		t.Error("vector field must not be written as a string attribute")
	}
	if _, ok := r.Fields[domain.FieldURL]; ok {
		t.Error("empty url must be omitted")
	}
}
