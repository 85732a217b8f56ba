package document

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	extra := map[string]string{"lang": "go"}

	doc, err := New("doc-1", "demo", "Intro", "https://example.com/1", "hello world", extra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.TenantID() != "demo" {
		t.Errorf("TenantID() = %q", doc.TenantID())
	}
	if doc.Title() != "Intro" || doc.URL() != "https://example.com/1" {
		t.Errorf("Title/URL = %q/%q", doc.Title(), doc.URL())
	}
	if doc.Extra()["lang"] != "go" {
		t.Errorf("Extra() = %v", doc.Extra())
	}
}

func TestNew_ClonesExtra(t *testing.T) {
	extra := map[string]string{"k": "v"}

	doc, _ := New("doc-1", "demo", "t", "", "", extra)

	// Mutating the original map must not affect the document
	extra["k"] = "mutated"

	if doc.Extra()["k"] != "v" {
		t.Error("Extra mutation leaked into document")
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", "demo", "t", "", "", nil)
	if err == nil {
		t.Fatal("expected error for empty ID")
	}
}

func TestNew_IDTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", 257), "demo", "t", "", "", nil)
	if err == nil || !strings.Contains(err.Error(), "too long") {
		t.Fatalf("expected 'too long' error, got %v", err)
	}
}

func TestNew_InvalidIDChars(t *testing.T) {
	for _, id := range []string{"has space", "слово", "doc.id", "doc/id"} {
		if _, err := New(id, "demo", "t", "", "", nil); err == nil {
			t.Errorf("expected error for ID %q", id)
		}
	}
}

func TestNew_MissingTenant(t *testing.T) {
	for _, tenant := range []string{"", "   "} {
		_, err := New("doc-1", tenant, "t", "", "", nil)
		if err == nil || !strings.Contains(err.Error(), "tenant") {
			t.Errorf("tenant %q: expected tenant error, got %v", tenant, err)
		}
	}
}

func TestNew_MissingTitle(t *testing.T) {
	_, err := New("doc-1", "demo", "", "", "body", nil)
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestNew_BodyTooLarge(t *testing.T) {
	_, err := New("doc-1", "demo", "t", "", strings.Repeat("x", MaxBodySize+1), nil)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected 'too large' error, got %v", err)
	}
}

func TestEmbeddingText(t *testing.T) {
	withBody, _ := New("a", "demo", "Title", "", "Body", nil)
	if got := withBody.EmbeddingText(); got != "Title\nBody" {
		t.Errorf("EmbeddingText() = %q", got)
	}

	titleOnly, _ := New("b", "demo", "Title", "", "", nil)
	if got := titleOnly.EmbeddingText(); got != "Title" {
		t.Errorf("EmbeddingText() = %q", got)
	}
}
