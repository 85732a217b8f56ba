package query

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/fusegate/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestNew_Defaults(t *testing.T) {
	q, err := New("llm rag", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "llm rag" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.TenantID() != "demo" {
		t.Errorf("TenantID() = %q, want demo", q.TenantID())
	}
	if q.Alpha() != 0.5 {
		t.Errorf("Alpha() = %v, want 0.5", q.Alpha())
	}
}

func TestNew_Explicit(t *testing.T) {
	q, err := New("x", "acme", floatPtr(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.TenantID() != "acme" {
		t.Errorf("TenantID() = %q", q.TenantID())
	}
	if q.Alpha() != 0 {
		t.Errorf("Alpha() = %v, want explicit 0", q.Alpha())
	}
}

func TestNew_AlphaOutOfRangeAccepted(t *testing.T) {
	for _, a := range []float64{-0.5, 1.5, 3} {
		q, err := New("x", "", floatPtr(a))
		if err != nil {
			t.Fatalf("alpha %v: unexpected error: %v", a, err)
		}
		if q.Alpha() != a {
			t.Errorf("Alpha() = %v, want %v", q.Alpha(), a)
		}
	}
}

func TestNew_EmptyTextAccepted(t *testing.T) {
	if _, err := New("", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_TooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxTextLength+1), "", nil)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestNew_NonFiniteAlphaRejected(t *testing.T) {
	for _, a := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := New("x", "", floatPtr(a))
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("alpha %v: expected ErrInvalidQuery, got %v", a, err)
		}
	}
}
