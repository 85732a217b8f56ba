package filter

import (
	"strings"
	"testing"
)

func TestNewMatch_Valid(t *testing.T) {
	c, err := NewMatch("tenant_id", "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "tenant_id" || c.Value() != "demo" {
		t.Errorf("got %q=%q", c.Key(), c.Value())
	}
}

func TestNewMatch_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"empty key", "", "demo"},
		{"empty value", "tenant_id", ""},
		{"blank value", "tenant_id", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMatch(tt.key, tt.value); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewExpression_TooMany(t *testing.T) {
	conds := make([]Condition, MaxConditions+1)
	for i := range conds {
		conds[i] = Condition{key: strings.Repeat("k", i+1), value: "v"}
	}
	if _, err := NewExpression(conds...); err == nil {
		t.Fatal("expected error for too many conditions")
	}
}

func TestNewExpression_DuplicateKey(t *testing.T) {
	a, _ := NewMatch("tenant_id", "a")
	b, _ := NewMatch("tenant_id", "b")
	_, err := NewExpression(a, b)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestTenant(t *testing.T) {
	expr, err := Tenant("tenant_id", "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr.IsEmpty() {
		t.Fatal("tenant expression must not be empty")
	}
	v, ok := expr.Value("tenant_id")
	if !ok || v != "acme" {
		t.Errorf("Value(tenant_id) = %q, %v", v, ok)
	}
	if _, ok := expr.Value("other"); ok {
		t.Error("Value(other) should be absent")
	}
}

func TestTenant_Empty(t *testing.T) {
	if _, err := Tenant("tenant_id", ""); err == nil {
		t.Fatal("expected error for empty tenant")
	}
}

func TestExpression_ZeroIsEmpty(t *testing.T) {
	var e Expression
	if !e.IsEmpty() {
		t.Error("zero Expression should be empty")
	}
}
