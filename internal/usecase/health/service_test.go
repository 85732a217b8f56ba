package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockIndexChecker struct {
	exists bool
	err    error
	name   string
}

func (m *mockIndexChecker) IndexExists(_ context.Context, name string) (bool, error) {
	m.name = name
	return m.exists, m.err
}

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type mockBreaker struct {
	name string
	open bool
}

func (m mockBreaker) Name() string { return m.name }
func (m mockBreaker) IsOpen() bool { return m.open }

func TestCheck_AllHealthy(t *testing.T) {
	idx := &mockIndexChecker{exists: true}
	svc := New(&mockDBPinger{},
		WithIndex(idx, "docs"),
		WithEmbedding(&mockEmbeddingChecker{}),
		WithBreakers(mockBreaker{name: "search"}),
	)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, k := range []string{"database", "index", "embedding", "breaker_search"} {
		if r.Checks[k] != CheckOK {
			t.Errorf("expected %s %q, got %q", k, CheckOK, r.Checks[k])
		}
	}
	if idx.name != "docs" {
		t.Errorf("expected index name docs, got %q", idx.name)
	}
}

func TestCheck_DBError(t *testing.T) {
	idx := &mockIndexChecker{exists: true}
	svc := New(&mockDBPinger{err: errors.New("conn refused")},
		WithIndex(idx, "docs"),
		WithEmbedding(&mockEmbeddingChecker{}),
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if _, ok := r.Checks["index"]; ok {
		t.Error("index check must be skipped when the database is down")
	}
	if r.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks["embedding"])
	}
}

func TestCheck_IndexMissing(t *testing.T) {
	svc := New(&mockDBPinger{}, WithIndex(&mockIndexChecker{exists: false}, "docs"))
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["index"] != CheckError {
		t.Errorf("expected index %q, got %q", CheckError, r.Checks["index"])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockDBPinger{}, WithEmbedding(&mockEmbeddingChecker{err: errors.New("timeout")}))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockDBPinger{err: errors.New("db down")},
		WithEmbedding(&mockEmbeddingChecker{err: errors.New("emb down")}),
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("degraded must not mask unhealthy, got %q", r.Status)
	}
}

func TestCheck_OpenBreaker(t *testing.T) {
	svc := New(&mockDBPinger{}, WithBreakers(mockBreaker{name: "embedding", open: true}))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["breaker_embedding"] != CheckOpen {
		t.Errorf("expected breaker %q, got %q", CheckOpen, r.Checks["breaker_embedding"])
	}
}

func TestCheck_NoOptionalChecks(t *testing.T) {
	r := New(&mockDBPinger{}).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the database check, got %v", r.Checks)
	}
}

type slowPinger struct{}

func (slowPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheck_Timeout(t *testing.T) {
	svc := New(slowPinger{}, WithTimeout(10*time.Millisecond))

	start := time.Now()
	r := svc.Check(context.Background())

	if time.Since(start) > time.Second {
		t.Fatal("probe was not bounded by the timeout")
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}
