package fusegate

import (
	"context"

	"github.com/kailas-cloud/fusegate/internal/domain/search/fused"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
	"github.com/kailas-cloud/fusegate/internal/domain/search/query"
	healthuc "github.com/kailas-cloud/fusegate/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	keywordFn  func(ctx context.Context, q query.Query) ([]hit.Hit, error)
	semanticFn func(ctx context.Context, q query.Query) ([]hit.Hit, error)
	hybridFn   func(ctx context.Context, q query.Query) ([]fused.Result, error)
}

func (m *mockSearchUC) Keyword(ctx context.Context, q query.Query) ([]hit.Hit, error) {
	return m.keywordFn(ctx, q)
}

func (m *mockSearchUC) Semantic(ctx context.Context, q query.Query) ([]hit.Hit, error) {
	return m.semanticFn(ctx, q)
}

func (m *mockSearchUC) Hybrid(ctx context.Context, q query.Query) ([]fused.Result, error) {
	return m.hybridFn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(searchSvc searchUseCase, obs *observer) *Client {
	return &Client{searchSvc: searchSvc, obs: obs}
}
