// Package chi exposes the retrieval gateway over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/domain/search/fused"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
	"github.com/kailas-cloud/fusegate/internal/domain/search/mode"
	"github.com/kailas-cloud/fusegate/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/fusegate/internal/logger"
	"github.com/kailas-cloud/fusegate/internal/metrics"
	healthuc "github.com/kailas-cloud/fusegate/internal/usecase/health"
)

// genericFailure is the only message clients see for backend failures.
const genericFailure = "retrieval failed"

// SearchService runs the three retrieval modes.
type SearchService interface {
	Keyword(ctx context.Context, q query.Query) ([]hit.Hit, error)
	Semantic(ctx context.Context, q query.Query) ([]hit.Hit, error)
	Hybrid(ctx context.Context, q query.Query) ([]fused.Result, error)
}

// HealthChecker aggregates dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the search and operational endpoints.
type Server struct {
	search  SearchService
	health  HealthChecker
	logger  *zap.Logger
	apiKeys []string

	defaultTenant string
	defaultAlpha  float64
	timeout       time.Duration
}

// Option customizes a Server.
type Option func(*Server)

// WithDefaults overrides the tenant and alpha applied when a request omits them.
func WithDefaults(tenant string, alpha float64) Option {
	return func(s *Server) {
		if tenant != "" {
			s.defaultTenant = tenant
		}
		s.defaultAlpha = alpha
	}
}

// WithTimeout bounds each search call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithAPIKeys enables bearer authentication for search routes.
func WithAPIKeys(keys []string) Option {
	return func(s *Server) { s.apiKeys = keys }
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, health HealthChecker, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:        search,
		health:        health,
		logger:        logger,
		defaultTenant: query.DefaultTenant,
		defaultAlpha:  query.DefaultAlpha,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the router with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(s.apiKeys))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handlers := map[mode.Mode]http.HandlerFunc{
		mode.Keyword:  s.Keyword,
		mode.Semantic: s.Semantic,
		mode.Hybrid:   s.Hybrid,
	}
	r.Route("/search", func(r chi.Router) {
		for _, m := range mode.All() {
			r.Get("/"+string(m), handlers[m])
			r.Post("/"+string(m), handlers[m])
		}
	})
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Keyword handles GET|POST /search/keyword.
func (s *Server) Keyword(w http.ResponseWriter, r *http.Request) {
	s.serveHits(w, r, mode.Keyword, s.search.Keyword)
}

// Semantic handles GET|POST /search/semantic.
func (s *Server) Semantic(w http.ResponseWriter, r *http.Request) {
	s.serveHits(w, r, mode.Semantic, s.search.Semantic)
}

// Hybrid handles GET|POST /search/hybrid.
func (s *Server) Hybrid(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel, usage := s.searchContext(r.Context(), mode.Hybrid, q)
	defer cancel()

	results, err := s.search.Hybrid(ctx, q)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	items := make([]fusedItem, len(results))
	for i := range results {
		items[i] = fusedToItem(&results[i])
	}

	alpha := q.Alpha()
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponse{
		Mode:    mode.Hybrid,
		Query:   q.Text(),
		Alpha:   &alpha,
		Results: items,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: report.Checks})
}

type hitsFunc func(ctx context.Context, q query.Query) ([]hit.Hit, error)

func (s *Server) serveHits(w http.ResponseWriter, r *http.Request, m mode.Mode, run hitsFunc) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel, usage := s.searchContext(r.Context(), m, q)
	defer cancel()

	hits, err := run(ctx, q)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	items := make([]hitItem, len(hits))
	for i := range hits {
		items[i] = hitToItem(&hits[i])
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponse{
		Mode:    m,
		Query:   q.Text(),
		Results: items,
	})
}

func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request) (query.Query, bool) {
	req, err := decodeSearchRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return query.Query{}, false
	}

	tenant := req.TenantID
	if tenant == "" {
		tenant = s.defaultTenant
	}
	alpha := s.defaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	q, err := query.New(req.Query, tenant, &alpha)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return query.Query{}, false
	}
	return q, true
}

// searchContext scopes the request logger to the query and attaches usage
// accounting plus the optional timeout.
func (s *Server) searchContext(
	parent context.Context, m mode.Mode, q query.Query,
) (context.Context, context.CancelFunc, *domain.EmbeddingUsage) {
	parent = logpkg.With(parent, zap.String("mode", string(m)), zap.String("tenant_id", q.TenantID()))
	ctx, usage := domain.NewContextWithUsage(parent)
	if s.timeout <= 0 {
		return ctx, func() {}, usage
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return ctx, cancel, usage
}

// handleError collapses every service failure into one generic response.
// Only rejected queries are reported back as client errors.
func (s *Server) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logpkg.FromContext(ctx)
	if errors.Is(err, domain.ErrInvalidQuery) {
		log.Info("query rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Error("search failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, genericFailure)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage.Used() {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.Tokens()))
	}
}

// writeJSON encodes before writing the status, so a value that cannot be
// encoded still yields an error envelope rather than an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: genericFailure})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
