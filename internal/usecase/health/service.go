package health

import (
	"context"
	"errors"
	"time"
)

var errIndexMissing = errors.New("index not provisioned")

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the gateway answers but a dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the backend is unreachable or unprovisioned.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckOpen indicates a circuit breaker that is rejecting calls.
	CheckOpen CheckResult = "open"
)

// DefaultCheckTimeout bounds each dependency probe.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	index     IndexChecker
	indexName string
	embedding EmbeddingChecker
	breakers  []BreakerProbe
	timeout   time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithIndex adds an index existence check.
func WithIndex(ic IndexChecker, name string) Option {
	return func(s *Service) { s.index, s.indexName = ic, name }
}

// WithEmbedding adds an embedding provider check.
func WithEmbedding(ec EmbeddingChecker) Option {
	return func(s *Service) { s.embedding = ec }
}

// WithBreakers reports breaker states; an open breaker degrades the status.
func WithBreakers(probes ...BreakerProbe) Option {
	return func(s *Service) { s.breakers = append(s.breakers, probes...) }
}

// WithTimeout overrides the per-check timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service.
func New(db DBPinger, opts ...Option) *Service {
	s := &Service{db: db, timeout: DefaultCheckTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check runs health checks against all components. Database and index
// failures make the gateway unhealthy; the rest degrade it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.probe(ctx, s.db.Ping); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.index != nil && checks["database"] == CheckOK {
		err := s.probe(ctx, func(ctx context.Context) error {
			ok, err := s.index.IndexExists(ctx, s.indexName)
			if err == nil && !ok {
				return errIndexMissing
			}
			return err
		})
		if err != nil {
			checks["index"] = CheckError
			status = Unhealthy
		} else {
			checks["index"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.probe(ctx, s.embedding.HealthCheck); err != nil {
			checks["embedding"] = CheckError
			status = degrade(status)
		} else {
			checks["embedding"] = CheckOK
		}
	}

	for _, b := range s.breakers {
		key := "breaker_" + b.Name()
		if b.IsOpen() {
			checks[key] = CheckOpen
			status = degrade(status)
			continue
		}
		checks[key] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

func degrade(s Status) Status {
	if s == Healthy {
		return Degraded
	}
	return s
}
