package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/domain"
	"github.com/kailas-cloud/fusegate/internal/metrics"
)

// Config tunes a circuit breaker. Calls are never retried.
type Config struct {
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

// DefaultConfig returns the breaker settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MinRequests:      10,
		FailureRatio:     0.5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.MinRequests == 0 {
		out.MinRequests = def.MinRequests
	}
	if out.FailureRatio <= 0 || out.FailureRatio > 1 {
		out.FailureRatio = def.FailureRatio
	}
	if out.OpenTimeout <= 0 {
		out.OpenTimeout = def.OpenTimeout
	}
	if out.HalfOpenMaxCalls == 0 {
		out.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return out
}

// Breaker guards one dependency. It trips on the failure ratio over at least
// MinRequests calls and rejects with domain.ErrCircuitOpen while open.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreaker creates a named breaker. State changes are logged and exported
// as fusegate_breaker_state{name}.
func NewBreaker(name string, cfg Config, logger *zap.Logger) *Breaker {
	cfg = cfg.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	}

	metrics.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

// Name returns the breaker name.
func (b *Breaker) Name() string { return b.name }

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// isSuccessful keeps caller cancellation from counting against the dependency.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// IsCircuitOpen reports whether err is a breaker rejection.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, domain.ErrCircuitOpen)
}

// execute runs fn through the breaker. A nil breaker calls fn directly.
func execute[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	if b == nil {
		return fn(ctx)
	}

	var out T
	_, err := b.cb.Execute(func() (any, error) {
		v, err := fn(ctx)
		out = v
		return nil, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.BreakerRejectionsTotal.WithLabelValues(b.name).Inc()
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", domain.ErrCircuitOpen, b.name, err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// IsOpen reports whether the breaker is rejecting calls.
func (b *Breaker) IsOpen() bool { return b.cb.State() == gobreaker.StateOpen }
