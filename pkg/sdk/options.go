package fusegate

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "redis" or "postgres"
	addrs    []string
	password string
	url      string

	embedder Embedder

	indexName  string
	keyPrefix  string
	dimensions int

	topK        int
	hybridFetch int
	candidates  int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis connects to a Redis instance with the query engine (8.4+ for BM25).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPostgres connects to PostgreSQL with the vector extension.
func WithPostgres(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.url = url
	})
}

// WithEmbedder sets the query embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithIndex names the document index and its vector size.
// Defaults: "fusegate_docs", 1024 dimensions.
func WithIndex(name string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
		c.dimensions = dimensions
	})
}

// WithKeyPrefix sets the Redis hash prefix of the index. Default: "fusegate:doc:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithLimits overrides result-set sizes. Zero keeps the default (5, 10, 100).
func WithLimits(topK, hybridFetch, candidates int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = topK
		c.hybridFetch = hybridFetch
		c.candidates = candidates
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
