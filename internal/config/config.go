package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderLookup = "lookup"
)

// Embedding cache stores. "auto" picks redis on the redis driver and memory otherwise.
const (
	CacheAuto   = "auto"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Config holds the fusegate API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Search     SearchConfig     `yaml:"search"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds search backend connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, postgres (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	URL              string   `yaml:"url"`       // postgres connection string
	MaxConns         int32    `yaml:"max_conns"` // postgres pool size
	Language         string   `yaml:"language"`  // postgres text search configuration
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig names the document index and tunes its HNSW graph.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"` // redis hash prefix
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// EmbeddingConfig holds query embedding settings.
type EmbeddingConfig struct {
	Provider         string       `yaml:"provider"` // openai, lookup
	Name             string       `yaml:"name"`     // metrics label, e.g. "nebius"
	Model            string       `yaml:"model"`
	Dimensions       int          `yaml:"dimensions"`
	APIKey           string       `yaml:"api_key"`
	BaseURL          string       `yaml:"base_url"`
	TimeoutSec       int          `yaml:"timeout_sec"`
	QueryInstruction string       `yaml:"query_instruction"`
	Cache            CacheConfig  `yaml:"cache"`
	Lookup           LookupConfig `yaml:"lookup"`
}

// CacheConfig holds query embedding cache settings.
type CacheConfig struct {
	Store  string `yaml:"store"` // auto, redis, memory, none
	Size   int    `yaml:"size"`  // memory store entries
	TTLSec int    `yaml:"ttl_sec"`
}

// LookupConfig is the rule table of the lookup provider.
type LookupConfig struct {
	Rules    []LookupRule `yaml:"rules"`
	Fallback []float32    `yaml:"fallback"`
}

// LookupRule maps texts containing Match to Vector.
type LookupRule struct {
	Match  string    `yaml:"match"`
	Vector []float32 `yaml:"vector"`
}

// SearchConfig holds retrieval sizes and request defaults.
type SearchConfig struct {
	TopK          int      `yaml:"top_k"`
	HybridFetch   int      `yaml:"hybrid_fetch"`
	Candidates    int      `yaml:"candidates"`
	DefaultAlpha  *float64 `yaml:"default_alpha"` // nil means 0.5
	DefaultTenant string   `yaml:"default_tenant"`
	TimeoutSec    int      `yaml:"timeout_sec"`
}

// ResilienceConfig holds circuit breaker settings.
type ResilienceConfig struct {
	BreakerEnabled   bool    `yaml:"breaker_enabled"`
	MinRequests      uint32  `yaml:"min_requests"`
	FailureRatio     float64 `yaml:"failure_ratio"`
	OpenTimeoutSec   int     `yaml:"open_timeout_sec"`
	HalfOpenMaxCalls uint32  `yaml:"half_open_max_calls"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.Language == "" {
		c.Database.Language = "english"
	}

	if c.Index.Name == "" {
		c.Index.Name = "fusegate_docs"
	}
	if c.Index.KeyPrefix == "" && c.Database.Driver == DriverRedis {
		c.Index.KeyPrefix = "fusegate:doc:"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}

	c.applyEmbeddingDefaults()

	if c.Search.TopK <= 0 {
		c.Search.TopK = 5
	}
	if c.Search.HybridFetch <= 0 {
		c.Search.HybridFetch = 10
	}
	if c.Search.Candidates <= 0 {
		c.Search.Candidates = 100
	}
	if c.Search.DefaultAlpha == nil {
		alpha := 0.5
		c.Search.DefaultAlpha = &alpha
	}
	if c.Search.DefaultTenant == "" {
		c.Search.DefaultTenant = "demo"
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 5
	}

	if c.Resilience.MinRequests == 0 {
		c.Resilience.MinRequests = 10
	}
	if c.Resilience.FailureRatio <= 0 {
		c.Resilience.FailureRatio = 0.5
	}
	if c.Resilience.OpenTimeoutSec <= 0 {
		c.Resilience.OpenTimeoutSec = 30
	}
	if c.Resilience.HalfOpenMaxCalls == 0 {
		c.Resilience.HalfOpenMaxCalls = 2
	}
}

func (c *Config) applyEmbeddingDefaults() {
	e := &c.Embedding
	if e.Provider == "" {
		e.Provider = ProviderOpenAI
	}
	if e.Name == "" {
		e.Name = e.Provider
	}
	if e.Provider == ProviderLookup && e.Dimensions <= 0 {
		e.Dimensions = len(e.Lookup.Fallback)
	}
	if e.TimeoutSec <= 0 {
		e.TimeoutSec = 10
	}
	if e.Cache.Store == "" {
		e.Cache.Store = CacheAuto
	}
	if e.Cache.Store == CacheAuto {
		switch {
		case e.Provider == ProviderLookup:
			e.Cache.Store = CacheNone
		case c.Database.Driver == DriverRedis:
			e.Cache.Store = CacheRedis
		default:
			e.Cache.Store = CacheMemory
		}
	}
	if e.Cache.Size <= 0 {
		e.Cache.Size = 1000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if c.Resilience.FailureRatio > 1 {
		return fmt.Errorf("resilience.failure_ratio must be in (0, 1], got %v", c.Resilience.FailureRatio)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", DriverRedis)
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverPostgres, c.Database.Driver)
	}
	if !identRegex.MatchString(c.Index.Name) {
		return fmt.Errorf("index.name %q must match %s", c.Index.Name, identRegex)
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := &c.Embedding
	switch e.Provider {
	case ProviderOpenAI:
		if e.Model == "" {
			return fmt.Errorf("embedding.model is required for provider %q", ProviderOpenAI)
		}
		if e.Dimensions <= 0 {
			return fmt.Errorf("embedding.dimensions must be positive, got %d", e.Dimensions)
		}
	case ProviderLookup:
		if len(e.Lookup.Fallback) == 0 {
			return fmt.Errorf("embedding.lookup.fallback is required for provider %q", ProviderLookup)
		}
		if len(e.Lookup.Fallback) != e.Dimensions {
			return fmt.Errorf("embedding.lookup.fallback has %d dimensions, embedding.dimensions is %d",
				len(e.Lookup.Fallback), e.Dimensions)
		}
		for i, r := range e.Lookup.Rules {
			if len(r.Vector) != e.Dimensions {
				return fmt.Errorf("embedding.lookup.rules[%d] has %d dimensions, want %d",
					i, len(r.Vector), e.Dimensions)
			}
		}
	default:
		return fmt.Errorf("embedding.provider must be %q or %q, got %q", ProviderOpenAI, ProviderLookup, e.Provider)
	}

	switch e.Cache.Store {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Database.Driver != DriverRedis {
			return fmt.Errorf("embedding.cache.store %q requires database.driver %q", CacheRedis, DriverRedis)
		}
	default:
		return fmt.Errorf("embedding.cache.store must be one of auto, redis, memory, none, got %q", e.Cache.Store)
	}
	return nil
}

var identRegex = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
