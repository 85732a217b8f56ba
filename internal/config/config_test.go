package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validRedisConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validRedisConfig()
	cfg.HTTP.Port = 0
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Database.Addrs = nil
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis addrs")
	}
}

func TestValidate_PostgresRequiresURL(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Database = DatabaseConfig{Driver: DriverPostgres}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "database.url") {
		t.Fatalf("expected database.url error, got %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Database.Driver = "valkey"
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_OpenAIRequiresModel(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Embedding.Model = ""
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestValidate_LookupDimensions(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Embedding = EmbeddingConfig{
		Provider: ProviderLookup,
		Lookup: LookupConfig{
			Rules:    []LookupRule{{Match: "redis", Vector: []float32{1, 0, 0}}},
			Fallback: []float32{0.5, 0.5},
		},
	}
	cfg.ApplyDefaults()

	if cfg.Embedding.Dimensions != 2 {
		t.Fatalf("expected dimensions taken from fallback, got %d", cfg.Embedding.Dimensions)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "rules[0]") {
		t.Fatalf("expected rule dimension error, got %v", err)
	}
}

func TestValidate_RedisCacheNeedsRedisDriver(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Database = DatabaseConfig{Driver: DriverPostgres, URL: "postgres://localhost/fusegate"}
	cfg.Embedding.Cache.Store = CacheRedis
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis cache on postgres")
	}
}

func TestValidate_InvalidIndexName(t *testing.T) {
	cfg := validRedisConfig()
	cfg.Index.Name = "docs; DROP"
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid index name")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverRedis {
		t.Errorf("expected driver redis, got %q", cfg.Database.Driver)
	}
	if cfg.Index.KeyPrefix != "fusegate:doc:" {
		t.Errorf("expected key prefix fusegate:doc:, got %q", cfg.Index.KeyPrefix)
	}
	if cfg.Index.HNSWM != 16 || cfg.Index.HNSWEFConstruct != 200 {
		t.Errorf("unexpected HNSW defaults: %+v", cfg.Index)
	}
	if cfg.Search.TopK != 5 || cfg.Search.HybridFetch != 10 || cfg.Search.Candidates != 100 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Search.DefaultAlpha == nil || *cfg.Search.DefaultAlpha != 0.5 {
		t.Errorf("expected default alpha 0.5, got %v", cfg.Search.DefaultAlpha)
	}
	if cfg.Search.DefaultTenant != "demo" {
		t.Errorf("expected default tenant demo, got %q", cfg.Search.DefaultTenant)
	}
	if cfg.Embedding.Cache.Store != CacheRedis {
		t.Errorf("expected auto cache to resolve to redis, got %q", cfg.Embedding.Cache.Store)
	}
}

func TestApplyDefaults_PostgresCache(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{Driver: DriverPostgres}}
	cfg.ApplyDefaults()

	if cfg.Embedding.Cache.Store != CacheMemory {
		t.Errorf("expected memory cache on postgres, got %q", cfg.Embedding.Cache.Store)
	}
	if cfg.Index.KeyPrefix != "" {
		t.Errorf("postgres has no key prefix, got %q", cfg.Index.KeyPrefix)
	}
}

func TestApplyDefaults_ExplicitZeroAlpha(t *testing.T) {
	cfg, err := Parse([]byte(`
http: {port: 8080}
database: {addrs: ["localhost:6379"]}
embedding: {model: m, dimensions: 4}
search: {default_alpha: 0}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *cfg.Search.DefaultAlpha != 0 {
		t.Errorf("explicit zero alpha must be kept, got %v", *cfg.Search.DefaultAlpha)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FUSEGATE_TEST_PORT", "9090")

	got := string(expandEnvVars([]byte("port: ${FUSEGATE_TEST_PORT}\nkey: ${FUSEGATE_TEST_UNSET:-fallback}\n")))
	want := "port: 9090\nkey: fallback\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := `
http:
  port: 8080
database:
  driver: postgres
  url: postgres://localhost/fusegate
embedding:
  provider: lookup
  lookup:
    fallback: [0.1, 0.2]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Embedding.Dimensions != 2 {
		t.Errorf("expected 2 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.Cache.Store != CacheNone {
		t.Errorf("lookup provider needs no cache, got %q", cfg.Embedding.Cache.Store)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Database.Driver != DriverRedis {
		t.Errorf("driver = %q, want redis", cfg.Database.Driver)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Embedding.Provider != ProviderLookup || cfg.Embedding.Dimensions != 4 {
		t.Errorf("embedding = %s/%d", cfg.Embedding.Provider, cfg.Embedding.Dimensions)
	}
	if cfg.Index.KeyPrefix != "fusegate:doc:" {
		t.Errorf("key prefix = %q", cfg.Index.KeyPrefix)
	}
}
