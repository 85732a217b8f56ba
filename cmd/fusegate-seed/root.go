package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fusegate/internal/bootstrap"
	"github.com/kailas-cloud/fusegate/internal/config"
	logpkg "github.com/kailas-cloud/fusegate/internal/logger"
	documentrepo "github.com/kailas-cloud/fusegate/internal/repository/document"
	"github.com/kailas-cloud/fusegate/internal/usecase/seed"
	"github.com/kailas-cloud/fusegate/internal/version"
)

type options struct {
	env        string
	configPath string
	file       string
	recreate   bool
	batchSize  int
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := options{env: config.GetEnv()}

	cmd := &cobra.Command{
		Use:   "fusegate-seed",
		Short: "Create the fusegate index and load documents",
		Long: `fusegate-seed creates the search index described by the server
configuration (a RediSearch index or a pgvector table) and upserts every
document of the given YAML file together with its embedding.

Existing documents with the same id are overwritten. Use --recreate to drop
the index first.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.SetVersionTemplate("fusegate-seed {{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.env, "env", opts.env, "Environment name used to locate config/<env>.yaml")
	f.StringVar(&opts.configPath, "config", "", "Path to a config file (overrides --env)")
	f.StringVarP(&opts.file, "file", "f", "", "YAML file with the documents to load")
	f.BoolVar(&opts.recreate, "recreate", false, "Drop and recreate the index before loading")
	f.IntVar(&opts.batchSize, "batch-size", seed.DefaultBatchSize, "Documents embedded and written per round")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level override: debug, info, warn, error")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func loadConfig(opts options) (config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	return config.Load(opts.env)
}

// seedConfig strips the query-only parts of the embedder chain: documents
// never carry the query instruction and are not worth caching.
func seedConfig(cfg config.EmbeddingConfig) config.EmbeddingConfig {
	cfg.QueryInstruction = ""
	cfg.Cache.Store = config.CacheNone
	return cfg
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if opts.batchSize <= 0 {
		return fmt.Errorf("--batch-size must be positive, got %d", opts.batchSize)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(opts.env, opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	docs, err := seed.LoadFile(opts.file)
	if err != nil {
		return err
	}

	embedder, err := bootstrap.BuildEmbedder(seedConfig(cfg.Embedding), nil, nil, logger)
	if err != nil {
		return fmt.Errorf("build embedder: %w", err)
	}

	store, err := bootstrap.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	repo, err := documentrepo.New(store, bootstrap.Layout(&cfg), bootstrap.HNSW(&cfg))
	if err != nil {
		return fmt.Errorf("index definition: %w", err)
	}
	logger.Debug("Index definition", zap.String("schema", repo.Definition().String()))

	res, err := seed.New(repo, embedder, logger).WithBatchSize(opts.batchSize).Run(ctx, docs, opts.recreate)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "index %s (%s): created=%t documents=%d tokens=%d in %s\n",
		cfg.Index.Name, cfg.Database.Driver, res.IndexCreated, res.Documents, res.Tokens,
		res.Duration.Round(time.Millisecond))
	return nil
}
