package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/profrag/internal/cache"
	"github.com/kailas-cloud/profrag/internal/config"
	dbRedis "github.com/kailas-cloud/profrag/internal/db/redis"
	"github.com/kailas-cloud/profrag/internal/domain"
	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
	"github.com/kailas-cloud/profrag/internal/domain/fuzzy"
	"github.com/kailas-cloud/profrag/internal/domain/query"
	"github.com/kailas-cloud/profrag/internal/metrics"
	directoryrepo "github.com/kailas-cloud/profrag/internal/repository/directory"
	"github.com/kailas-cloud/profrag/internal/repository/embcache"
	searchrepo "github.com/kailas-cloud/profrag/internal/repository/search"
	openaiEmb "github.com/kailas-cloud/profrag/internal/transport/openai"
	directoryuc "github.com/kailas-cloud/profrag/internal/usecase/directory"
	embeddinguc "github.com/kailas-cloud/profrag/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/profrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/profrag/internal/usecase/ingest"
	retrievaluc "github.com/kailas-cloud/profrag/internal/usecase/retrieval"
)

// app is the composition root shared by serve, ingest and query.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	store     *dbRedis.Store
	retrieval *retrievaluc.Service
	ingest    *ingestuc.Service
	health    *healthuc.Service
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	// Registered explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Embedder chain: OpenAI -> Instrumented -> Cached.
	// Ingestion uses the uncached chain, review texts are embedded once.
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	instrumented := embeddinguc.NewInstrumentedEmbedder(
		base, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	).WithMaxBatch(cfg.Embedding.MaxBatch)

	embCache, err := cache.NewTTL[string, []float32](cfg.Cache.EmbeddingCapacity, cfg.Cache.EmbeddingTTL())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	queryEmbedder := embcache.New(instrumented, embCache, metrics.EmbeddingCacheTotal, logger)

	// A single expanded directory snapshot lives under one key.
	dirCache, err := cache.NewTTL[string, []domdir.Record](1, cfg.Cache.DirectoryTTL())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create directory cache: %w", err)
	}

	hnsw := searchrepo.HNSWConfig{M: cfg.Index.HNSWM, EFConstruct: cfg.Index.HNSWEFConstruct}
	dirRepo := directoryrepo.New(store, cfg.Directory.PageSize)
	reviewWriter := searchrepo.NewWriter(store, cfg.Embedding.Dimensions).WithHNSW(hnsw)
	reviewSearch := searchrepo.New(store)

	dirSvc := directoryuc.New(dirRepo, dirCache, logger)

	r := cfg.Retrieval
	patterns := query.NewGenerator(r.Honorifics)
	matcher := fuzzy.NewMatcher(fuzzy.NewApproxIndexer(r.FuzzyThreshold), fuzzy.FieldWeights{
		FullName:       r.Weights.FullName,
		NormalizedName: r.Weights.NormalizedName,
		Department:     r.Weights.Department,
		Subject:        r.Weights.Subject,
	})

	retrievalSvc := retrievaluc.New(queryEmbedder, reviewSearch, dirSvc, patterns, matcher, retrievaluc.Config{
		TopK:           r.TopK,
		MaxSuggestions: r.MaxSuggestions,
		MaxCandidates:  r.MaxCandidates,
		Retry: retrievaluc.RetryConfig{
			MaxRetries:  r.Retries(),
			BaseDelay:   r.RetryBaseDelay(),
			CallTimeout: r.CallTimeout(),
		},
	}, logger)

	ingestSvc := ingestuc.New(dirRepo, reviewWriter, instrumented, logger).
		WithBatchSize(cfg.Index.IngestBatchSize)

	healthSvc := healthuc.New(store, base).
		WithIndexes(store, domain.ProfessorIndex, domain.ReviewIndex)

	logger.Info("Pipeline ready",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Float64("fuzzy_threshold", r.FuzzyThreshold),
		zap.Int("top_k", r.TopK),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		retrieval: retrievalSvc,
		ingest:    ingestSvc,
		health:    healthSvc,
	}, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}
