package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"askdocs/internal/config"
	"askdocs/internal/indexer"
	"askdocs/internal/llm"
	"askdocs/internal/memory"
	"askdocs/internal/rag"
	"askdocs/internal/retrieval"
	"askdocs/internal/storage"
)

// app bundles the wired components a CLI session needs.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	facts     *storage.FactRepo
	recorder  *memory.Recorder
	manager   *retrieval.Manager
	pipeline  *indexer.Pipeline
	retriever *retrieval.Retriever
	engine    rag.Engine
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	factRepo := storage.NewFactRepo(db)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingSize)
	manager := retrieval.NewManager(cfg.ArtifactsDir)
	pipeline := indexer.NewPipeline(manager, embedder, cfg.EmbeddingModelName, cfg.EmbeddingSize, indexer.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		BatchSize:    cfg.EmbedBatchSize,
		Workers:      cfg.EmbedWorkers,
	})
	retriever := retrieval.NewRetriever(manager, embedder, retrieval.Options{
		CandidateMultiplier: cfg.CandidateMultiplier,
		RRFSmoothing:        cfg.RRFSmoothing,
		Hybrid:              cfg.HybridSearch,
	})
	oracle := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.GenerateTimeout)
	engine := rag.NewEngine(oracle, rag.NewPromptBuilder(cfg.MaxPromptChunks, cfg.MaxChunkChars))

	return &app{
		cfg:       cfg,
		db:        db,
		facts:     factRepo,
		recorder:  memory.NewRecorder(factRepo),
		manager:   manager,
		pipeline:  pipeline,
		retriever: retriever,
		engine:    engine,
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
}

// ensureIndex loads the persisted snapshot, or builds one from sourceDir
// when none exists or a rebuild is forced.
func (a *app) ensureIndex(ctx context.Context, sourceDir string, forceRebuild bool) error {
	if !forceRebuild {
		err := a.manager.Load()
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load index artifacts: %w", err)
		}
		fmt.Println("[askdocs] no index found, building from source ...")
	}
	return a.pipeline.Rebuild(ctx, sourceDir)
}
