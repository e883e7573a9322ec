package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"askdocs/internal/config"
	"askdocs/internal/http"
	"askdocs/internal/indexer"
	"askdocs/internal/llm"
	"askdocs/internal/memory"
	"askdocs/internal/rag"
	"askdocs/internal/retrieval"
	"askdocs/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database for memory facts
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	factRepo := storage.NewFactRepo(db)
	recorder := memory.NewRecorder(factRepo)

	ctx := context.Background()

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.EmbeddingSize)

	// Snapshot manager and build pipeline
	manager := retrieval.NewManager(cfg.ArtifactsDir)
	pipeline := indexer.NewPipeline(manager, embedder, cfg.EmbeddingModelName, cfg.EmbeddingSize, indexer.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		BatchSize:    cfg.EmbedBatchSize,
		Workers:      cfg.EmbedWorkers,
	})

	// Load persisted artifacts; build from the source directory when missing.
	if err := manager.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("No persisted index found, building from source", "source_dir", cfg.SourceDir)
			if err := pipeline.Rebuild(ctx, cfg.SourceDir); err != nil {
				log.Fatalf("Failed to build index: %v", err)
			}
		} else {
			log.Fatalf("Failed to load index artifacts: %v", err)
		}
	}
	if snap := manager.Current(); snap != nil {
		slog.Info("Index ready", "chunks", len(snap.Chunks), "model", snap.Meta.ModelName, "dimension", snap.Meta.Dimension)
	}

	retriever := retrieval.NewRetriever(manager, embedder, retrieval.Options{
		CandidateMultiplier: cfg.CandidateMultiplier,
		RRFSmoothing:        cfg.RRFSmoothing,
		Hybrid:              cfg.HybridSearch,
	})

	oracle := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.GenerateTimeout)
	engine := rag.NewEngine(oracle, rag.NewPromptBuilder(cfg.MaxPromptChunks, cfg.MaxChunkChars))
	slog.Info("Answer engine initialized", "model", cfg.LLMModelName)

	router := http.NewRouter(&http.Deps{
		Retriever: retriever,
		Engine:    engine,
		Pipeline:  pipeline,
		Manager:   manager,
		FactStore: factRepo,
		Recorder:  recorder,
		DB:        db,
		SourceDir: cfg.SourceDir,
		TopK:      cfg.TopK,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
