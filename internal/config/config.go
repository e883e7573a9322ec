package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Paths, model names and retrieval tunables are injected here at construction
// time so that multiple independent pipelines can run in one process.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingSize      int

	SourceDir    string
	ArtifactsDir string
	DBPath       string

	GenerateTimeout time.Duration

	TopK                int
	CandidateMultiplier int
	RRFSmoothing        float64
	HybridSearch        bool

	MaxPromptChunks int
	MaxChunkChars   int
	ChunkSize       int
	ChunkOverlap    int
	EmbedBatchSize  int
	EmbedWorkers    int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "mistral"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "multi-qa-MiniLM-L6-cos-v1"),
		SourceDir:          getEnv("SOURCE_DIR", "sample_docs"),
		ArtifactsDir:       getEnv("ARTIFACTS_DIR", "artifacts"),
		DBPath:             getEnv("DB_PATH", "./data/askdocs.db"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// EMBEDDING_VECTOR_SIZE must match the output size of the embedding model.
	// If it changes, the index on disk is invalid and must be rebuilt.
	sizeStr := getEnv("EMBEDDING_VECTOR_SIZE", "")
	if sizeStr == "" {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required")
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.EmbeddingSize = size

	timeoutSecs, err := getEnvInt("GENERATE_TIMEOUT_SECONDS", 120)
	if err != nil {
		return nil, err
	}
	cfg.GenerateTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.CandidateMultiplier, err = getEnvInt("CANDIDATE_MULTIPLIER", 3); err != nil {
		return nil, err
	}
	rrf, err := getEnvInt("RRF_SMOOTHING", 60)
	if err != nil {
		return nil, err
	}
	cfg.RRFSmoothing = float64(rrf)
	cfg.HybridSearch = strings.ToLower(getEnv("HYBRID_SEARCH", "true")) != "false"

	if cfg.MaxPromptChunks, err = getEnvInt("MAX_PROMPT_CHUNKS", 5); err != nil {
		return nil, err
	}
	if cfg.MaxChunkChars, err = getEnvInt("MAX_CHUNK_CHARS", 1200); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 800); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 150); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be less than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.EmbedBatchSize, err = getEnvInt("EMBED_BATCH_SIZE", 64); err != nil {
		return nil, err
	}
	if cfg.EmbedWorkers, err = getEnvInt("EMBED_WORKERS", 4); err != nil {
		return nil, err
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	// Create the data directory so the SQLite file can be created later.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
