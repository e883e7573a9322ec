package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"askdocs/internal/contextutil"
	"askdocs/internal/indexer"
	"askdocs/internal/retrieval"
	"askdocs/internal/service"
)

// Rebuilder triggers a corpus rebuild.
type Rebuilder interface {
	Rebuild(ctx context.Context, sourceDir string) error
}

var _ Rebuilder = (*indexer.Pipeline)(nil)

// ReindexHandler handles HTTP requests to rebuild the corpus index.
type ReindexHandler struct {
	pipeline  Rebuilder
	manager   *retrieval.Manager
	sourceDir string
	logger    *slog.Logger
}

// NewReindexHandler creates a new ReindexHandler.
func NewReindexHandler(pipeline Rebuilder, manager *retrieval.Manager, sourceDir string) *ReindexHandler {
	return &ReindexHandler{
		pipeline:  pipeline,
		manager:   manager,
		sourceDir: sourceDir,
		logger:    slog.Default(),
	}
}

// ReindexResponse represents the HTTP response payload for reindex.
type ReindexResponse struct {
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}

// ServeHTTP handles HTTP requests for reindex. In-flight queries keep
// serving the old snapshot until the rebuild swaps in the new one.
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	logger.InfoContext(ctx, "reindex requested", "source_dir", h.sourceDir)

	if err := h.pipeline.Rebuild(ctx, h.sourceDir); err != nil {
		if errors.Is(err, service.ErrRebuildInProgress) {
			logger.WarnContext(ctx, "rebuild already in progress")
			h.writeError(w, http.StatusConflict, "A rebuild is already in progress")
			return
		}
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
			return
		}
		logger.ErrorContext(ctx, "reindex failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to rebuild index")
		return
	}

	chunks := 0
	if snap := h.manager.Current(); snap != nil {
		chunks = len(snap.Chunks)
	}
	logger.InfoContext(ctx, "reindex complete", "chunks", chunks)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ReindexResponse{Status: "ok", Chunks: chunks}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *ReindexHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
