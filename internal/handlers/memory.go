package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"askdocs/internal/contextutil"
	"askdocs/internal/memory"
	"askdocs/internal/storage"
)

// MemoryHandler handles HTTP requests for stored memory facts.
type MemoryHandler struct {
	store  storage.FactStore
	logger *slog.Logger
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(store storage.FactStore) *MemoryHandler {
	return &MemoryHandler{
		store:  store,
		logger: slog.Default(),
	}
}

// MemoryFact represents one stored fact in the HTTP response.
type MemoryFact struct {
	Target    string `json:"target"`
	Summary   string `json:"summary"`
	CreatedAt string `json:"created_at"`
}

// MemoryResponse represents the HTTP response payload for memory.
type MemoryResponse struct {
	Facts []MemoryFact `json:"facts"`
}

// ServeHTTP handles HTTP requests for memory. An optional ?target=USER or
// ?target=COMPANY query parameter filters the facts.
func (h *MemoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var (
		facts []storage.Fact
		err   error
	)
	switch target := strings.ToUpper(r.URL.Query().Get("target")); target {
	case "":
		facts, err = h.store.ListAll(ctx)
	case memory.TargetUser, memory.TargetCompany:
		facts, err = h.store.List(ctx, target)
	default:
		h.writeError(w, http.StatusBadRequest, "target must be USER or COMPANY")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to list facts", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to list memory facts")
		return
	}

	resp := MemoryResponse{Facts: make([]MemoryFact, 0, len(facts))}
	for _, f := range facts {
		resp.Facts = append(resp.Facts, MemoryFact{
			Target:    f.Target,
			Summary:   f.Summary,
			CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *MemoryHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
