// Package handlers contains the HTTP handlers for the ask, reindex, health
// and memory endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"askdocs/internal/contextutil"
	"askdocs/internal/corpus"
	"askdocs/internal/memory"
	"askdocs/internal/rag"
	"askdocs/internal/retrieval"
	"askdocs/internal/service"
)

// Retriever is the slice of retrieval the ask handler needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]corpus.ScoredChunk, error)
}

var _ Retriever = (*retrieval.Retriever)(nil)

// AskHandler handles HTTP requests for question answering.
type AskHandler struct {
	retriever Retriever
	engine    rag.Engine
	recorder  *memory.Recorder
	topK      int
	logger    *slog.Logger
}

// NewAskHandler creates a new AskHandler. recorder may be nil to disable
// memory extraction.
func NewAskHandler(retriever Retriever, engine rag.Engine, recorder *memory.Recorder, topK int) *AskHandler {
	if topK <= 0 {
		topK = 5
	}
	return &AskHandler{
		retriever: retriever,
		engine:    engine,
		recorder:  recorder,
		topK:      topK,
		logger:    slog.Default(),
	}
}

// AskRequest represents the HTTP request payload for ask.
type AskRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

// AskResponse represents the HTTP response payload for ask.
type AskResponse struct {
	Answer    string         `json:"answer"`
	Citations []rag.Citation `json:"citations"`
	Refused   bool           `json:"refused"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		h.writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	// Bound user-provided K; zero means the configured default.
	topK := h.topK
	if req.K > 0 {
		topK = req.K
	}
	if topK > 20 {
		topK = 20
	}

	chunks, err := h.retriever.Retrieve(ctx, req.Question, topK)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to retrieve context")
		return
	}

	result, err := h.engine.Answer(ctx, req.Question, chunks)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to generate answer")
		return
	}

	// Memory extraction runs on the user input only, never the answer, and
	// is never fatal to the request.
	if h.recorder != nil {
		if _, _, err := h.recorder.Remember(ctx, req.Question, ""); err != nil {
			logger.WarnContext(ctx, "memory write failed", "error", err)
		}
	}

	resp := AskResponse{
		Answer:    result.Answer,
		Citations: result.Citations,
		Refused:   result.Refused,
	}
	if resp.Citations == nil {
		resp.Citations = []rag.Citation{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleServiceError maps service errors to HTTP statuses.
func (h *AskHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}
	if errors.Is(err, service.ErrValidation) {
		h.writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if errors.Is(err, service.ErrOracleTimeout) {
		h.writeError(w, http.StatusGatewayTimeout, "LLM generation timed out")
		return
	}
	if errors.Is(err, service.ErrOracleUnavailable) {
		h.writeError(w, http.StatusBadGateway, "LLM service unavailable")
		return
	}

	h.writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeError writes an error response.
func (h *AskHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
