package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"ragchat/internal/contextutil"
	"ragchat/internal/llm"
	"ragchat/internal/rag"
	"ragchat/internal/search"
	"ragchat/internal/store"
)

// ChatHandler handles HTTP requests for knowledgebase-grounded chat.
type ChatHandler struct {
	engine rag.Engine
	model  string
}

// NewChatHandler creates a new ChatHandler. model is echoed in responses so
// clients can display which completion model produced the answer.
func NewChatHandler(engine rag.Engine, model string) *ChatHandler {
	return &ChatHandler{engine: engine, model: model}
}

// ChatRequest is the HTTP request payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// SourceResponse is one retrieved source in the HTTP response.
type SourceResponse struct {
	Filename   string  `json:"filename"`
	Title      string  `json:"title,omitempty"`
	Similarity float64 `json:"similarity"`
	Preview    string  `json:"preview"`
}

// ChatResponse is the HTTP response payload.
type ChatResponse struct {
	Answer             string           `json:"answer"`
	Sources            []SourceResponse `json:"sources"`
	UsingKnowledgebase bool             `json:"using_knowledgebase"`
	Model              string           `json:"model"`
}

// ErrorResponse is the error payload shared by the API handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP answers a chat message from the knowledgebase.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.Answer(ctx, req.Message)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	sources := make([]SourceResponse, len(result.Sources))
	for i, s := range result.Sources {
		sources[i] = SourceResponse{
			Filename:   s.Filename,
			Title:      s.Title,
			Similarity: round4(s.Similarity),
			Preview:    s.Preview,
		}
	}

	resp := ChatResponse{
		Answer:             result.Answer,
		Sources:            sources,
		UsingKnowledgebase: result.UsingKnowledgebase,
		Model:              h.model,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeEngineError maps engine errors to HTTP status codes: client errors,
// missing store, model drift and collaborator outages each get a distinct
// status.
func (h *ChatHandler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "chat request failed", "error", err)

	var dimErr *search.DimensionMismatchError
	switch {
	case errors.Is(err, rag.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Message is required")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Knowledgebase not built. Run 'ragctl build' first.")
	case errors.As(err, &dimErr):
		writeError(w, http.StatusInternalServerError,
			"Embedding dimension mismatch between the stored chunks and the query model. Rebuild the knowledgebase with the current embedding model.")
	case errors.Is(err, llm.ErrEmbeddingUnavailable):
		writeError(w, http.StatusBadGateway, "Embedding service unavailable")
	case errors.Is(err, llm.ErrCompletionUnavailable):
		writeError(w, http.StatusBadGateway, "Completion service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to process chat request")
	}
}

// round4 rounds a similarity score to 4 decimal digits for the response.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
