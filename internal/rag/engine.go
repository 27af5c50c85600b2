package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ports.go -package=mocks ragchat/internal/rag SnapshotSource,Embedder,Completer,Engine

import (
	"context"
	"fmt"
	"strings"

	"ragchat/internal/contextutil"
	"ragchat/internal/search"
	"ragchat/internal/store"
)

// SnapshotSource provides the current vector store snapshot.
type SnapshotSource interface {
	Load(ctx context.Context) (*store.Snapshot, error)
}

// Embedder converts a query into an embedding vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// Completer generates an answer from a system prompt and a user prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Engine answers questions grounded in the vector store.
type Engine interface {
	// Answer runs one full query-response cycle: embed the query, retrieve
	// the top-K most similar chunks, and generate an answer from them.
	Answer(ctx context.Context, query string) (Result, error)
}

const (
	// previewLength is how many characters of a retrieved chunk are returned
	// as its preview.
	previewLength = 150

	// sourceDelimiter separates chunks inside the grounding block.
	sourceDelimiter = "\n\n---\n\n"

	systemInstruction = "You are a helpful assistant that answers questions using only the " +
		"context provided below. Answer strictly from that context. If the context does not " +
		"contain enough information to answer, say so explicitly instead of guessing. " +
		"Cite the sources you used when possible."
)

type engine struct {
	snapshots SnapshotSource
	embedder  Embedder
	completer Completer
	topK      int
}

// NewEngine creates an Engine. topK <= 0 selects the default of 5.
func NewEngine(snapshots SnapshotSource, embedder Embedder, completer Completer, topK int) Engine {
	if topK <= 0 {
		topK = search.DefaultTopK
	}
	return &engine{
		snapshots: snapshots,
		embedder:  embedder,
		completer: completer,
		topK:      topK,
	}
}

// Answer implements Engine. A query either fully succeeds with an answer and
// sources or fails with one error; partial results are never returned.
func (e *engine) Answer(ctx context.Context, query string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}

	snap, err := e.snapshots.Load(ctx)
	if err != nil {
		return Result{}, err
	}

	queryVector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return Result{}, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := search.TopK(queryVector, snap.Chunks, e.topK)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return Result{}, fmt.Errorf("retrieval failed: %w", err)
	}

	logger.InfoContext(ctx, "retrieval completed",
		"store_chunks", len(snap.Chunks),
		"results", len(results),
		"k", e.topK,
	)

	systemPrompt := systemInstruction + "\n\n" + groundingBlock(results)

	answer, err := e.completer.Complete(ctx, systemPrompt, query)
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate answer", "error", err)
		return Result{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := make([]Source, len(results))
	for i, r := range results {
		sources[i] = Source{
			Filename:   r.Filename,
			Title:      r.Title,
			Similarity: r.Similarity,
			Preview:    preview(r.Text),
		}
	}

	logger.InfoContext(ctx, "query answered",
		"query_length", len(query),
		"sources", len(sources),
		"answer_length", len(answer),
	)

	return Result{
		Answer:             answer,
		Sources:            sources,
		UsingKnowledgebase: true,
	}, nil
}

// groundingBlock formats the retrieved chunks for prompt injection, labeled
// with source ordinals, in descending-similarity order.
func groundingBlock(results []search.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("--- Context from the knowledgebase ---\n\n")

	for i, r := range results {
		if i > 0 {
			b.WriteString(sourceDelimiter)
		}
		fmt.Fprintf(&b, "[Source %d: %s]\n%s", i+1, r.Filename, r.Text)
	}

	b.WriteString("\n\n--- End context ---")
	return b.String()
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}
