package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"ragchat/internal/config"
	"ragchat/internal/http"
	"ragchat/internal/llm"
	"ragchat/internal/rag"
	"ragchat/internal/store"
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

	// The snapshot store is an explicit object handed to every consumer.
	fileStore := store.NewFileStore(cfg.StorePath)
	if err := fileStore.Ping(context.Background()); err != nil {
		slog.Warn("Vector store snapshot not found; chat will fail until it is built",
			"path", cfg.StorePath, "hint", "run 'ragctl build'")
	} else {
		slog.Info("Vector store snapshot found", "path", cfg.StorePath)
	}

	// External collaborators: embedding and completion clients
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	engine := rag.NewEngine(fileStore, embedder, llmClient, cfg.TopK)
	slog.Info("Chat engine initialized", "top_k", cfg.TopK, "embedding_model", cfg.EmbeddingModel)

	router := http.NewRouter(&http.Deps{
		Engine: engine,
		Store:  fileStore,
		Model:  cfg.LLMModel,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
