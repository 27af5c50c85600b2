package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var configKeys = []string{
	"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL",
	"STORE_PATH", "DOCS_DIR", "API_PORT",
	"CHUNK_SIZE", "CHUNK_OVERLAP", "TOP_K",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every config variable for the test and restores the
// original environment afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LLMBaseURL != "http://localhost:8080" {
		t.Errorf("LLMBaseURL = %q", cfg.LLMBaseURL)
	}
	if cfg.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.StorePath != "./data/vector-store.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.ChunkSize != 2000 || cfg.ChunkOverlap != 200 {
		t.Errorf("chunking = %d/%d, want 2000/200", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q, want 9000", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_MODEL", "custom-model")
	t.Setenv("TOP_K", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLMModel != "custom-model" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric chunk size", "CHUNK_SIZE", "big"},
		{"zero chunk size", "CHUNK_SIZE", "0"},
		{"negative overlap", "CHUNK_OVERLAP", "-1"},
		{"zero top k", "TOP_K", "0"},
		{"bad log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s expected error, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_OverlapMustBeSmallerThanSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error when overlap >= size, got nil")
	}
}

func TestApplyFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ragchat.yaml")
	data := `
docs_dir: ./kb
chunk_size: 1000
chunk_overlap: 100
top_k: 7
excludes:
  - "drafts/**"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile() error: %v", err)
	}

	if cfg.DocsDir != "./kb" {
		t.Errorf("DocsDir = %q, want ./kb", cfg.DocsDir)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 100 {
		t.Errorf("chunking = %d/%d, want 1000/100", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 7 {
		t.Errorf("TopK = %d, want 7", cfg.TopK)
	}
	if len(cfg.Excludes) != 1 || cfg.Excludes[0] != "drafts/**" {
		t.Errorf("Excludes = %v", cfg.Excludes)
	}
	// Fields absent from the file keep their loaded values.
	if cfg.StorePath != "./data/vector-store.json" {
		t.Errorf("StorePath = %q, want default preserved", cfg.StorePath)
	}
}

func TestApplyFile_Invalid(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := cfg.ApplyFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("ApplyFile() expected error for missing file, got nil")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: [oops"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cfg.ApplyFile(path); err == nil {
		t.Error("ApplyFile() expected error for malformed YAML, got nil")
	}
}
