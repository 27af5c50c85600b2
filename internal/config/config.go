package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL     string
	LLMModel       string
	LLMAPIKey      string
	EmbeddingBaseURL string
	EmbeddingModel string

	StorePath string
	DocsDir   string
	Includes  []string
	Excludes  []string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults for
// optional fields and validating the rest. If a .env file exists in the
// current directory or an ancestor (up to the module root), it is loaded
// first; variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up a few directories so the binaries work from subdirectories.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:       getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModel:         getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:        getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		StorePath:        getEnv("STORE_PATH", "./data/vector-store.json"),
		DocsDir:          getEnv("DOCS_DIR", "./docs"),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 2000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 200); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return nil, err
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFile overlays build parameters from a YAML file onto the config.
// Only fields present in the file are overridden.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc struct {
		DocsDir        string   `yaml:"docs_dir"`
		StorePath      string   `yaml:"store_path"`
		EmbeddingModel string   `yaml:"embedding_model"`
		ChunkSize      int      `yaml:"chunk_size"`
		ChunkOverlap   int      `yaml:"chunk_overlap"`
		TopK           int      `yaml:"top_k"`
		Includes       []string `yaml:"includes"`
		Excludes       []string `yaml:"excludes"`
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.DocsDir != "" {
		c.DocsDir = fc.DocsDir
	}
	if fc.StorePath != "" {
		c.StorePath = fc.StorePath
	}
	if fc.EmbeddingModel != "" {
		c.EmbeddingModel = fc.EmbeddingModel
	}
	if fc.ChunkSize > 0 {
		c.ChunkSize = fc.ChunkSize
	}
	if fc.ChunkOverlap > 0 {
		c.ChunkOverlap = fc.ChunkOverlap
	}
	if fc.TopK > 0 {
		c.TopK = fc.TopK
	}
	if len(fc.Includes) > 0 {
		c.Includes = fc.Includes
	}
	if len(fc.Excludes) > 0 {
		c.Excludes = fc.Excludes
	}

	return c.validate()
}

func (c *Config) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be greater than 0")
	}
	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required")
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}
