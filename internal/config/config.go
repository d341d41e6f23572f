package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	appErr "ragchat/internal/pkg/errors"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the immutable, env-sourced configuration. It is loaded once at
// process start and passed into constructed components; nothing reads the
// environment after Load returns.
type Config struct {
	ActiveProvider string
	APIKey         string
	EmbeddingModel string
	LLMModel       string

	DatabaseURL    string
	CollectionName string
	PDFPath        string

	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	EmbedBatchSize int
	RequestTimeout time.Duration

	LogLevel string
}

// Load reads a .env file if present, then the process environment, and
// validates everything the active provider needs. Validation failures wrap
// ErrConfiguration and happen before any network call.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ActiveProvider: strings.ToLower(strings.TrimSpace(getEnv("ACTIVE_PROVIDER", ProviderOpenAI))),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CollectionName: getEnv("PG_VECTOR_COLLECTION_NAME", "documents"),
		PDFPath:        getEnv("PDF_PATH", "document.pdf"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is required", appErr.ErrConfiguration)
	}

	switch cfg.ActiveProvider {
	case ProviderOpenAI:
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		cfg.EmbeddingModel = strings.TrimSpace(os.Getenv("OPENAI_EMBEDDING_MODEL"))
		cfg.LLMModel = getEnv("OPENAI_LLM_MODEL", "gpt-5-nano")
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required", appErr.ErrConfiguration)
		}
		if cfg.EmbeddingModel == "" {
			return nil, fmt.Errorf("%w: OPENAI_EMBEDDING_MODEL is required", appErr.ErrConfiguration)
		}
	case ProviderGemini:
		cfg.APIKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		cfg.EmbeddingModel = strings.TrimSpace(os.Getenv("GOOGLE_EMBEDDING_MODEL"))
		cfg.LLMModel = getEnv("GOOGLE_LLM_MODEL", "gemini-2.5-flash-lite")
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY is required", appErr.ErrConfiguration)
		}
		if cfg.EmbeddingModel == "" {
			return nil, fmt.Errorf("%w: GOOGLE_EMBEDDING_MODEL is required", appErr.ErrConfiguration)
		}
	default:
		return nil, fmt.Errorf("%w: ACTIVE_PROVIDER must be %q or %q, got %q", appErr.ErrConfiguration, ProviderOpenAI, ProviderGemini, cfg.ActiveProvider)
	}

	var err error
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 150); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 10); err != nil {
		return nil, err
	}
	if cfg.EmbedBatchSize, err = getEnvInt("EMBED_BATCH_SIZE", 64); err != nil {
		return nil, err
	}
	timeoutSecs, err := getEnvInt("REQUEST_TIMEOUT_SECS", 60)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: CHUNK_SIZE must be positive", appErr.ErrConfiguration)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: CHUNK_OVERLAP must satisfy 0 <= overlap < CHUNK_SIZE", appErr.ErrConfiguration)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("%w: TOP_K must be positive", appErr.ErrConfiguration)
	}
	if cfg.EmbedBatchSize <= 0 {
		return nil, fmt.Errorf("%w: EMBED_BATCH_SIZE must be positive", appErr.ErrConfiguration)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", appErr.ErrConfiguration, key, raw)
	}
	return value, nil
}
