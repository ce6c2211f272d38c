package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// MongoDB Atlas connection
	MongoURI     string
	MongoTimeout time.Duration

	// OpenAI provider
	OpenAIAPIKey  string
	OpenAIBaseURL string
	EmbedModel    string
	ChatModel     string

	// Auth (empty disables bearer auth)
	APIKey string

	// Upload handling
	DataDir        string
	MaxUploadBytes int64

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	RetrievalTopK int

	// PDF
	PDFFallbackPdftotext bool

	// Process
	ShutdownTimeout time.Duration
	LogLevel        string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		MongoURI:     os.Getenv("MONGO_URI"),
		MongoTimeout: envDuration("MONGO_TIMEOUT", 10*time.Second),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		EmbedModel:    envOr("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:     envOr("OPENAI_CHAT_MODEL", "gpt-3.5-turbo"),

		APIKey: os.Getenv("API_KEY"),

		DataDir:        envOr("DATA_DIR", "data"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 33554432), // 32MB

		ChunkSize:    envInt("CHUNK_SIZE", 1000),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),

		RetrievalTopK: envInt("RETRIEVAL_TOP_K", 3),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        envOr("LOG_LEVEL", "info"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 33554432
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 5
	}
	if cfg.RetrievalTopK <= 0 {
		cfg.RetrievalTopK = 3
	}
	if cfg.MongoTimeout <= 0 {
		cfg.MongoTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
