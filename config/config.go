package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	DatabaseURL      string
	Port             string
	JWTSecret        string
	TokenExpiryHours int
	GeminiAPIKey     string
	GeminiModel      string
	EmbeddingModel   string
	IndexDir         string
	TopK             int
}

// Load reads the environment (plus an optional .env file) and validates the
// values the server cannot run without.
func Load() (*Config, error) {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             getEnv("PORT", "5001"),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		TokenExpiryHours: getEnvInt("JWT_ACCESS_TOKEN_EXPIRES_HOURS", 24),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		IndexDir:         getEnv("RAG_INDEX_DIR", "./langchain_store"),
		TopK:             getEnvInt("RAG_TOP_K", 8),
	}

	// GOOGLE_API_KEY kept as a fallback name for older deployments.
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if cfg.TokenExpiryHours <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRES_HOURS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
