package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/budgetwise")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("GEMINI_API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, 24, cfg.TokenExpiryHours)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
	assert.Equal(t, "./langchain_store", cfg.IndexDir)
	assert.Equal(t, 8, cfg.TopK)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRES_HOURS", "48")
	t.Setenv("RAG_TOP_K", "12")
	t.Setenv("RAG_INDEX_DIR", "/var/lib/budgetwise/index")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 48, cfg.TokenExpiryHours)
	assert.Equal(t, 12, cfg.TopK)
	assert.Equal(t, "/var/lib/budgetwise/index", cfg.IndexDir)
}

func TestLoadFailsFastOnMissingSecrets(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET_KEY", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")

	setRequired(t)
	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	setRequired(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	_, err = Load()
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestGoogleAPIKeyFallback(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
}
