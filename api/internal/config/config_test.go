package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "FLASK_ENV", "HOST", "PORT", "LLM_PROVIDER", "GEMINI_API_KEY", "API_KEY",
	"GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL", "MAX_IMAGE_BYTES", "REQUEST_TIMEOUT",
	"RATE_LIMIT_ENABLED", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "TELEGRAM_BOT_TOKEN",
}

// cleanEnv clears every key Load reads and moves into an empty directory so
// no stray .env is picked up.
func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		// godotenv never overrides a variable that is set, even to ""
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxImageBytes)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFailsFastWithoutKey(t *testing.T) {
	cleanEnv(t)
	_, err := Load()
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	t.Setenv("LLM_PROVIDER", "openai")
	_, err = Load()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("LLM_PROVIDER", "yandex")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown LLM_PROVIDER")
}

func TestLoadLegacyAPIKey(t *testing.T) {
	cleanEnv(t)
	t.Setenv("API_KEY", "legacy")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.GeminiAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("PORT", "8080")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("REQUEST_TIMEOUT", "30")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, int64(1024), cfg.MaxImageBytes)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.RateLimitEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadBadValues(t *testing.T) {
	cleanEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	t.Setenv("MAX_IMAGE_BYTES", "lots")
	_, err := Load()
	assert.ErrorContains(t, err, "MAX_IMAGE_BYTES")

	t.Setenv("MAX_IMAGE_BYTES", "")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")

	t.Setenv("REQUEST_TIMEOUT", "90s")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	_, err = Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_ENABLED")
}

func TestLoadDotEnv(t *testing.T) {
	dir := cleanEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_API_KEY=from-file\nPORT=7000\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GeminiAPIKey)
	assert.Equal(t, "7000", cfg.Port)
}
