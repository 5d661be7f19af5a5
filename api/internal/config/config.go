package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultMaxImageBytes = 5 << 20
)

type Config struct {
	Env  string
	Host string
	Port string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	MaxImageBytes    int64
	RequestTimeout   time.Duration
	RateLimitEnabled bool
	CORSOrigins      []string

	LogLevel  string
	LogFormat string

	TelegramBotToken string
}

func (c *Config) Production() bool { return c.Env == "production" }

func (c *Config) Addr() string { return c.Host + ":" + c.Port }

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the process environment. Outside production a .env file in the
// working directory is loaded first if present. The credential of the
// selected provider is required.
func Load() (*Config, error) {
	env := getEnv("APP_ENV", getEnv("FLASK_ENV", "development"))
	if env != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		env = getEnv("APP_ENV", getEnv("FLASK_ENV", "development"))
	}

	cfg := &Config{
		Env:  env,
		Host: getEnv("HOST", "0.0.0.0"),
		Port: getEnv("PORT", "5000"),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")
	if cfg.Production() {
		cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	}

	var err error
	if cfg.MaxImageBytes, err = int64Env("MAX_IMAGE_BYTES", defaultMaxImageBytes); err != nil {
		return nil, err
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitEnabled, err = boolEnv("RATE_LIMIT_ENABLED", true); err != nil {
		return nil, err
	}
	for _, o := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	switch cfg.LLMProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("missing required env GEMINI_API_KEY (or API_KEY)")
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("missing required env OPENAI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q; use gemini or openai", cfg.LLMProvider)
	}
	return cfg, nil
}

func int64Env(k string, def int64) (int64, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", k, err)
	}
	return n, nil
}

// durationEnv accepts Go durations ("90s") or plain seconds ("90").
func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("bad %s: %q", k, v)
	}
	return d, nil
}

func boolEnv(k string, def bool) (bool, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("bad %s: %w", k, err)
	}
	return b, nil
}
