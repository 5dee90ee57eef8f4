package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Storage backend selectors.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// LLM provider selectors.
const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	LLMProvider     string
	ModelName       string
	OllamaURL       string
	AnthropicAPIKey string

	StorageBackend string
	RedisURL       string
	DataDir        string
	FixturePath    string
	SessionName    string

	// MaxParseRetries bounds automatic re-invocations of the oracle when
	// it returns malformed or schema-invalid output.
	MaxParseRetries int
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderOllama)),
		ModelName:       getEnv("MODEL_NAME", "qwen2.5:14b"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		DataDir:         getEnv("DATA_DIR", "./game_data"),
		SessionName:     getEnv("SESSION_NAME", "current"),
	}
	cfg.FixturePath = getEnv("FIXTURE_PATH", cfg.DataDir+"/initial_state.json")

	retries, err := strconv.Atoi(getEnv("MAX_PARSE_RETRIES", "2"))
	if err != nil || retries < 0 {
		return nil, fmt.Errorf("invalid MAX_PARSE_RETRIES: %s", getEnv("MAX_PARSE_RETRIES", "2"))
	}
	cfg.MaxParseRetries = retries

	switch cfg.StorageBackend {
	case StorageFile, StorageRedis:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (want %q or %q)", cfg.StorageBackend, StorageFile, StorageRedis)
	}

	switch cfg.LLMProvider {
	case ProviderOllama:
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER is %q", ProviderAnthropic)
		}
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q (want %q or %q)", cfg.LLMProvider, ProviderOllama, ProviderAnthropic)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
