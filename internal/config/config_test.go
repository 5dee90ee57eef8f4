package config

import (
	"log/slog"
	"testing"
)

// clearEnv blanks the variables a test asserts on, so ambient values in
// the developer's shell cannot leak in. Load treats empty as unset.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "ENVIRONMENT", "LOG_LEVEL", "LLM_PROVIDER", "STORAGE_BACKEND",
		"DATA_DIR", "FIXTURE_PATH", "SESSION_NAME", "MAX_PARSE_RETRIES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.LLMProvider != ProviderOllama {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, ProviderOllama)
	}
	if cfg.StorageBackend != StorageFile {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, StorageFile)
	}
	if cfg.FixturePath != "./game_data/initial_state.json" {
		t.Errorf("FixturePath = %q", cfg.FixturePath)
	}
	if cfg.SessionName != "current" {
		t.Errorf("SessionName = %q, want current", cfg.SessionName)
	}
	if cfg.MaxParseRetries != 2 {
		t.Errorf("MaxParseRetries = %d, want 2", cfg.MaxParseRetries)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t, "FIXTURE_PATH")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis-host:6380")
	t.Setenv("DATA_DIR", "/var/lib/adventure")
	t.Setenv("MAX_PARSE_RETRIES", "0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StorageBackend != StorageRedis {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, StorageRedis)
	}
	if cfg.RedisURL != "redis-host:6380" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.FixturePath != "/var/lib/adventure/initial_state.json" {
		t.Errorf("FixturePath = %q, want derived from DATA_DIR", cfg.FixturePath)
	}
	if cfg.MaxParseRetries != 0 {
		t.Errorf("MaxParseRetries = %d, want 0", cfg.MaxParseRetries)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown storage backend", "STORAGE_BACKEND", "postgres"},
		{"unknown llm provider", "LLM_PROVIDER", "gpt"},
		{"negative retries", "MAX_PARSE_RETRIES", "-1"},
		{"non-numeric retries", "MAX_PARSE_RETRIES", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_AnthropicRequiresKey(t *testing.T) {
	clearEnv(t, "ANTHROPIC_API_KEY")
	t.Setenv("LLM_PROVIDER", "anthropic")
	if _, err := Load(); err == nil {
		t.Error("expected error without ANTHROPIC_API_KEY")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLMProvider != ProviderAnthropic {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
}
