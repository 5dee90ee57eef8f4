package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/internal/engine"
	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/services"
	"github.com/jwebster45206/adventure-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Log to a file so slog output does not fight the TUI for the terminal.
	logFile, err := os.OpenFile("adventure.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()
	log := logger.Setup(cfg, logFile)

	var store storage.Store
	switch cfg.StorageBackend {
	case config.StorageRedis:
		store = storage.NewRedisStore(cfg.RedisURL, log)
	default:
		store = storage.NewFileStore(cfg.DataDir, log)
	}
	defer func() { _ = store.Close() }()

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Ping(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Storage unavailable: %v\n", err)
		os.Exit(1)
	}

	var llm services.LLMService
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		llm = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
	default:
		llm = services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := llm.InitModel(initCtx, cfg.ModelName); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize model %s: %v\n", cfg.ModelName, err)
		os.Exit(1)
	}

	sess, err := engine.LoadSession(startCtx, store, cfg.FixturePath, engine.SessionID(cfg.SessionName), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		os.Exit(1)
	}

	processor := engine.NewTurnProcessor(store, llm, cfg.MaxParseRetries, log)

	ui := NewGameUI(processor, sess)
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
