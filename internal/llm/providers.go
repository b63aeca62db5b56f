package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bimmerbailey/jester/internal/config"
	"github.com/bimmerbailey/jester/internal/llm/gemini"
	"github.com/bimmerbailey/jester/internal/llm/ollama"
)

// resolveAPIKey checks config first, then falls back to the environment
// variables in order. Returns empty string if none is set.
func resolveAPIKey(configKey string, envVarNames ...string) string {
	if configKey != "" {
		return configKey
	}
	for _, name := range envVarNames {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// newGeminiProvider creates a Google Gemini provider.
func newGeminiProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	apiKey := resolveAPIKey(cfg.LLM.Gemini.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")

	if apiKey == "" {
		return nil, fmt.Errorf(
			"gemini api key not configured: set GEMINI_API_KEY environment variable or llm.gemini.api_key in config",
		)
	}

	// The gemini client is built against a background context; per-request
	// contexts are passed to each call.
	p, err := gemini.New(context.Background(), gemini.Config{
		APIKey:  apiKey,
		Model:   cfg.LLM.Gemini.Model,
		BaseURL: cfg.LLM.Gemini.BaseURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini provider: %w", err)
	}

	logger.Info("initialized gemini provider", "model", cfg.LLM.Gemini.Model)

	return &geminiProviderAdapter{provider: p}, nil
}

// newOllamaProvider creates an Ollama provider.
func newOllamaProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	p, err := ollama.New(ollama.Config{
		Host:  cfg.LLM.Ollama.Host,
		Model: cfg.LLM.Ollama.Model,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama provider: %w", err)
	}

	logger.Info("initialized ollama provider",
		"host", cfg.LLM.Ollama.Host,
		"model", cfg.LLM.Ollama.Model,
	)

	return &ollamaProviderAdapter{provider: p}, nil
}
