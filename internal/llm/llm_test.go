package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bimmerbailey/jester/internal/config"
	"github.com/bimmerbailey/jester/internal/llm/gemini"
	"github.com/bimmerbailey/jester/internal/llm/ollama"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewProvider_AllProviders(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.LLMConfig
		setupEnv    func(t *testing.T)
		expectError bool
		errorMsg    string
	}{
		{
			name: "ollama - valid config",
			cfg: config.LLMConfig{
				Provider: "ollama",
				Ollama:   config.OllamaConfig{Host: "http://localhost:11434", Model: "llama3.2"},
			},
			setupEnv: func(t *testing.T) {},
		},
		{
			name: "gemini - with GEMINI_API_KEY",
			cfg: config.LLMConfig{
				Provider: "gemini",
				Gemini:   config.GeminiConfig{Model: "gemini-2.0-flash"},
			},
			setupEnv: func(t *testing.T) {
				t.Setenv("GEMINI_API_KEY", "test-key")
			},
		},
		{
			name: "gemini - with GOOGLE_API_KEY",
			cfg: config.LLMConfig{
				Provider: "Gemini",
			},
			setupEnv: func(t *testing.T) {
				t.Setenv("GEMINI_API_KEY", "")
				t.Setenv("GOOGLE_API_KEY", "test-key")
			},
		},
		{
			name: "gemini - with config key",
			cfg: config.LLMConfig{
				Provider: "gemini",
				Gemini:   config.GeminiConfig{APIKey: "from-config"},
			},
			setupEnv: func(t *testing.T) {},
		},
		{
			name: "gemini - missing api key",
			cfg:  config.LLMConfig{Provider: "gemini"},
			setupEnv: func(t *testing.T) {
				t.Setenv("GEMINI_API_KEY", "")
				t.Setenv("GOOGLE_API_KEY", "")
			},
			expectError: true,
			errorMsg:    "GEMINI_API_KEY",
		},
		{
			name:        "unknown provider",
			cfg:         config.LLMConfig{Provider: "openai"},
			setupEnv:    func(t *testing.T) {},
			expectError: true,
			errorMsg:    "unknown llm provider",
		},
		{
			name:        "empty provider",
			cfg:         config.LLMConfig{Provider: ""},
			setupEnv:    func(t *testing.T) {},
			expectError: true,
			errorMsg:    "not specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv(t)

			provider, err := NewProvider(&config.Config{LLM: tt.cfg}, testLogger())

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error should contain %q, got: %v", tt.errorMsg, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider == nil {
				t.Fatal("expected provider but got nil")
			}
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name      string
		configKey string
		env       map[string]string
		expected  string
	}{
		{"config key takes precedence", "from-config", map[string]string{"KEY_A": "from-env"}, "from-config"},
		{"fallback to first env var", "", map[string]string{"KEY_A": "a", "KEY_B": "b"}, "a"},
		{"fallback to second env var", "", map[string]string{"KEY_A": "", "KEY_B": "b"}, "b"},
		{"empty when nothing set", "", map[string]string{"KEY_A": "", "KEY_B": ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := resolveAPIKey(tt.configKey, "KEY_A", "KEY_B"); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestNewProviderNilArgs verifies nil config and nil logger are rejected.
func TestNewProviderNilArgs(t *testing.T) {
	if _, err := NewProvider(nil, testLogger()); err == nil {
		t.Error("NewProvider() should reject nil config")
	}

	cfg := &config.Config{LLM: config.LLMConfig{Provider: "ollama"}}
	if _, err := NewProvider(cfg, nil); err == nil {
		t.Error("NewProvider() should reject nil logger")
	}
}

// TestOllamaAdapterChat drives the full factory → adapter → ollama path
// against a mock server.
func TestOllamaAdapterChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":   req["model"],
			"message": map[string]string{"role": "assistant", "content": "a joke"},
			"done":    true,
		})
	}))
	defer server.Close()

	cfg := &config.Config{LLM: config.LLMConfig{
		Provider: "ollama",
		Ollama:   config.OllamaConfig{Host: server.URL, Model: "llama3.2"},
	}}

	provider, err := NewProvider(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}

	resp, err := provider.Chat(context.Background(), []Message{{Role: "user", Content: "joke please"}}, &ChatOptions{Temperature: 0.9})
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}
	if resp.Content != "a joke" || resp.Model != "llama3.2" {
		t.Errorf("Chat() = %+v", resp)
	}
}

// TestOllamaAdapterUnavailable checks that subpackage errors surface as llm sentinels.
func TestOllamaAdapterUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := &config.Config{LLM: config.LLMConfig{
		Provider: "ollama",
		Ollama:   config.OllamaConfig{Host: url},
	}}

	provider, err := NewProvider(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}

	if err := provider.Heartbeat(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Heartbeat() error = %v, want ErrProviderUnavailable", err)
	}
	_, err = provider.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Chat() error = %v, want ErrProviderUnavailable", err)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"ollama unavailable", fmt.Errorf("%w: dial", ollama.ErrProviderUnavailable), ErrProviderUnavailable},
		{"ollama canceled", fmt.Errorf("%w: ctx", ollama.ErrContextCanceled), ErrContextCanceled},
		{"gemini unavailable", fmt.Errorf("%w: 429", gemini.ErrProviderUnavailable), ErrProviderUnavailable},
		{"gemini canceled", fmt.Errorf("%w: ctx", gemini.ErrContextCanceled), ErrContextCanceled},
		{"gemini empty", gemini.ErrEmptyResponse, ErrInvalidResponse},
		{"already llm", ErrModelNotFound, ErrModelNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapError(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("wrapError(%v) = %v, want errors.Is %v", tt.in, got, tt.want)
			}
		})
	}

	if wrapError(nil) != nil {
		t.Error("wrapError(nil) should be nil")
	}

	plain := errors.New("messages cannot be empty")
	if got := wrapError(plain); got != plain {
		t.Errorf("unrelated errors should pass through, got %v", got)
	}
}
