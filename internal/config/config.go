// Package config provides configuration types and helpers for jester.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application-wide configuration.
type Config struct {
	Format  string       `mapstructure:"format"`
	Verbose bool         `mapstructure:"verbose"`
	LLM     LLMConfig    `mapstructure:"llm"`
	Server  ServerConfig `mapstructure:"server"`
}

// LLMConfig holds configuration for LLM providers.
type LLMConfig struct {
	// Provider selects which LLM to use: "gemini", "ollama"
	Provider string `mapstructure:"provider"`

	// Global settings applied to all providers
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// Timeout bounds a single generation request. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`

	// Provider-specific configuration
	Gemini GeminiConfig `mapstructure:"gemini"`
	Ollama OllamaConfig `mapstructure:"ollama"`
}

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from GEMINI_API_KEY if empty
	Model   string `mapstructure:"model"`    // e.g. "gemini-2.0-flash"
	BaseURL string `mapstructure:"base_url"` // Optional: override the API endpoint
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host  string `mapstructure:"host"`  // API endpoint
	Model string `mapstructure:"model"` // Default model name
}

// ServerConfig holds settings for `jester serve`.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Default values, also used by SetDefaults.
const (
	DefaultProvider    = "gemini"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
	DefaultTemperature = 0.9
	DefaultTimeout     = 60 * time.Second
	DefaultAddr        = ":8080"
)

// SetDefaults registers jester's default configuration values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)

	v.SetDefault("llm.provider", DefaultProvider)
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.timeout", DefaultTimeout)
	v.SetDefault("llm.gemini.model", DefaultGeminiModel)
	v.SetDefault("llm.ollama.host", DefaultOllamaHost)
	v.SetDefault("llm.ollama.model", DefaultOllamaModel)

	v.SetDefault("server.addr", DefaultAddr)
	// Generation is slow; the write timeout has to outlast llm.timeout.
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", DefaultTimeout+15*time.Second)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Without a generation limit there is no write deadline that is safe.
	if cfg.LLM.Timeout == 0 {
		cfg.Server.WriteTimeout = 0
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values jester cannot work with.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LLM.Provider) {
	case "gemini", "ollama":
	case "":
		errs = append(errs, errors.New("llm.provider is required"))
	default:
		errs = append(errs, fmt.Errorf("unknown llm.provider %q (supported: gemini, ollama)", c.LLM.Provider))
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must not be negative, got %d", c.LLM.MaxTokens))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must not be negative, got %s", c.LLM.Timeout))
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must not be negative, got %s", c.Server.WriteTimeout))
	} else if !WriteTimeoutCovers(c.Server.WriteTimeout, c.LLM.Timeout) {
		errs = append(errs, fmt.Errorf("server.write_timeout (%s) must be longer than llm.timeout (%s), or 0",
			c.Server.WriteTimeout, c.LLM.Timeout))
	}

	return errors.Join(errs...)
}

// WriteTimeoutCovers reports whether an HTTP write deadline of write leaves
// room for a generation bounded by llm. Zero means no limit for either.
func WriteTimeoutCovers(write, llm time.Duration) bool {
	if write == 0 {
		return true
	}
	return llm > 0 && write > llm
}

// Model returns the model name configured for the selected provider.
func (c *LLMConfig) Model() string {
	switch strings.ToLower(c.Provider) {
	case "gemini":
		return c.Gemini.Model
	case "ollama":
		return c.Ollama.Model
	default:
		return ""
	}
}
