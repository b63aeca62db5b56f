// Package generator ties the prompt builder, an llm.Provider and the
// response parser together.
//
// FetchJokes and FetchStories never fail: a provider error, a timeout or
// unparseable output all degrade to the category's fallback record.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bimmerbailey/jester/internal/config"
	"github.com/bimmerbailey/jester/internal/content"
	"github.com/bimmerbailey/jester/internal/llm"
	"github.com/bimmerbailey/jester/internal/parser"
	"github.com/bimmerbailey/jester/internal/prompt"
)

// Generator requests content from a provider and parses the reply.
// It is safe for concurrent use when the provider is.
type Generator struct {
	provider llm.Provider
	parser   *parser.Parser
	logger   *slog.Logger
	chatOpts *llm.ChatOptions
	timeout  time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for service failures. It is also handed
// to the default parser.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithParser replaces the default parser.
func WithParser(p *parser.Parser) Option {
	return func(g *Generator) {
		g.parser = p
	}
}

// WithChatOptions sets the model, temperature and token limit sent with
// every request.
func WithChatOptions(opts *llm.ChatOptions) Option {
	return func(g *Generator) {
		g.chatOpts = opts
	}
}

// WithTimeout bounds each provider call. Zero means no limit beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// New creates a Generator backed by provider.
func New(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{provider: provider}
	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.parser == nil {
		g.parser = parser.New(parser.WithLogger(g.logger))
	}

	return g
}

// FetchJokes asks the provider for jokes. It always returns at least one
// joke; on any failure that is content.FallbackJoke.
func (g *Generator) FetchJokes(ctx context.Context) []content.Joke {
	raw, err := g.Generate(ctx, content.Jokes)
	if err != nil {
		g.logger.Error("failed to generate content", "category", content.Jokes, "error", err)
		return content.FallbackJokes()
	}
	return g.parser.Jokes(raw)
}

// FetchStories asks the provider for stories. It always returns at least
// one story; on any failure that is content.FallbackStory.
func (g *Generator) FetchStories(ctx context.Context) []content.Story {
	raw, err := g.Generate(ctx, content.Stories)
	if err != nil {
		g.logger.Error("failed to generate content", "category", content.Stories, "error", err)
		return content.FallbackStories()
	}
	return g.parser.Stories(raw)
}

// Generate sends the prompt for c and returns the model's raw text.
func (g *Generator) Generate(ctx context.Context, c content.Category) (string, error) {
	if g.provider == nil {
		return "", fmt.Errorf("generate %s: %w", c, llm.ErrProviderUnavailable)
	}

	messages, err := prompt.Messages(c)
	if err != nil {
		return "", err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.provider.Chat(ctx, messages, g.chatOpts)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", c, err)
	}
	if resp == nil {
		return "", fmt.Errorf("generate %s: %w", c, llm.ErrInvalidResponse)
	}

	g.logger.Info("generated content",
		"category", c,
		"model", resp.Model,
		"tokens", resp.TokensTotal,
		"duration", time.Since(start))

	return resp.Content, nil
}

// Heartbeat reports whether the provider is reachable.
func (g *Generator) Heartbeat(ctx context.Context) error {
	if g.provider == nil {
		return llm.ErrProviderUnavailable
	}
	return g.provider.Heartbeat(ctx)
}

// FromConfig creates a Generator using the model, sampling settings and
// timeout from cfg.
func FromConfig(provider llm.Provider, cfg *config.Config, logger *slog.Logger) *Generator {
	return New(provider,
		WithLogger(logger),
		WithTimeout(cfg.LLM.Timeout),
		WithChatOptions(&llm.ChatOptions{
			Model:       cfg.LLM.Model(),
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}),
	)
}
