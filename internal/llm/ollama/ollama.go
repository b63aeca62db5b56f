// Package ollama runs jester's prompts against a local Ollama server.
//
// Like the gemini package it defines its own message, option and response
// types; the parent llm package adapts them to llm.Provider.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "llama3.2"

// Config holds Ollama settings.
type Config struct {
	// Host is the server URL. Empty means OLLAMA_HOST or http://localhost:11434.
	Host string

	// Model is used when a request does not name one.
	Model string
}

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// ChatOptions tunes a single request.
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Response is a complete, non-streamed reply.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrContextCanceled     = errors.New("operation was canceled")
)

// Provider sends chat requests to an Ollama server.
type Provider struct {
	client *api.Client
	model  string
	logger *slog.Logger
}

// New creates a Provider for cfg.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	client, err := newClient(cfg.Host)
	if err != nil {
		logger.Error("failed to create ollama client", "host", cfg.Host, "error", err)
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	logger.Debug("created ollama client", "host", cfg.Host, "model", model)

	return &Provider{client: client, model: model, logger: logger}, nil
}

func newClient(host string) (*api.Client, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return client, nil
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}
	return api.NewClient(u, http.DefaultClient), nil
}

// Chat sends messages as one non-streamed request and returns the reply.
func (p *Provider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	req := p.chatRequest(messages, opts)
	p.logger.Debug("sending chat request", "model", req.Model, "options", req.Options)

	var reply api.ChatResponse
	err := p.client.Chat(ctx, req, func(r api.ChatResponse) error {
		reply = r
		return nil
	})
	if err != nil {
		p.logger.Error("chat request failed", "model", req.Model, "error", err)
		return nil, classify(err)
	}

	return &Response{
		Content:      reply.Message.Content,
		Model:        reply.Model,
		TokensPrompt: reply.PromptEvalCount,
		TokensTotal:  reply.PromptEvalCount + reply.EvalCount,
	}, nil
}

// chatRequest builds the request body. Sampling options are only sent when
// set, so a nil opts leaves temperature to the model's own default.
func (p *Provider) chatRequest(messages []Message, opts *ChatOptions) *api.ChatRequest {
	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: make([]api.Message, len(messages)),
		Stream:   &stream,
	}
	for i, m := range messages {
		req.Messages[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	if opts == nil {
		return req
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}
	req.Options = map[string]interface{}{"temperature": opts.Temperature}
	if opts.MaxTokens > 0 {
		req.Options["num_predict"] = opts.MaxTokens
	}
	return req
}

// Heartbeat reports whether the server answers.
func (p *Provider) Heartbeat(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		p.logger.Error("ollama heartbeat failed", "error", err)
		return classify(err)
	}
	return nil
}

// ModelAvailable reports whether model has been pulled. A name without a tag
// matches its ":latest" variant.
func (p *Provider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	list, err := p.client.List(ctx)
	if err != nil {
		p.logger.Error("failed to list models", "error", err)
		return false, classify(err)
	}

	for _, m := range list.Models {
		if sameModel(m.Name, model) || sameModel(m.Model, model) {
			return true, nil
		}
	}

	p.logger.Debug("model not pulled", "model", model, "pulled", len(list.Models))
	return false, nil
}

func sameModel(a, b string) bool {
	return withTag(a) == withTag(b)
}

func withTag(name string) string {
	if name == "" || strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrContextCanceled, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
