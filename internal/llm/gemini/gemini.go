// Package gemini provides a Google Gemini implementation of the llm.Provider interface.
//
// Like the ollama package, it defines its own message and option types so the
// parent llm package can import it without a cycle.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Provider implements the LLM provider interface for the Gemini API.
type Provider struct {
	client *genai.Client
	config Config
	logger *slog.Logger
}

// Config holds Gemini-specific configuration.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// Model is the default model to use (e.g., "gemini-2.0-flash")
	Model string

	// BaseURL overrides the API endpoint. Mostly useful for tests and proxies.
	BaseURL string

	// HTTPClient is used for requests when set.
	HTTPClient *http.Client
}

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// Message represents a single message in a conversation.
type Message struct {
	Role    string
	Content string
}

// ChatOptions configures chat behavior.
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Response represents a complete LLM response.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

// Common errors
var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrContextCanceled     = errors.New("operation was canceled")
	ErrEmptyResponse       = errors.New("gemini returned no text")
)

// New creates a new Gemini provider.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
		logger.Debug("using default model", "model", cfg.Model)
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
		logger.Debug("created gemini client with explicit base url", "base_url", cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return &Provider{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Chat sends messages to Gemini and returns a complete response.
// System messages become the system instruction; assistant messages are sent
// with the "model" role.
func (p *Provider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	model := p.config.Model
	genConfig := &genai.GenerateContentConfig{}
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		temperature := opts.Temperature
		genConfig.Temperature = &temperature
		if opts.MaxTokens > 0 {
			genConfig.MaxOutputTokens = int32(opts.MaxTokens)
		}
	}

	contents, system := convertMessages(messages)
	if system != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(contents) == 0 {
		return nil, errors.New("messages must include at least one user message")
	}

	p.logger.Debug("sending generate request", "model", model, "messages", len(messages))

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		p.logger.Error("generate request failed", "error", err, "model", model)
		return nil, classify(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w (model %s)", ErrEmptyResponse, model)
	}

	out := &Response{
		Content: text,
		Model:   model,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.TokensPrompt = int(usage.PromptTokenCount)
		out.TokensTotal = int(usage.TotalTokenCount)
	}

	p.logger.Debug("generate request completed",
		"model", out.Model,
		"prompt_tokens", out.TokensPrompt,
		"total_tokens", out.TokensTotal)

	return out, nil
}

// Heartbeat checks that the API is reachable and the key is accepted by
// fetching the default model's metadata.
func (p *Provider) Heartbeat(ctx context.Context) error {
	p.logger.Debug("checking gemini heartbeat")

	if _, err := p.client.Models.Get(ctx, p.config.Model, nil); err != nil {
		p.logger.Error("gemini heartbeat failed", "error", err)
		return classify(err)
	}

	p.logger.Debug("gemini heartbeat successful")
	return nil
}

// ModelAvailable checks if a specific model can be used with this key.
func (p *Provider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	p.logger.Debug("checking model availability", "model", model)

	_, err := p.client.Models.Get(ctx, model, nil)
	if err == nil {
		return true, nil
	}

	if isNotFound(err) {
		p.logger.Debug("model not found", "model", model)
		return false, nil
	}

	p.logger.Error("failed to look up model", "model", model, "error", err)
	return false, classify(err)
}

// convertMessages splits system messages out of the conversation and maps the
// remaining roles onto Gemini's user/model roles.
func convertMessages(messages []Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = append(system, msg.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return contents, strings.Join(system, "\n\n")
}

// isNotFound reports whether err is a 404 from the API. The client has
// returned APIError both by value and by pointer across releases.
func isNotFound(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusNotFound
	}
	return false
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrContextCanceled, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
