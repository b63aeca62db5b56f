package llm

import (
	"context"

	"github.com/bimmerbailey/jester/internal/llm/gemini"
	"github.com/bimmerbailey/jester/internal/llm/ollama"
)

// The provider subpackages define their own message and option types so they
// do not import this package. The adapters below bridge the two.

// geminiProviderAdapter adapts gemini.Provider to the Provider interface.
type geminiProviderAdapter struct {
	provider *gemini.Provider
}

func (a *geminiProviderAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	geminiMessages := make([]gemini.Message, len(messages))
	for i, msg := range messages {
		geminiMessages[i] = gemini.Message{Role: msg.Role, Content: msg.Content}
	}

	var geminiOpts *gemini.ChatOptions
	if opts != nil {
		geminiOpts = &gemini.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	}

	resp, err := a.provider.Chat(ctx, geminiMessages, geminiOpts)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *geminiProviderAdapter) Heartbeat(ctx context.Context) error {
	return wrapError(a.provider.Heartbeat(ctx))
}

func (a *geminiProviderAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	ok, err := a.provider.ModelAvailable(ctx, model)
	return ok, wrapError(err)
}

// ollamaProviderAdapter adapts ollama.Provider to the Provider interface.
type ollamaProviderAdapter struct {
	provider *ollama.Provider
}

func (a *ollamaProviderAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	ollamaMessages := make([]ollama.Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = ollama.Message{Role: msg.Role, Content: msg.Content}
	}

	var ollamaOpts *ollama.ChatOptions
	if opts != nil {
		ollamaOpts = &ollama.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	}

	resp, err := a.provider.Chat(ctx, ollamaMessages, ollamaOpts)
	if err != nil {
		return nil, wrapError(err)
	}

	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *ollamaProviderAdapter) Heartbeat(ctx context.Context) error {
	return wrapError(a.provider.Heartbeat(ctx))
}

func (a *ollamaProviderAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	ok, err := a.provider.ModelAvailable(ctx, model)
	return ok, wrapError(err)
}
