package prompt

import (
	"fmt"

	"github.com/bimmerbailey/jester/internal/content"
	"github.com/bimmerbailey/jester/internal/llm"
)

// Build returns the instruction sent to the model for category c.
//
// The result is deterministic: the same category always yields the same
// string. Returns an error wrapping content.ErrUnknownCategory when c is not
// a supported category.
func Build(c content.Category) (string, error) {
	switch c {
	case content.Jokes:
		return fmt.Sprintf(jokesTemplate, c.Count()), nil
	case content.Stories:
		return fmt.Sprintf(storiesTemplate, c.Count()), nil
	default:
		return "", fmt.Errorf("prompt: %w: %q", content.ErrUnknownCategory, c)
	}
}

// Messages wraps the prompt for c as a single user turn, ready to be sent to
// any llm.Provider.
func Messages(c content.Category) ([]llm.Message, error) {
	p, err := Build(c)
	if err != nil {
		return nil, err
	}
	return []llm.Message{{Role: "user", Content: p}}, nil
}
