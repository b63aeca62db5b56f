package llm

import (
	"errors"
	"fmt"

	"github.com/bimmerbailey/jester/internal/llm/gemini"
	"github.com/bimmerbailey/jester/internal/llm/ollama"
)

// wrapError maps provider subpackage errors onto this package's sentinels so
// callers only need errors.Is against llm errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrContextCanceled),
		errors.Is(err, ErrInvalidResponse),
		errors.Is(err, ErrModelNotFound):
		return err
	case errors.Is(err, ollama.ErrContextCanceled), errors.Is(err, gemini.ErrContextCanceled):
		return fmt.Errorf("%w: %v", ErrContextCanceled, err)
	case errors.Is(err, ollama.ErrProviderUnavailable), errors.Is(err, gemini.ErrProviderUnavailable):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	case errors.Is(err, gemini.ErrEmptyResponse):
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	default:
		return err
	}
}
