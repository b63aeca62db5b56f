// Package content defines the records jester produces from model output and
// the categories it can ask a model for.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// Category identifies the kind of content requested from the model.
type Category string

const (
	// Jokes asks for short jokes, each tagged with a style and a theme.
	Jokes Category = "jokes"

	// Stories asks for short stories with a genre, theme, title and moral.
	Stories Category = "stories"
)

// ErrUnknownCategory is returned when a category name is not recognised.
var ErrUnknownCategory = errors.New("unknown content category")

// Categories lists every supported category in display order.
func Categories() []Category {
	return []Category{Jokes, Stories}
}

// ParseCategory converts a user-supplied name to a Category.
// Singular and plural forms are accepted in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jokes", "joke":
		return Jokes, nil
	case "stories", "story":
		return Stories, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: jokes, stories)", ErrUnknownCategory, s)
	}
}

// Valid reports whether c is a supported category.
func (c Category) Valid() bool {
	return c == Jokes || c == Stories
}

// Count is the number of items requested from the model for c.
// The model is free to return fewer.
func (c Category) Count() int {
	switch c {
	case Jokes:
		return 5
	case Stories:
		return 3
	default:
		return 0
	}
}

// Joke is a single joke recovered from model output.
//
// Content is always set. Setup and Punchline are either both set (a two-part
// joke, in which case Content joins them) or both empty.
type Joke struct {
	Style     string `json:"style"`
	Theme     string `json:"theme"`
	Content   string `json:"content"`
	Setup     string `json:"setup,omitempty"`
	Punchline string `json:"punchline,omitempty"`
}

// HasPunchline reports whether the joke is the two-part setup/punchline kind.
func (j Joke) HasPunchline() bool {
	return j.Setup != "" && j.Punchline != ""
}

// Story is a single short story recovered from model output.
type Story struct {
	Genre   string `json:"genre"`
	Theme   string `json:"theme"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Moral   string `json:"moral,omitempty"`
}

// HasMoral reports whether the story carries a moral.
func (s Story) HasMoral() bool {
	return s.Moral != ""
}
