// Package parser recovers jokes and stories from free-form model output.
//
// The model is asked for a numbered list in which every field is introduced
// by a bold label (see internal/prompt). The parser splits the text into one
// block per list item, drops blocks that merely echo the prompt template, and
// pulls the labelled fields out of each remaining block using the extraction
// table for the category. A block becomes a record only when every required
// field is present. When nothing usable is found the category's fallback
// record is returned instead, so parsing never fails.
package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/bimmerbailey/jester/internal/content"
)

// Outcome describes the result of parsing one model response.
type Outcome struct {
	Category content.Category
	Raw      string

	// Blocks is the number of non-empty numbered items found.
	Blocks int

	// Skipped counts blocks dropped because they echo the prompt template.
	Skipped int

	// Dropped counts blocks missing at least one required field.
	Dropped int

	// Records is the number of records extracted before any fallback.
	Records int

	// Fallback is set when no record could be extracted and the category's
	// fallback record was returned.
	Fallback bool
}

// Observer is called once per parse with its outcome.
type Observer func(Outcome)

// Parser turns model output into records. The zero value is not usable; use New.
type Parser struct {
	observer Observer
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithObserver registers fn to be called after every parse.
func WithObserver(fn Observer) Option {
	return func(p *Parser) {
		p.observer = fn
	}
}

// WithLogger logs every outcome to logger: fallbacks at WARN with the raw
// model text, everything else at DEBUG.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a Parser. Without options it neither logs nor observes.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// ParseJokes parses raw with a parser that has no observer or logger.
func ParseJokes(raw string) []content.Joke {
	return defaultParser.Jokes(raw)
}

// ParseStories parses raw with a parser that has no observer or logger.
func ParseStories(raw string) []content.Story {
	return defaultParser.Stories(raw)
}

// Jokes extracts every well-formed joke from raw, in source order.
// It returns content.FallbackJokes() when none can be extracted.
func (p *Parser) Jokes(raw string) []content.Joke {
	values, outcome := p.parse(raw, content.Jokes)

	jokes := make([]content.Joke, 0, len(values))
	for _, v := range values {
		setup, punchline, text := splitJoke(v["joke"])
		if text == "" {
			outcome.Dropped++
			continue
		}
		jokes = append(jokes, content.Joke{
			Style:     v["style"],
			Theme:     v["theme"],
			Content:   text,
			Setup:     setup,
			Punchline: punchline,
		})
	}

	outcome.Records = len(jokes)
	if len(jokes) == 0 {
		outcome.Fallback = true
		jokes = content.FallbackJokes()
	}
	p.report(outcome)

	return jokes
}

// Stories extracts every well-formed story from raw, in source order.
// It returns content.FallbackStories() when none can be extracted.
func (p *Parser) Stories(raw string) []content.Story {
	values, outcome := p.parse(raw, content.Stories)

	stories := make([]content.Story, 0, len(values))
	for _, v := range values {
		stories = append(stories, content.Story{
			Genre:   v["genre"],
			Theme:   v["theme"],
			Title:   v["title"],
			Content: v["story"],
			Moral:   v["moral"],
		})
	}

	outcome.Records = len(stories)
	if len(stories) == 0 {
		outcome.Fallback = true
		stories = content.FallbackStories()
	}
	p.report(outcome)

	return stories
}

// parse splits raw into blocks and applies the category's extraction table to
// each. It returns the field values of every block that had all required fields.
func (p *Parser) parse(raw string, c content.Category) ([]map[string]string, Outcome) {
	outcome := Outcome{Category: c, Raw: raw}
	table := TableFor(c)

	var values []map[string]string
	for _, block := range Blocks(raw) {
		outcome.Blocks++

		if echoesTemplate(block) {
			outcome.Skipped++
			continue
		}

		v, ok := table.extract(block)
		if !ok {
			outcome.Dropped++
			continue
		}
		values = append(values, v)
	}

	return values, outcome
}

func (p *Parser) report(o Outcome) {
	if p.logger != nil {
		switch {
		case o.Fallback:
			p.logger.Warn("no records extracted from model output, using fallback",
				"category", o.Category,
				"blocks", o.Blocks,
				"skipped", o.Skipped,
				"dropped", o.Dropped,
				"raw", o.Raw)
		case o.Skipped > 0 || o.Dropped > 0:
			p.logger.Debug("partially parsed model output",
				"category", o.Category,
				"records", o.Records,
				"skipped", o.Skipped,
				"dropped", o.Dropped,
				"raw", o.Raw)
		default:
			p.logger.Debug("parsed model output", "category", o.Category, "records", o.Records)
		}
	}

	if p.observer != nil {
		p.observer(o)
	}
}

var (
	// itemStart matches a numbered list marker at the start of a line: "1. ", "12.\t".
	itemStart = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)

	// codeFence matches markdown fence lines such as "```" or "```markdown".
	codeFence = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z]*[ \t]*$")
)

// Blocks normalises raw and splits it into one trimmed block per numbered
// list item. Text before the first marker is returned as its own block when
// non-empty; it rarely holds every required field and is dropped later.
func Blocks(raw string) []string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = codeFence.ReplaceAllString(text, "")

	var blocks []string
	for _, part := range itemStart.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			blocks = append(blocks, part)
		}
	}
	return blocks
}

// templateMarkers are placeholders from the prompt's layout example. They
// never occur in real content.
var templateMarkers = []string{
	"[style]",
	"[theme]",
	"[setup]",
	"[punchline]",
	"[genre]",
	"[title]",
	"[story paragraphs]",
	"[moral]",
}

// echoedInstruction matches instruction lines from the prompt, anchored to
// the start of a line. "for example:" inside content is not an echo.
var echoedInstruction = regexp.MustCompile(
	`(?im)^[ \t]*(?:\*\*)?(?:example:|format (?:each|every) (?:joke|story)\b|for each (?:joke|story) provide:)`)

// echoesTemplate reports whether block contains prompt boilerplate.
func echoesTemplate(block string) bool {
	lower := strings.ToLower(block)
	for _, m := range templateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return echoedInstruction.MatchString(block)
}
