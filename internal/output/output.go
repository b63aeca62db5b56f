// Package output renders jokes and stories for the terminal.
// It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/jester/internal/content"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// maxCell is the widest a table cell may be before it is truncated.
const maxCell = 60

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
	color  ColorMode
}

// New creates a new output Writer. Text output is coloured only when w is
// a terminal; use WithColor to change that.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format, color: ColorAuto}
}

// WithColor sets the colour mode for text output and returns wr.
func (wr *Writer) WithColor(mode ColorMode) *Writer {
	wr.color = mode
	return wr
}

// WriteJokes outputs jokes in the configured format.
func (wr *Writer) WriteJokes(jokes []content.Joke) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(jokes)
	case FormatTable:
		return wr.writeJokesTable(jokes)
	default:
		return wr.writeJokesText(jokes)
	}
}

// WriteStories outputs stories in the configured format.
func (wr *Writer) WriteStories(stories []content.Story) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(stories)
	case FormatTable:
		return wr.writeStoriesTable(stories)
	default:
		return wr.writeStoriesText(stories)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (wr *Writer) writeJokesText(jokes []content.Joke) error {
	p := newPalette(shouldColorize(wr.color, wr.w))

	for i, j := range jokes {
		if i > 0 {
			fmt.Fprintln(wr.w)
		}
		fmt.Fprintf(wr.w, "%s %s\n", p.heading(fmt.Sprintf("%d.", i+1)), p.muted(tags(j.Style, j.Theme)))

		if j.HasPunchline() {
			fmt.Fprintf(wr.w, "   %s\n", j.Setup)
			fmt.Fprintf(wr.w, "   %s\n", p.accent(j.Punchline))
		} else {
			fmt.Fprintf(wr.w, "   %s\n", j.Content)
		}
	}
	return nil
}

func (wr *Writer) writeStoriesText(stories []content.Story) error {
	p := newPalette(shouldColorize(wr.color, wr.w))

	for i, s := range stories {
		if i > 0 {
			fmt.Fprintln(wr.w)
			fmt.Fprintln(wr.w, p.muted(strings.Repeat("-", 40)))
			fmt.Fprintln(wr.w)
		}
		fmt.Fprintln(wr.w, p.heading(s.Title))
		fmt.Fprintln(wr.w, p.muted(tags(s.Genre, s.Theme)))
		fmt.Fprintln(wr.w)
		fmt.Fprintln(wr.w, s.Content)

		if s.HasMoral() {
			fmt.Fprintln(wr.w)
			fmt.Fprintf(wr.w, "%s %s\n", p.heading("Moral:"), p.accent(s.Moral))
		}
	}
	return nil
}

func (wr *Writer) writeJokesTable(jokes []content.Joke) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTYLE\tTHEME\tJOKE")
	fmt.Fprintln(tw, "-\t-----\t-----\t----")

	for i, j := range jokes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, j.Style, j.Theme, truncate(j.Content))
	}

	return tw.Flush()
}

func (wr *Writer) writeStoriesTable(stories []content.Story) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tGENRE\tTHEME\tTITLE\tMORAL")
	fmt.Fprintln(tw, "-\t-----\t-----\t-----\t-----")

	for i, s := range stories {
		moral := s.Moral
		if moral == "" {
			moral = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, s.Genre, s.Theme, truncate(s.Title), truncate(moral))
	}

	return tw.Flush()
}

// tags renders "[a · b]", skipping empty values.
func tags(values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " · ") + "]"
}

// truncate shortens s to maxCell runes on a single line.
func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > maxCell {
		return string(r[:maxCell-3]) + "..."
	}
	return s
}
