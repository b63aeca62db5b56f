package parser

import (
	"regexp"
	"strings"

	"github.com/bimmerbailey/jester/internal/content"
)

// Field describes one labelled value the parser pulls out of a block.
type Field struct {
	// Name is the record field the value is stored under.
	Name string

	// Label is the bold label the model writes before the value, without
	// the asterisks or colon (e.g. "Title" for **Title:**).
	Label string

	// Required fields must be present for a block to yield a record.
	Required bool

	// Multiline values run to the next bold label or the end of the block.
	// Other values stop at the end of the line.
	Multiline bool

	// Quoted values have surrounding double quotes removed.
	Quoted bool

	pattern *regexp.Regexp
}

// Table is the ordered extraction table for one category.
type Table []Field

// labelSuffix accepts both "**Label:**" and "**Label**:".
const labelSuffix = `[ \t]*(?::[ \t]*\*\*|\*\*[ \t]*:)`

// nextLabel matches the start of any bold label on a following line.
const nextLabel = `\n[ \t]*\*\*[ \t]*[A-Za-z][A-Za-z ]*?` + labelSuffix

func newTable(fields ...Field) Table {
	for i := range fields {
		f := &fields[i]
		label := `\*\*[ \t]*` + regexp.QuoteMeta(f.Label) + labelSuffix
		if f.Multiline {
			f.pattern = regexp.MustCompile(`(?is)` + label + `\s*(.+?)\s*(?:` + nextLabel + `|\z)`)
		} else {
			f.pattern = regexp.MustCompile(`(?im)` + label + `[ \t]*(.+?)[ \t]*$`)
		}
	}
	return Table(fields)
}

// Extraction tables. Labels match case-insensitively; models are not
// consistent about capitalisation.
var (
	jokeTable = newTable(
		Field{Name: "style", Label: "Style", Required: true},
		Field{Name: "theme", Label: "Theme", Required: true},
		// Joke quotes are split by splitJoke rather than stripped.
		Field{Name: "joke", Label: "Joke", Required: true},
	)

	storyTable = newTable(
		Field{Name: "genre", Label: "Genre", Required: true},
		Field{Name: "theme", Label: "Theme", Required: true},
		Field{Name: "title", Label: "Title", Required: true, Quoted: true},
		Field{Name: "story", Label: "Story", Required: true, Multiline: true},
		Field{Name: "moral", Label: "Moral", Quoted: true},
	)
)

// TableFor returns the extraction table for c, or nil for an unknown category.
func TableFor(c content.Category) Table {
	switch c {
	case content.Jokes:
		return jokeTable
	case content.Stories:
		return storyTable
	default:
		return nil
	}
}

// extract applies t to block. It returns the extracted values keyed by field
// name and false if any required field is missing or empty.
func (t Table) extract(block string) (map[string]string, bool) {
	values := make(map[string]string, len(t))

	for _, f := range t {
		m := f.pattern.FindStringSubmatch(block)
		if m == nil {
			if f.Required {
				return nil, false
			}
			continue
		}

		v := strings.TrimSpace(m[1])
		if f.Quoted {
			v = unquote(v)
		}
		if v == "" {
			if f.Required {
				return nil, false
			}
			continue
		}
		values[f.Name] = v
	}

	return values, true
}

// quoteChars are the quote marks models wrap titles, morals and jokes in.
const quoteChars = "\"“”"

// wholeQuoted matches a value that is one quoted segment, optionally followed
// by stray punctuation such as `"The Wise Owl".`
var wholeQuoted = regexp.MustCompile(`^(?:"([^"]+)"|“([^”]+)”)[\s.,;:!?]*$`)

// unquote strips surrounding double quotes, straight or curly.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if m := wholeQuoted.FindStringSubmatch(s); m != nil {
		seg := m[1]
		if seg == "" {
			seg = m[2]
		}
		return strings.TrimSpace(seg)
	}
	return strings.TrimSpace(strings.Trim(s, quoteChars))
}

// quotedSegment matches one double-quoted run of text.
var quotedSegment = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)

// splitJoke separates a joke value into its quoted segments.
// Returns setup and punchline for the two-part form and text otherwise.
func splitJoke(raw string) (setup, punchline, text string) {
	var segments []string
	for _, m := range quotedSegment.FindAllStringSubmatch(raw, -1) {
		seg := m[1]
		if seg == "" {
			seg = m[2]
		}
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	switch len(segments) {
	case 0:
		return "", "", unquote(raw)
	case 1:
		return "", "", segments[0]
	case 2:
		return segments[0], segments[1], segments[0] + " " + segments[1]
	default:
		// Knock-knock jokes and dialogues: keep every line, no punchline split.
		return "", "", strings.Join(segments, " ")
	}
}
