package output

import (
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts "auto", "always" or "never" to a ColorMode,
// defaulting to ColorAuto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		// Check if writer is a file and if it's a terminal
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// palette wraps text in ANSI codes when enabled.
type palette struct {
	enabled bool
}

func newPalette(enabled bool) palette {
	return palette{enabled: enabled}
}

func (p palette) wrap(code, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	return code + text + colorReset
}

// heading is used for numbers, titles and labels.
func (p palette) heading(text string) string { return p.wrap(colorBold+colorCyan, text) }

// accent highlights punchlines and morals.
func (p palette) accent(text string) string { return p.wrap(colorYellow, text) }

// muted is used for style, genre and theme tags.
func (p palette) muted(text string) string { return p.wrap(colorGray, text) }
