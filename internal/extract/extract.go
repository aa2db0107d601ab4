package extract

import (
	"strings"
	"unicode"
)

// CollapseWhitespace replaces every run of whitespace, including newlines
// and the ideographic space U+3000, with a single ASCII space and trims the
// result. Search abstracts are normalized this way before any matching.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// NormalizeParagraphs collapses horizontal whitespace but keeps line breaks.
// Runs of tabs and spaces become one space, any newline sequence that
// contains a blank line becomes exactly one blank line, and the result is
// trimmed. Single newlines survive as-is.
func NormalizeParagraphs(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(collapseSpaces(s), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" && i > 0 && i < len(lines)-1 {
			// Whitespace-only lines in the middle mark a paragraph break.
			blank = true
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// collapseSpaces folds runs of spaces and tabs only.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

// Truncate returns the first n runes of s followed by marker when s is
// longer than n runes, and s unchanged otherwise.
func Truncate(s string, n int, marker string) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + marker
}
