// Package sanitize cleans free-text run labels before they are stored.
// Labels are shown in tab-aligned terminal listings and returned verbatim to
// MCP clients, so they are reduced to a single line of plain text.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLabelLength is the maximum label length in runes.
const MaxLabelLength = 120

var (
	// reXMLTag matches XML/HTML tags including those with attributes and self-closing tags.
	// It also matches XML processing instructions like <?xml ...?>.
	reXMLTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	// reBackticks matches runs of backticks used in code fences.
	reBackticks = regexp.MustCompile("`{2,}")

	// reWhitespace matches runs of whitespace.
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Label sanitizes a run label.
//
// The pipeline runs in this order:
//  1. Replace control characters (tabs and newlines included) with spaces
//  2. Strip XML/HTML tags
//  3. Collapse backtick runs to a single backtick
//  4. Collapse whitespace runs to a single space and trim
//  5. Truncate to MaxLabelLength runes
func Label(input string) string {
	if input == "" {
		return ""
	}

	s := replaceControlChars(input)
	s = reXMLTag.ReplaceAllString(s, "")
	s = reBackticks.ReplaceAllString(s, "`")
	s = strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))

	if utf8.RuneCountInString(s) > MaxLabelLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxLabelLength]))
	}

	return s
}

// replaceControlChars maps ASCII control characters (0x00-0x1F, 0x7F) to
// spaces and drops invalid UTF-8.
func replaceControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			continue
		case r < 0x20 || r == 0x7F:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
