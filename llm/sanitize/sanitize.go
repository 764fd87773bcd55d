// Package sanitize turns arbitrary provider output into a bounded,
// well-formed string, or rejects it.
//
// Sanitized responses are rendered directly in an end-user surface with no
// further cleanup step, so truncation must never produce a dangling
// markdown delimiter or a sentence fragment: cuts land on a complete
// sentence when one fits, on a word boundary otherwise, and emphasis
// markers are re-balanced as the final step on every truncation branch.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChars bounds responses when the caller passes no explicit
// limit.
const DefaultMaxChars = 500

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Validate cleans text and bounds it to maxChars characters. It reports
// false when the input is empty, or becomes empty after HTML-tag stripping
// and whitespace collapsing. A non-positive maxChars falls back to
// DefaultMaxChars.
func Validate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	cleaned := tagPattern.ReplaceAllString(text, "")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", false
	}

	runes := []rune(cleaned)
	if len(runes) <= maxChars {
		return cleaned, true
	}

	cleaned = truncate(runes, maxChars)
	cleaned = balanceEmphasis(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// ValidateLength is the pure yes/no counterpart to Validate: it reports
// whether text fits within maxChars characters, mutating nothing.
func ValidateLength(text string, maxChars int) bool {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return utf8.RuneCountInString(text) <= maxChars
}

// truncate cuts runes to at most max characters, preferring the last
// sentence terminator (., ! or ?, optionally followed by a bold closer)
// at or before the limit. Without one it falls back to the last whitespace
// boundary, and as a final resort cuts hard at the limit. No ellipsis is
// ever appended.
func truncate(runes []rune, max int) string {
	window := runes[:max]

	for i := max - 1; i >= 0; i-- {
		if !isTerminator(window[i]) {
			continue
		}
		end := i + 1
		// Keep an immediately following emphasis closer when it still
		// fits within the limit.
		for end < max && window[end] == '*' {
			end++
		}
		return string(window[:end])
	}

	for i := max - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return strings.TrimRight(string(window[:i]), " ")
		}
	}
	return string(window)
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// balanceEmphasis strips the trailing unmatched emphasis marker when the
// count of * characters is odd, so truncated output never carries
// unbalanced bold/italic markup.
func balanceEmphasis(s string) string {
	if strings.Count(s, "*")%2 == 0 {
		return s
	}
	i := strings.LastIndex(s, "*")
	return strings.TrimSpace(s[:i] + s[i+1:])
}
