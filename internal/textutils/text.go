// Package textutils provides text cleanup and normalisation utilities.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun     = regexp.MustCompile(`\s+`)
	unsafeFilename    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	surroundingQuotes = "\"'«»“”„`"
)

// MaxFilenameLength bounds the length of sanitised file names in runes.
const MaxFilenameLength = 200

// NormalizeInput prepares raw transaction text for pattern matching. It
// applies Unicode NFC, turns CRLF into LF and drops control characters other
// than newlines and tabs. Line structure is preserved.
func NormalizeInput(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' {
			return '\n'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// CleanText trims text, collapses whitespace to single spaces and removes
// control characters.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// NormalizeRecipient cleans a recipient name: whitespace is collapsed,
// trailing punctuation is stripped and quotes wrapping the whole name are
// removed. Inner quotes as in `ООО "Ромашка"` are kept.
func NormalizeRecipient(name string) string {
	name = strings.TrimRight(CleanText(name), ".,!?;:")
	for len(name) > 1 && isQuote(firstRune(name)) && isQuote(lastRune(name)) {
		name = strings.TrimSpace(trimRune(name))
		name = strings.TrimRight(name, ".,!?;:")
	}
	return name
}

func isQuote(r rune) bool {
	return strings.ContainsRune(surroundingQuotes, r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// trimRune drops the first and last rune of s.
func trimRune(s string) string {
	_, first := utf8.DecodeRuneInString(s)
	_, last := utf8.DecodeLastRuneInString(s)
	if first+last > len(s) {
		return ""
	}
	return s[first : len(s)-last]
}

// SanitizeFilename replaces characters that are not allowed in file names,
// trims surrounding spaces and dots, and limits the length.
func SanitizeFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if utf8.RuneCountInString(name) > MaxFilenameLength {
		name = string([]rune(name)[:MaxFilenameLength])
	}
	return name
}

// Truncate shortens text to at most n runes, appending "..." when cut.
func Truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
