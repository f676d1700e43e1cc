// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsHorizontalSpace reports whether r is a tab or a Unicode space separator.
func IsHorizontalSpace(r rune) bool {
	return r == '\t' || unicode.Is(unicode.Zs, r)
}

// IsNewline reports whether r breaks a line: LF, VT, FF, CR, NEL, LS or PS.
func IsNewline(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// TrimLine removes leading and trailing horizontal white space.
func TrimLine(line string) string {
	return strings.TrimFunc(line, IsHorizontalSpace)
}

// SplitLines splits text at every newline rune. A CR LF pair counts as one
// break. Empty lines are kept, so joining the result with "\n" restores the
// text with normalized line endings.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if !IsNewline(r) {
			continue
		}
		if r == '\n' && i > 0 && text[i-1] == '\r' {
			start = i + 1
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
	}
	return append(lines, text[start:])
}

func mapLines(text string, fn func(string) string) string {
	lines := SplitLines(text)
	for i, line := range lines {
		lines[i] = fn(line)
	}
	return strings.Join(lines, "\n")
}
