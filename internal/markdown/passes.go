// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LineClass is the structural role inferred for one line of body text.
type LineClass int

const (
	LinePlain LineClass = iota
	LineHeading
	LineListItem
)

func (c LineClass) String() string {
	switch c {
	case LineHeading:
		return "heading"
	case LineListItem:
		return "list-item"
	default:
		return "plain"
	}
}

// headingMaxLength is the exclusive upper bound, in grapheme clusters, for a
// heading candidate.
const headingMaxLength = 50

var (
	// whitespaceRun matches Unicode white space, which Go's \s alone does not.
	whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

	spaceBeforeNewline = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+\n`)
	spaceAfterNewline  = regexp.MustCompile(`\n[\s\v\x{85}\p{Z}]+`)

	listMarker       = regexp.MustCompile(`^(?:\p{Nd}+\.|[•·▪▫]|-)`)
	listMarkerPrefix = regexp.MustCompile(`^(?:\p{Nd}+\.|[•·▪▫]|-)[\t\p{Zs}]*`)

	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// CollapseWhitespace replaces every run of white space, newlines included,
// with a single space.
func CollapseWhitespace(text string) string {
	return whitespaceRun.ReplaceAllString(text, " ")
}

// TrimAroundNewlines removes white space on either side of a newline.
func TrimAroundNewlines(text string) string {
	text = spaceBeforeNewline.ReplaceAllString(text, "\n")
	return spaceAfterNewline.ReplaceAllString(text, "\n")
}

// StripSeparators removes every literal "---" page separator marker.
func StripSeparators(text string) string {
	return strings.ReplaceAll(text, "---", "")
}

// IsHeadingCandidate reports whether a trimmed line looks like a heading: it
// is non-empty, shorter than 50 characters, and is either entirely upper case
// or ends with ':' or '.'. Any short sentence ending in '.' qualifies.
func IsHeadingCandidate(line string) bool {
	if line == "" || CharacterCount(line) >= headingMaxLength {
		return false
	}
	// A Caser is stateful and must not be shared across goroutines.
	return cases.Upper(language.Und).String(line) == line ||
		strings.HasSuffix(line, ":") ||
		strings.HasSuffix(line, ".")
}

// IsListItem reports whether a trimmed line starts with a list marker: a
// number followed by '.', a bullet glyph, or '-'.
func IsListItem(line string) bool {
	return listMarker.MatchString(line)
}

// Classify returns the class of a single line. Headings win over list items
// because the heading pass runs first.
func Classify(line string) LineClass {
	trimmed := TrimLine(line)
	switch {
	case IsHeadingCandidate(trimmed):
		return LineHeading
	case IsListItem(trimmed):
		return LineListItem
	default:
		return LinePlain
	}
}

// InferHeadings prefixes heading candidates with "## " unless they already
// start with '#'. Every line is trimmed.
func InferHeadings(text string) string {
	return mapLines(text, func(line string) string {
		trimmed := TrimLine(line)
		if IsHeadingCandidate(trimmed) && !strings.HasPrefix(trimmed, "#") {
			return "## " + trimmed
		}
		return trimmed
	})
}

// InferLists rewrites list items with a canonical "- " marker. A blank line
// is inserted before the first item of a list and before the first non-empty
// line that follows a list. Blank lines inside a list do not end it.
func InferLists(text string) string {
	lines := SplitLines(text)
	out := make([]string, 0, len(lines)+2)
	inList := false
	for _, line := range lines {
		trimmed := TrimLine(line)
		if IsListItem(trimmed) {
			if !inList {
				out = append(out, "")
				inList = true
			}
			out = append(out, "- "+listMarkerPrefix.ReplaceAllString(trimmed, ""))
			continue
		}
		if inList && trimmed != "" {
			out = append(out, "")
			inList = false
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

// NormalizeParagraphs limits blank runs to one blank line and trims
// horizontal white space from every line.
func NormalizeParagraphs(text string) string {
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return mapLines(text, TrimLine)
}

// Body applies every formatting pass, in order, to raw extracted text.
func Body(raw string) string {
	text := CollapseWhitespace(raw)
	text = TrimAroundNewlines(text)
	text = StripSeparators(text)
	text = InferHeadings(text)
	text = InferLists(text)
	return NormalizeParagraphs(text)
}
