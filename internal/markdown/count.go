// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// WordCount returns the number of non-empty tokens separated by white space.
func WordCount(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.In(r, unicode.Z)
	}))
}

// CharacterCount returns the number of user-perceived characters (extended
// grapheme clusters), so "café" counts 4 whether or not the accent is
// precomposed.
func CharacterCount(text string) int {
	n := 0
	g := graphemes.FromString(text)
	for g.Next() {
		n++
	}
	return n
}
