// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Summary counts the block structure of a Markdown document as a CommonMark
// parser sees it.
type Summary struct {
	Headings       int `json:"headings" yaml:"headings"`
	ListItems      int `json:"list_items" yaml:"list_items"`
	Paragraphs     int `json:"paragraphs" yaml:"paragraphs"`
	ThematicBreaks int `json:"thematic_breaks" yaml:"thematic_breaks"`
}

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Inspect parses md and counts headings, list items, paragraphs and
// thematic breaks.
func Inspect(md string) Summary {
	src := []byte(md)
	doc := renderer.Parser().Parse(text.NewReader(src))

	var s Summary
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			s.Headings++
		case ast.KindListItem:
			s.ListItems++
		case ast.KindParagraph:
			s.Paragraphs++
		case ast.KindThematicBreak:
			s.ThematicBreaks++
		}
		return ast.WalkContinue, nil
	})
	return s
}

// RenderHTML writes md as an HTML fragment to w.
func RenderHTML(md string, w io.Writer) error {
	if err := renderer.Convert([]byte(md), w); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}
