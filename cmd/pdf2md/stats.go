// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2md/internal/markdown"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>...",
	Short: "Count words, characters and Markdown blocks in extracted files",
	Long: `Stats reads Markdown files (typically produced by extract) and prints
their word count, character count (user-perceived characters), and the
number of headings, list items, paragraphs and horizontal rules.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStats(cmd.OutOrStdout(), args)
	},
}

func printStats(w io.Writer, paths []string) error {
	fmt.Fprintf(w, "%-30s  %8s  %10s  %8s  %6s  %10s  %5s\n",
		"File", "Words", "Characters", "Headings", "Lists", "Paragraphs", "Rules")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		text := string(data)
		sum := markdown.Inspect(text)

		name := p
		if len(name) > 30 {
			name = "..." + name[len(name)-27:]
		}
		fmt.Fprintf(w, "%-30s  %8d  %10d  %8d  %6d  %10d  %5d\n",
			name, markdown.WordCount(text), markdown.CharacterCount(text),
			sum.Headings, sum.ListItems, sum.Paragraphs, sum.ThematicBreaks)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
