// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md/internal/collect"
	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/internal/markdown"
	"github.com/pdiddy/pdf2md/internal/pdfsource"
	"github.com/pdiddy/pdf2md/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>...",
	Short: "Extract text from PDF files and write Markdown",
	Long: `Extract reads every page of each PDF, joins the page text with
horizontal rules, and writes {title}.md (or .html) to the output directory.
The title is the file name without its extension.

Existing output is skipped unless --force is given. With --stdout the
result is printed instead of written and nothing is recorded in history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	showProgress, _ := cmd.Flags().GetBool("progress")

	logger := slog.Default()
	opener, err := pdfsource.New(cfg, logger)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cfg)
	if err != nil {
		return err
	}

	collectOpts := collect.Options{BatchSize: cfg.BatchSize, Separators: cfg.Separators}
	if showProgress {
		collectOpts.Progress = progressPrinter(cmd.ErrOrStderr())
	}

	opts := []convert.Option{
		convert.WithLogger(logger),
		convert.WithBackend(cfg.Backend),
		convert.WithFormat(cfg.Format),
		convert.WithForce(force),
		convert.WithCollectOptions(collectOpts),
	}

	if toStdout {
		c := convert.New(opener, formatter, opts...)
		return extractToWriter(c, cfg.Format, args, cmd.OutOrStdout())
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, convert.WithRecorder(store))
	}

	c := convert.New(opener, formatter, opts...)
	result := c.ConvertBatch(context.Background(), args, cfg.OutputDir, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// extractToWriter prints each document to w exactly as formatted, with a
// blank line between documents. The first failure stops the run.
func extractToWriter(c *convert.Converter, format types.OutputFormat, paths []string, w io.Writer) error {
	for i, p := range paths {
		res, err := c.Extract(p, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if i > 0 {
			fmt.Fprint(w, "\n\n")
		}
		if format == types.OutputHTML {
			if err := markdown.RenderHTML(res.Markdown, w); err != nil {
				return err
			}
			continue
		}
		fmt.Fprint(w, res.Markdown)
	}
	return nil
}

func progressPrinter(w io.Writer) func(types.Progress) {
	return func(p types.Progress) {
		fmt.Fprintf(w, "[%3.0f%%] %s\n", p.Fraction*100, p.Status)
	}
}

func init() {
	extractCmd.Flags().StringP("out", "o", ".", "output directory")
	extractCmd.Flags().String("format", string(types.OutputMarkdown), "output format: md or html")
	extractCmd.Flags().String("backend", string(types.BackendLedongthuc), "PDF backend: ledongthuc, pdfcpu, or pdftotext")
	extractCmd.Flags().String("separators", string(types.SeparatorsByIndex), "page separator accounting: index or processed")
	extractCmd.Flags().Int("batch-size", 1, "pages between progress updates")
	extractCmd.Flags().Bool("force", false, "overwrite existing output")
	extractCmd.Flags().Bool("stdout", false, "print the result instead of writing files")
	extractCmd.Flags().Bool("progress", false, "print page progress to stderr")

	for key, flag := range map[string]string{
		"output_dir": "out",
		"format":     "format",
		"backend":    "backend",
		"separators": "separators",
		"batch_size": "batch-size",
	} {
		if err := viper.BindPFlag(key, extractCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(extractCmd)
}
