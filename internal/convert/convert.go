// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the extraction pipeline for one or more PDFs: open the
// document, collect page text, format it as Markdown, and write the result
// next to a per-file status line.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/pdf2md/internal/collect"
	"github.com/pdiddy/pdf2md/internal/markdown"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// largeFileBytes is the size above which a slow-extraction warning is logged.
const largeFileBytes = 50 * 1024 * 1024

// Recorder persists extraction records. history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, rec types.ExtractionRecord) error
}

// Result is the outcome of extracting a single PDF.
type Result struct {
	Title      string
	Markdown   string
	Pages      int
	Words      int
	Characters int
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Converter extracts PDFs with an Opener and formats them with a Formatter.
type Converter struct {
	opener    collect.Opener
	formatter *markdown.Formatter
	logger    *slog.Logger
	recorder  Recorder
	clock     markdown.Clock
	backend   types.Backend
	format    types.OutputFormat
	force     bool
	collect   collect.Options
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger for warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder records every converted or failed file.
func WithRecorder(r Recorder) Option {
	return func(c *Converter) { c.recorder = r }
}

// WithClock sets the clock used for record timestamps.
func WithClock(clock markdown.Clock) Option {
	return func(c *Converter) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithBackend names the backend in history records.
func WithBackend(b types.Backend) Option {
	return func(c *Converter) { c.backend = b }
}

// WithFormat selects Markdown or HTML output files.
func WithFormat(f types.OutputFormat) Option {
	return func(c *Converter) { c.format = f }
}

// WithForce overwrites existing output instead of skipping it.
func WithForce(force bool) Option {
	return func(c *Converter) { c.force = force }
}

// WithCollectOptions sets batch size, separator accounting and the progress
// callback used while pages are collected.
func WithCollectOptions(opts collect.Options) Option {
	return func(c *Converter) { c.collect = opts }
}

// New creates a Converter. Output defaults to Markdown; existing files are
// skipped unless WithForce(true) is given.
func New(opener collect.Opener, formatter *markdown.Formatter, opts ...Option) *Converter {
	c := &Converter{
		opener:    opener,
		formatter: formatter,
		logger:    slog.Default(),
		clock:     markdown.SystemClock,
		backend:   types.BackendLedongthuc,
		format:    types.OutputMarkdown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Title returns the document title for path: the file name without its
// extension.
func Title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extract reads the PDF at path and returns the formatted Markdown. progress,
// when non-nil, replaces the callback from WithCollectOptions.
func (c *Converter) Extract(path string, progress func(types.Progress)) (Result, error) {
	if info, err := os.Stat(path); err == nil && info.Size() > largeFileBytes {
		mb := float64(info.Size()) / (1024 * 1024)
		c.logger.Warn(fmt.Sprintf("Large file detected (%.1f MB). This may take a while...", mb), "path", path)
	}

	doc, err := c.opener.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer doc.Close()

	opts := c.collect
	if progress != nil {
		opts.Progress = progress
	}
	raw, err := collect.Collect(doc, opts)
	if err != nil {
		return Result{}, err
	}

	title := Title(path)
	md := c.formatter.Format(raw, title)
	c.logger.Debug("extracted", "path", path, "pages", doc.PageCount(), "bytes", len(md))

	return Result{
		Title:      title,
		Markdown:   md,
		Pages:      doc.PageCount(),
		Words:      markdown.WordCount(md),
		Characters: markdown.CharacterCount(md),
	}, nil
}

// OutputPath returns where ConvertFile writes the result for path.
func (c *Converter) OutputPath(path, outDir string) string {
	ext := ".md"
	if c.format == types.OutputHTML {
		ext = ".html"
	}
	return filepath.Join(outDir, Title(path)+ext)
}

// ConvertFile converts a single PDF, writing the result to outDir. It prints
// one status line to w and returns the record of the run. If the output
// already exists and force is off, the file is skipped and the returned
// record has status ExtractionNone.
func (c *Converter) ConvertFile(ctx context.Context, path, outDir string, w io.Writer) types.ExtractionRecord {
	title := Title(path)
	outPath := c.OutputPath(path, outDir)
	rec := types.ExtractionRecord{
		ID:          uuid.NewString(),
		SourcePath:  path,
		Title:       title,
		Backend:     c.backend,
		ExtractedAt: c.clock.Now().UTC(),
	}

	if !c.force {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", title)
			rec.Status = types.ExtractionNone
			return rec
		}
	}

	res, err := c.Extract(path, nil)
	if err != nil {
		return c.fail(ctx, w, rec, err)
	}
	rec.Pages = res.Pages
	rec.Words = res.Words
	rec.Characters = res.Characters

	content, err := c.render(res.Markdown)
	if err != nil {
		return c.fail(ctx, w, rec, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return c.fail(ctx, w, rec, err)
	}
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return c.fail(ctx, w, rec, err)
	}

	rec.OutputPath = outPath
	rec.Status = types.ExtractionDone
	fmt.Fprintf(w, "converted: %s (%d pages, %d words)\n", title, res.Pages, res.Words)
	c.record(ctx, rec)
	return rec
}

// ConvertBatch converts every path in order, printing per-file status to w
// and returning a summary.
func (c *Converter) ConvertBatch(ctx context.Context, paths []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		rec := c.ConvertFile(ctx, p, outDir, w)
		switch rec.Status {
		case types.ExtractionDone:
			result.Converted++
		case types.ExtractionNone:
			result.Skipped++
		case types.ExtractionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func (c *Converter) render(md string) ([]byte, error) {
	if c.format != types.OutputHTML {
		return []byte(md), nil
	}
	var buf bytes.Buffer
	if err := markdown.RenderHTML(md, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Converter) fail(ctx context.Context, w io.Writer, rec types.ExtractionRecord, err error) types.ExtractionRecord {
	fmt.Fprintf(w, "failed:  %s (%v)\n", rec.Title, err)
	rec.Status = types.ExtractionFailed
	rec.Error = err.Error()
	c.record(ctx, rec)
	return rec
}

func (c *Converter) record(ctx context.Context, rec types.ExtractionRecord) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, rec); err != nil {
		c.logger.Warn("recording extraction history", "path", rec.SourcePath, "error", err)
	}
}
