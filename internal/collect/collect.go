// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect turns an opened PDF into one raw text string: page text is
// cleaned page by page and pages are joined with a horizontal-rule separator.
// The PDF library itself sits behind the Document and Opener interfaces.
package collect

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/pdiddy/pdf2md/internal/markdown"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// PageSeparator is inserted between pages in the collected text.
const PageSeparator = "\n\n---\n\n"

var (
	// ErrInvalidSource means the path does not resolve to an openable document.
	ErrInvalidSource = errors.New("invalid PDF file or file could not be opened")

	// ErrEncryptedSource means the document requires a password.
	ErrEncryptedSource = errors.New("PDF is password protected and cannot be processed")

	// ErrExtractionFailed means page iteration failed part way through.
	ErrExtractionFailed = errors.New("failed to extract text from PDF")
)

// Document is an opened PDF. Page indexes are 0-based.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText returns the plain text of page index. ok is false when the
	// page has no retrievable text; such pages are skipped. A non-nil error
	// aborts the whole collection.
	PageText(index int) (text string, ok bool, err error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens a PDF at a filesystem path. Implementations return errors
// wrapping ErrInvalidSource or ErrEncryptedSource.
type Opener interface {
	Open(path string) (Document, error)
}

// Options tunes a collection run. The zero value is usable.
type Options struct {
	// BatchSize is the number of pages handled between progress updates.
	// Values below 1 mean 1.
	BatchSize int

	// Separators selects separator accounting. Empty means SeparatorsByIndex.
	Separators types.SeparatorMode

	// Progress receives updates. Nil disables reporting.
	Progress func(types.Progress)
}

// Collect reads every page of doc in order and returns the concatenated,
// cleaned text. No partial text is returned on failure.
func Collect(doc Document, opts Options) (string, error) {
	batch := opts.BatchSize
	if batch < 1 {
		batch = 1
	}
	report := opts.Progress
	if report == nil {
		report = func(types.Progress) {}
	}

	pageCount := doc.PageCount()
	report(types.Progress{
		Total:  pageCount,
		Status: fmt.Sprintf("Extracting text from %d pages...", pageCount),
	})

	var b strings.Builder
	processed := 0
	for i := 0; i < pageCount; i++ {
		text, ok, err := doc.PageText(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, i+1, err)
		}

		if ok {
			switch opts.Separators {
			case types.SeparatorsByProcessed:
				if processed > 0 {
					b.WriteString(PageSeparator)
				}
				b.WriteString(CleanPage(text))
			default:
				b.WriteString(CleanPage(text))
				if i < pageCount-1 {
					b.WriteString(PageSeparator)
				}
			}
			processed++
		}

		done := i + 1
		if done%batch == 0 || done == pageCount {
			report(types.Progress{
				Page:     done,
				Total:    pageCount,
				Fraction: float64(done) / float64(pageCount),
				Status:   fmt.Sprintf("Processing page %d of %d...", done, pageCount),
			})
			runtime.Gosched()
		}
	}

	report(types.Progress{
		Page:     pageCount,
		Total:    pageCount,
		Fraction: 1,
		Status:   fmt.Sprintf("Text extracted successfully! %d pages processed.", pageCount),
	})

	return b.String(), nil
}

// CleanPage trims horizontal white space from every line and collapses runs
// of blank lines into a single blank line. Leading blank lines are dropped.
func CleanPage(text string) string {
	lines := markdown.SplitLines(text)
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := markdown.TrimLine(line)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
			continue
		}
		if len(cleaned) > 0 && cleaned[len(cleaned)-1] != "" {
			cleaned = append(cleaned, "")
		}
	}
	return strings.Join(cleaned, "\n")
}
