// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/pdf2md/internal/collect"
)

// PdfcpuOpener opens PDFs with pdfcpu and recovers page text from the
// text-showing operators of each page's content stream.
type PdfcpuOpener struct {
	logger *slog.Logger
}

// Open reads and validates the PDF at path.
func (o *PdfcpuOpener) Open(path string) (collect.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collect.ErrInvalidSource, err)
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		if isPasswordError(err) {
			return nil, fmt.Errorf("%w: %s", collect.ErrEncryptedSource, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", collect.ErrInvalidSource, path, err)
	}

	logger := orDefault(o.logger)
	logger.Debug("opened pdf", "backend", "pdfcpu", "path", path, "pages", ctx.PageCount)
	return &pdfcpuDocument{file: f, ctx: ctx, logger: logger}, nil
}

// encrypted reports whether the file at path carries an encryption
// dictionary or needs a user password to open.
func encrypted(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	ctx, err := api.ReadContext(f, model.NewDefaultConfiguration())
	if err != nil {
		return isPasswordError(err)
	}
	return ctx.Encrypt != nil
}

// isPasswordError reports whether pdfcpu refused the file for lack of a
// valid password. pdfcpu does not export a sentinel for this.
func isPasswordError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "password")
}

type pdfcpuDocument struct {
	file   *os.File
	ctx    *model.Context
	logger *slog.Logger
}

func (d *pdfcpuDocument) PageCount() int { return d.ctx.PageCount }

func (d *pdfcpuDocument) PageText(index int) (string, bool, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, index+1)
	if err != nil {
		d.logger.Debug("page has no readable content", "page", index+1, "error", err)
		return "", false, nil
	}
	if r == nil {
		return "", false, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("reading content stream: %w", err)
	}
	return ContentText(data), true, nil
}

func (d *pdfcpuDocument) Close() error { return d.file.Close() }
