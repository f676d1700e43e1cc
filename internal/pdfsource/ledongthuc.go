// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdf2md/internal/collect"
)

// LedongthucOpener opens PDFs with github.com/ledongthuc/pdf.
type LedongthucOpener struct {
	logger *slog.Logger
}

// newReader builds the library reader over an open file.
var newReader = pdf.NewReader

// Open opens the PDF at path. A document that cannot be opened with an
// empty password is reported as encrypted.
func (o *LedongthucOpener) Open(path string) (doc collect.Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collect.ErrInvalidSource, err)
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, o.openError(path, fmt.Errorf("%v", r))
		}
		if err != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", collect.ErrInvalidSource, path, err)
	}
	r, err := newReader(f, fi.Size())
	if err != nil {
		return nil, o.openError(path, err)
	}

	orDefault(o.logger).Debug("opened pdf", "backend", "ledongthuc", "path", path, "pages", r.NumPage())
	return &ledongthucDocument{file: f, reader: r}, nil
}

// openError classifies a reader failure. Any failure on a file that carries
// an encryption dictionary is reported as encrypted.
func (o *LedongthucOpener) openError(path string, err error) error {
	if errors.Is(err, pdf.ErrInvalidPassword) || encrypted(path) {
		return fmt.Errorf("%w: %s", collect.ErrEncryptedSource, path)
	}
	return fmt.Errorf("%w: %s: %v", collect.ErrInvalidSource, path, err)
}

type ledongthucDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *ledongthucDocument) PageCount() int { return d.reader.NumPage() }

func (d *ledongthucDocument) PageText(index int) (text string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
			err = fmt.Errorf("decoding page: %v", r)
		}
	}()

	p := d.reader.Page(index + 1)
	if p.V.IsNull() {
		return "", false, nil
	}

	// Font names are page-local resources, so let the library resolve them
	// per page.
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (d *ledongthucDocument) Close() error { return d.file.Close() }
