// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/pdf2md/internal/collect"
	"github.com/pdiddy/pdf2md/internal/container"
)

// pdftotextArgs runs Poppler's pdftotext inside the image, reading the PDF
// on stdin and writing UTF-8 text on stdout. Pages end with a form feed.
var pdftotextArgs = []string{"pdftotext", "-enc", "UTF-8", "-", "-"}

// PdftotextOpener extracts text by piping the PDF through pdftotext in a
// container. The whole document is converted on Open.
type PdftotextOpener struct {
	runtime container.Runtime
	image   string
	logger  *slog.Logger
}

// NewPdftotextOpener verifies that image exists in rt before returning.
func NewPdftotextOpener(rt container.Runtime, image string, logger *slog.Logger) (*PdftotextOpener, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextOpener{runtime: rt, image: image, logger: orDefault(logger)}, nil
}

// Open converts the PDF at path and splits the output into pages.
func (o *PdftotextOpener) Open(path string) (collect.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collect.ErrInvalidSource, err)
	}
	defer f.Close()

	var stdout, stderr bytes.Buffer
	err = o.runtime.Run(container.RunSpec{
		Image:  o.image,
		Args:   pdftotextArgs,
		Stdin:  f,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		diag := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(diag), "password") {
			return nil, fmt.Errorf("%w: %s", collect.ErrEncryptedSource, path)
		}
		o.logger.Debug("pdftotext failed", "path", path, "stderr", diag)
		return nil, fmt.Errorf("%w: %s: %v", collect.ErrInvalidSource, path, err)
	}

	pages := splitPages(stdout.String())
	o.logger.Debug("opened pdf", "backend", "pdftotext", "path", path, "pages", len(pages))
	return &pagesDocument{pages: pages}, nil
}

// splitPages splits pdftotext output at form feeds. The feed after the last
// page does not start a new page.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, "\f")
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
