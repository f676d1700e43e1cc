// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsource adapts PDF libraries to collect.Opener. Three backends
// are available: ledongthuc/pdf (pure Go, default), pdfcpu (pure Go, content
// stream text operators), and Poppler's pdftotext run in a container.
package pdfsource

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/pdf2md/internal/collect"
	"github.com/pdiddy/pdf2md/internal/container"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// DefaultPdftotextImage is used when no image is configured.
const DefaultPdftotextImage = "pdftotext:latest"

// New returns the opener for cfg.Backend. An empty backend selects
// ledongthuc. The pdftotext backend detects a container runtime and checks
// that its image exists.
func New(cfg types.Config, logger *slog.Logger) (collect.Opener, error) {
	logger = orDefault(logger)
	switch cfg.Backend {
	case "", types.BackendLedongthuc:
		return &LedongthucOpener{logger: logger}, nil
	case types.BackendPdfcpu:
		return &PdfcpuOpener{logger: logger}, nil
	case types.BackendPdftotext:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		image := cfg.PdftotextImage
		if image == "" {
			image = DefaultPdftotextImage
		}
		return NewPdftotextOpener(rt, image, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q (want one of %v)", cfg.Backend, types.Backends)
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// pagesDocument is a Document over text already split into pages.
type pagesDocument struct {
	pages []string
}

func (d *pagesDocument) PageCount() int { return len(d.pages) }

func (d *pagesDocument) PageText(index int) (string, bool, error) {
	if index < 0 || index >= len(d.pages) {
		return "", false, nil
	}
	return d.pages[index], true, nil
}

func (d *pagesDocument) Close() error { return nil }
