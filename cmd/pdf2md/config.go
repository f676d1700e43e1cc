// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md/internal/history"
	"github.com/pdiddy/pdf2md/internal/markdown"
	"github.com/pdiddy/pdf2md/internal/pdfsource"
	"github.com/pdiddy/pdf2md/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", string(types.BackendLedongthuc))
	v.SetDefault("output_dir", ".")
	v.SetDefault("format", string(types.OutputMarkdown))
	v.SetDefault("batch_size", 1)
	v.SetDefault("separators", string(types.SeparatorsByIndex))
	v.SetDefault("locale", "")
	v.SetDefault("timezone", "")
	v.SetDefault("pdftotext_image", pdfsource.DefaultPdftotextImage)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.data_dir", "~/.local/share/pdf2md")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig decodes the global viper instance: defaults, then the config
// file, then PDF2MD_* variables, then bound flags.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	switch cfg.Format {
	case types.OutputMarkdown, types.OutputHTML:
	default:
		return cfg, fmt.Errorf("unsupported format %q: use md or html", cfg.Format)
	}
	switch cfg.Separators {
	case types.SeparatorsByIndex, types.SeparatorsByProcessed:
	default:
		return cfg, fmt.Errorf("unsupported separators %q: use index or processed", cfg.Separators)
	}

	dir, err := expandHome(cfg.History.DataDir)
	if err != nil {
		return cfg, err
	}
	cfg.History.DataDir = dir
	return cfg, nil
}

// newLogger builds the process logger from the log section of the config.
func newLogger(cfg types.LogConfig, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q: use text or json", cfg.Format)
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// newFormatter resolves the timestamp locale and time zone. An empty locale
// falls back to LC_ALL, LC_TIME and LANG in that order.
func newFormatter(cfg types.Config) (*markdown.Formatter, error) {
	locale := markdown.ResolveLocale(cfg.Locale, os.Getenv("LC_ALL"), os.Getenv("LC_TIME"), os.Getenv("LANG"))

	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading time zone %q: %w", cfg.Timezone, err)
		}
	}
	return markdown.New(markdown.WithLocale(locale), markdown.WithLocation(loc)), nil
}

// openHistory opens the history store, or returns nil when history is
// disabled.
func openHistory(cfg types.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History)
}
