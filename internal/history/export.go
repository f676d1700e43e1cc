// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// ExportYAML writes every record to path as YAML, newest first. An empty
// path writes export.yaml next to the database. It returns the path written.
func (s *Store) ExportYAML(ctx context.Context, path string) (string, error) {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(s.dataDir, "export.yaml")
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every record to path as indented JSON, newest first. An
// empty path writes export.json next to the database.
func (s *Store) ExportJSON(ctx context.Context, path string) (string, error) {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(s.dataDir, "export.json")
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context) ([]types.ExtractionRecord, error) {
	records, err := s.List(ctx, ListOptions{Limit: -1})
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.ExtractionRecord{}
	}
	return records, nil
}
