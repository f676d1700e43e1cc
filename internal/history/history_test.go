// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2md/pkg/types"
)

var base = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.HistoryConfig{Enabled: true, DataDir: filepath.Join(t.TempDir(), "data")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(id string, status types.ExtractionStatus, minutes int) types.ExtractionRecord {
	return types.ExtractionRecord{
		ID:          id,
		SourcePath:  "/in/" + id + ".pdf",
		Title:       id,
		Backend:     types.BackendLedongthuc,
		Pages:       3,
		Words:       120,
		Characters:  700,
		OutputPath:  "/out/" + id + ".md",
		Status:      status,
		ExtractedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func seed(t *testing.T, s *Store, recs ...types.ExtractionRecord) {
	t.Helper()
	for _, r := range recs {
		if err := s.Record(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOpen_RequiresDataDir(t *testing.T) {
	if _, err := Open(types.HistoryConfig{}); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestOpen_CreatesDatabase(t *testing.T) {
	s := testStore(t)
	if _, err := os.Stat(filepath.Join(s.DataDir(), dbFile)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	want := record("report", types.ExtractionDone, 0)
	seed(t, s, want)

	got, err := s.Get(ctx, "report")
	if err != nil {
		t.Fatal(err)
	}
	if !got.ExtractedAt.Equal(want.ExtractedAt) {
		t.Errorf("ExtractedAt = %v, want %v", got.ExtractedAt, want.ExtractedAt)
	}
	got.ExtractedAt = want.ExtractedAt
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestRecord_FillsIDAndTime(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	seed(t, s, types.ExtractionRecord{SourcePath: "a.pdf", Status: types.ExtractionFailed, Error: "boom"})

	recs, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].ID == "" {
		t.Error("ID not assigned")
	}
	if recs[0].ExtractedAt.IsZero() {
		t.Error("ExtractedAt not assigned")
	}
	if recs[0].Error != "boom" {
		t.Errorf("Error = %q, want boom", recs[0].Error)
	}
}

func TestRecord_ReplacesSameID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	first := record("doc", types.ExtractionFailed, 0)
	second := record("doc", types.ExtractionDone, 5)
	seed(t, s, first, second)

	recs, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Status != types.ExtractionDone {
		t.Errorf("List = %+v, want one converted record", recs)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := testStore(t)
	seed(t, s,
		record("a", types.ExtractionDone, 0),
		record("b", types.ExtractionFailed, 1),
		record("c", types.ExtractionDone, 2),
		record("d", types.ExtractionDone, 3),
	)

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"newest first", ListOptions{}, []string{"d", "c", "b", "a"}},
		{"limit", ListOptions{Limit: 2}, []string{"d", "c"}},
		{"status filter", ListOptions{Status: types.ExtractionFailed}, []string{"b"}},
		{"status and limit", ListOptions{Status: types.ExtractionDone, Limit: 1}, []string{"d"}},
		{"no limit", ListOptions{Limit: -1}, []string{"d", "c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := s.List(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, r := range recs {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("got %v, want %v", ids, tt.want)
					break
				}
			}
		})
	}
}

func TestList_OrdersWithinSecond(t *testing.T) {
	s := testStore(t)
	newer := record("newer", types.ExtractionDone, 0)
	newer.ExtractedAt = base.Add(150 * time.Millisecond)
	older := record("older", types.ExtractionDone, 0)
	older.ExtractedAt = base.Add(100 * time.Millisecond)
	onTheSecond := record("second", types.ExtractionDone, 0)
	seed(t, s, newer, older, onTheSecond)

	recs, err := s.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	want := []string{"newer", "older", "second"}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
		t.Errorf("got %v, want %v", ids, want)
	}
	if !recs[0].ExtractedAt.Equal(newer.ExtractedAt) {
		t.Errorf("ExtractedAt = %v, want %v", recs[0].ExtractedAt, newer.ExtractedAt)
	}
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seed(t, s, record("a", types.ExtractionDone, 0), record("b", types.ExtractionFailed, 1))

	path, err := s.ExportYAML(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(s.DataDir(), "export.yaml") {
		t.Errorf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var recs []types.ExtractionRecord
	if err := yaml.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].ID != "b" || recs[1].Status != types.ExtractionDone {
		t.Errorf("exported %+v", recs)
	}
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	out := filepath.Join(t.TempDir(), "history.json")

	path, err := s.ExportJSON(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var recs []types.ExtractionRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("empty history should export [], got %s", data)
	}
}
