// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2md/internal/history"
	"github.com/pdiddy/pdf2md/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Review past extraction runs (list, export)",
	Long: `History reads the local SQLite log of extraction runs written by
extract. Each converted or failed file is one record.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent extraction runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), history.ListOptions{
		Limit:  limit,
		Status: types.ExtractionStatus(status),
	})
	if err != nil {
		return err
	}
	return formatHistoryOutput(cmd.OutOrStdout(), records, jsonOutput)
}

func formatHistoryOutput(w io.Writer, records []types.ExtractionRecord, jsonOutput bool) error {
	if jsonOutput {
		if records == nil {
			records = []types.ExtractionRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No extractions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-30s  %-10s  %5s  %7s\n",
		"When", "Status", "Title", "Backend", "Pages", "Words")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	for _, r := range records {
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-30s  %-10s  %5d  %7d\n",
			r.ExtractedAt.Local().Format("2006-01-02 15:04:05"), r.Status, title, r.Backend, r.Pages, r.Words)
		if r.Error != "" {
			fmt.Fprintf(w, "%20s  error: %s\n", "", r.Error)
		}
	}

	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the extraction history to YAML or JSON",
	Long: `Export writes every history record to a file. Without a path the file
is written next to the history database as export.yaml or export.json.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("output")

	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), out)
	case "json":
		path, err = store.ExportJSON(context.Background(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// historyStore opens the store even when recording is disabled, so old
// records stay readable.
func historyStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.History)
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of records (negative = all)")
	historyListCmd.Flags().String("status", "", "filter by status: converted or failed")
	historyListCmd.Flags().Bool("json", false, "output records as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "output file (default: export.<format> in the history directory)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
