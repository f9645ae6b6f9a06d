package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/comboforge-cli/internal/ingest"
	"github.com/KaramelBytes/comboforge-cli/internal/store"
	"github.com/KaramelBytes/comboforge-cli/internal/table"
	"github.com/KaramelBytes/comboforge-cli/internal/utils"
)

var (
	normalizeOutput      string
	normalizeFormat      string
	normalizeMinVisitors int
	normalizeNoArchive   bool
	normalizeQuiet       bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Detect the export format and produce the canonical combo table",
	Long: `Normalize reads a CSV, TSV, or XLSX export, detects which known shape it
matches, and transforms it into the canonical ranked combo table.

The result is written as CSV by default; use --format to emit JSON, YAML,
or a terminal-friendly markdown preview. Unless --no-archive is set, every
successful run is archived to the local history database.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "write result to file instead of stdout")
	normalizeCmd.Flags().StringVarP(&normalizeFormat, "format", "f", "csv", "output format: csv, json, yaml, or table")
	normalizeCmd.Flags().IntVar(&normalizeMinVisitors, "min-visitors", 0, "override the minimum visitors threshold")
	normalizeCmd.Flags().BoolVar(&normalizeNoArchive, "no-archive", false, "skip archiving the result to upload history")
	normalizeCmd.Flags().BoolVarP(&normalizeQuiet, "quiet", "q", false, "suppress detection diagnostics")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	opts := pipelineOptions()
	if normalizeMinVisitors > 0 {
		opts.MinVisitors = normalizeMinVisitors
	}

	tbl, diag, err := ingest.Run(data, filepath.Base(path), opts)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}

	if !normalizeQuiet {
		fmt.Fprintf(os.Stderr, "Detected format: %s (run %s)\n", diag.Format, diag.RunID)
		for _, msg := range diag.Messages {
			fmt.Fprintln(os.Stderr, "  •", msg)
		}
	}

	out, err := encodeTable(tbl, normalizeFormat)
	if err != nil {
		return err
	}
	if normalizeOutput != "" {
		if err := utils.SafeWriteFile(normalizeOutput, out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d row(s) to %s\n", len(tbl.Rows), normalizeOutput)
	} else {
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
	}

	if !normalizeNoArchive {
		archiveResult(cmd.Context(), path, data, string(diag.Format), tbl)
	}
	return nil
}

// archiveResult saves the normalized table to upload history. History is
// best-effort: a failure is logged, not returned.
func archiveResult(ctx context.Context, path string, data []byte, format string, tbl *table.ComboTable) {
	s, err := store.Open(historyDBPath())
	if err != nil {
		slog.Warn("upload history unavailable", "error", err)
		return
	}
	defer s.Close()
	id, err := s.Save(ctx, store.Upload{
		Filename: filepath.Base(path),
		Format:   format,
		RowCount: len(tbl.Rows),
		Hash:     store.ContentHash(data),
		Table:    tbl,
	})
	if err != nil {
		slog.Warn("failed to archive upload", "error", err)
		return
	}
	slog.Debug("archived upload", "id", id)
}

func encodeTable(tbl *table.ComboTable, format string) ([]byte, error) {
	switch format {
	case "csv":
		var b bytes.Buffer
		if err := tbl.WriteCSV(&b); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case "json":
		return utils.PrettyJSON(tableDocument(tbl))
	case "yaml":
		return yaml.Marshal(tableDocument(tbl))
	case "table":
		return []byte(tbl.Markdown(0)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected csv, json, yaml, or table)", format)
	}
}

func tableDocument(tbl *table.ComboTable) map[string]any {
	return map[string]any{
		"columns": tbl.Columns(),
		"rows":    tbl.Records(),
	}
}
