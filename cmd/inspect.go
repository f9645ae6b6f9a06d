package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/comboforge-cli/internal/ingest"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report the detected format and column roles without transforming",
	Long: `Inspect loads and repairs an export, then reports which format it would
be treated as and how its columns break down into metric, demographic,
and unclassified groups. Nothing is written or archived.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	tag, grid, diag, err := ingest.Detect(data, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	fmt.Printf("File:    %s\n", filepath.Base(path))
	fmt.Printf("Format:  %s\n", tag)
	fmt.Printf("Rows:    %d\n", len(grid.Rows))
	fmt.Printf("Columns: %d\n", len(grid.Columns))

	metric, demo, other := ingest.ColumnBuckets(grid)
	printBucket("Metric", metric)
	printBucket("Demographic", demo)
	printBucket("Other", other)

	if len(diag.Messages) > 0 {
		fmt.Println("\nNotes:")
		for _, msg := range diag.Messages {
			fmt.Println("  •", msg)
		}
	}
	return nil
}

func printBucket(label string, cols []string) {
	if len(cols) == 0 {
		return
	}
	fmt.Printf("\n%s columns:\n", label)
	fmt.Println("  " + strings.Join(cols, ", "))
}
