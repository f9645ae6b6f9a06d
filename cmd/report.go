package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/comboforge-cli/internal/ingest"
	"github.com/KaramelBytes/comboforge-cli/internal/report"
	"github.com/KaramelBytes/comboforge-cli/internal/store"
	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

var (
	reportID            int64
	reportFormat        string
	reportMinPurchasers int
	reportMinConversion float64
	reportSizeMin       int
	reportSizeMax       int
	reportSearch        string
	reportGroupBy       string
	reportTop           int
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Filter and summarize a normalized combo table",
	Long: `Report runs the reporting views over a combo table. The table comes from
a file argument (normalized on the fly) or from upload history via --id.

Filters narrow the rows without re-ranking them; --group-by aggregates
purchasers and visitors per value of one demographic column.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportID, "id", 0, "load the table from upload history by id")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "output format: csv, json, yaml, or table")
	reportCmd.Flags().IntVar(&reportMinPurchasers, "min-purchasers", 0, "keep rows with at least this many purchasers")
	reportCmd.Flags().Float64Var(&reportMinConversion, "min-conversion", 0, "keep rows at or above this conversion percentage")
	reportCmd.Flags().IntVar(&reportSizeMin, "size-min", 0, "keep rows with combo size at or above this")
	reportCmd.Flags().IntVar(&reportSizeMax, "size-max", 0, "keep rows with combo size at or below this")
	reportCmd.Flags().StringVar(&reportSearch, "search", "", "keep rows whose cells contain this text")
	reportCmd.Flags().StringVar(&reportGroupBy, "group-by", "", "aggregate totals per value of a demographic column")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "keep only the first N rows after filtering")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	tbl, err := reportSource(cmd, args)
	if err != nil {
		return err
	}

	tbl = report.Apply(tbl, report.Filter{
		MinPurchasers: reportMinPurchasers,
		MinConversion: reportMinConversion,
		ComboSizeMin:  reportSizeMin,
		ComboSizeMax:  reportSizeMax,
	})
	if reportSearch != "" {
		tbl = report.Search(tbl, reportSearch)
	}
	if reportTop > 0 {
		tbl = report.TopN(tbl, reportTop)
	}

	if reportGroupBy != "" {
		totals, err := report.GroupTotals(tbl, reportGroupBy)
		if err != nil {
			return err
		}
		fmt.Printf("%-30s %12s %12s\n", reportGroupBy, "Purchasers", "Visitors")
		for _, t := range totals {
			fmt.Printf("%-30s %12d %12d\n", t.Value, t.Purchasers, t.Visitors)
		}
		return nil
	}

	out, err := encodeTable(tbl, reportFormat)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// reportSource resolves the table either from upload history or by
// normalizing the given file.
func reportSource(cmd *cobra.Command, args []string) (*table.ComboTable, error) {
	if reportID > 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass either a file or --id, not both")
		}
		s, err := store.Open(historyDBPath())
		if err != nil {
			return nil, fmt.Errorf("open upload history: %w", err)
		}
		defer s.Close()
		u, err := s.Load(cmd.Context(), reportID)
		if err != nil {
			return nil, fmt.Errorf("load upload %d: %w", reportID, err)
		}
		return u.Table, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a file argument or --id is required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	tbl, _, err := ingest.Run(data, filepath.Base(args[0]), pipelineOptions())
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", args[0], err)
	}
	return tbl, nil
}
