package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/comboforge-cli/internal/store"
)

var (
	historyShow   int64
	historyDelete int64
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, or delete archived uploads",
	Long: `History manages the local archive of normalized uploads. Identical file
content is stored once; re-uploading a file you already archived reuses
the existing entry.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "print the archived combo table for an upload id")
	historyCmd.Flags().Int64Var(&historyDelete, "delete", 0, "delete an upload id from history")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum entries to list (default from config)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := store.Open(historyDBPath())
	if err != nil {
		return fmt.Errorf("open upload history: %w", err)
	}
	defer s.Close()

	switch {
	case historyShow > 0:
		u, err := s.Load(cmd.Context(), historyShow)
		if err != nil {
			return fmt.Errorf("load upload %d: %w", historyShow, err)
		}
		fmt.Printf("%s  (%s, %d rows, uploaded %s)\n\n",
			u.Filename, u.Format, u.RowCount, u.UploadedAt.Format("2006-01-02 15:04"))
		fmt.Print(u.Table.Markdown(0))
		return nil

	case historyDelete > 0:
		if err := s.Delete(cmd.Context(), historyDelete); err != nil {
			return fmt.Errorf("delete upload %d: %w", historyDelete, err)
		}
		fmt.Printf("✓ Deleted upload %d\n", historyDelete)
		return nil
	}

	limit := historyLimit
	if limit <= 0 && cfg != nil {
		limit = cfg.HistoryLimit
	}
	uploads, err := s.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}
	if len(uploads) == 0 {
		fmt.Println("No archived uploads yet. Run 'comboforge normalize' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tFORMAT\tROWS\tUPLOADED")
	for _, u := range uploads {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			u.ID, u.Filename, u.Format, u.RowCount, u.UploadedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
