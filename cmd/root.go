package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/comboforge-cli/internal/config"
	"github.com/KaramelBytes/comboforge-cli/internal/ingest"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "comboforge",
	Short: "ComboForge CLI: normalize messy marketing CSV exports into ranked combo tables",
	Long: `ComboForge ingests inconsistently-structured CSV exports (storefront orders,
demographic attribute tables, multi-header spreadsheets) and normalizes them
into one canonical ranked combo table used by downstream reporting.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.comboforge/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// pipelineOptions maps loaded config onto pipeline options.
func pipelineOptions() ingest.Options {
	opts := ingest.DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.MinVisitors > 0 {
		opts.MinVisitors = cfg.MinVisitors
	}
	if cfg.BaselineConversion > 0 {
		opts.BaselineConversion = cfg.BaselineConversion
	}
	if cfg.MaxGroupColumns > 0 {
		opts.MaxGroupColumns = cfg.MaxGroupColumns
	}
	if cfg.PreviewLines > 0 {
		opts.PreviewLines = cfg.PreviewLines
	}
	return opts
}

func historyDBPath() string {
	if cfg != nil && cfg.HistoryDB != "" {
		return cfg.HistoryDB
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return "history.db"
	}
	cfg = c
	return c.HistoryDB
}
