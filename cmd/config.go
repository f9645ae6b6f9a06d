package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/comboforge-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ComboForge configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("min_visitors: %d\n", cfg.MinVisitors)
		fmt.Printf("baseline_conversion: %.3f\n", cfg.BaselineConversion)
		fmt.Printf("max_group_columns: %d\n", cfg.MaxGroupColumns)
		fmt.Printf("preview_lines: %d\n", cfg.PreviewLines)
		fmt.Printf("history_db: %s\n", cfg.HistoryDB)
		fmt.Printf("history_limit: %d\n", cfg.HistoryLimit)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "min_visitors":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for min_visitors: %v", val)
			}
			cfg.MinVisitors = i
		case "baseline_conversion":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid rate for baseline_conversion: %v (use a value in (0, 1])", val)
			}
			cfg.BaselineConversion = f
		case "max_group_columns":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for max_group_columns: %v", val)
			}
			cfg.MaxGroupColumns = i
		case "preview_lines":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for preview_lines: %v", val)
			}
			cfg.PreviewLines = i
		case "history_db":
			cfg.HistoryDB = val
		case "history_limit":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for history_limit: %v", val)
			}
			cfg.HistoryLimit = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
