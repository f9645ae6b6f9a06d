package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/comboforge-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// MinVisitors fills the Min Visitors column when a file carries
	// neither the column nor a metadata hint.
	MinVisitors int `mapstructure:"min_visitors" yaml:"min_visitors"`
	// BaselineConversion is the assumed conversion rate used to
	// estimate visitors for shapes with no traffic data.
	BaselineConversion float64 `mapstructure:"baseline_conversion" yaml:"baseline_conversion"`
	// MaxGroupColumns caps grouping dimensions per transformation.
	MaxGroupColumns int `mapstructure:"max_group_columns" yaml:"max_group_columns"`
	// PreviewLines bounds raw-content previews attached to failures.
	PreviewLines int `mapstructure:"preview_lines" yaml:"preview_lines"`
	// HistoryDB is the path of the sqlite upload archive.
	HistoryDB string `mapstructure:"history_db" yaml:"history_db"`
	// HistoryLimit caps how many archive entries `history` lists.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.comboforge/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".comboforge")
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("COMBOFORGE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("min_visitors", 40)
	v.SetDefault("baseline_conversion", 0.05)
	v.SetDefault("max_group_columns", 5)
	v.SetDefault("preview_lines", 10)
	v.SetDefault("history_limit", 50)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".comboforge")
		_ = utils.EnsureDir(dir)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve history_db default: ~/.comboforge/history.db
	if c.HistoryDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.HistoryDB = filepath.Join(home, ".comboforge", "history.db")
	}
	return &c, nil
}
