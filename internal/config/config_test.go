package config_test

import (
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/comboforge-cli/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MinVisitors != 40 {
		t.Fatalf("min_visitors = %d; want 40", c.MinVisitors)
	}
	if c.BaselineConversion != 0.05 {
		t.Fatalf("baseline_conversion = %v; want 0.05", c.BaselineConversion)
	}
	if c.HistoryDB == "" {
		t.Fatal("history_db default not resolved")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := &config.Global{
		MinVisitors:        120,
		BaselineConversion: 0.02,
		MaxGroupColumns:    3,
		PreviewLines:       5,
		HistoryDB:          filepath.Join(t.TempDir(), "h.db"),
		HistoryLimit:       7,
	}
	if err := config.Save(want, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.MinVisitors != 120 || got.BaselineConversion != 0.02 || got.HistoryLimit != 7 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.HistoryDB != want.HistoryDB {
		t.Fatalf("history_db = %q; want %q", got.HistoryDB, want.HistoryDB)
	}
}
