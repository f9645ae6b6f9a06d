package ingest_test

import (
	"testing"

	"github.com/KaramelBytes/comboforge-cli/internal/ingest"
	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

func TestRepairDropsPhantomColumns(t *testing.T) {
	g := &table.ColumnGrid{
		Columns: []string{"AGE_RANGE", "Unnamed: 2", "nan", "GENDER", "Notes"},
		Rows: [][]string{
			{"18-24", "", "", "M", ""},
			{"25-34", "", "", "F", ""},
		},
	}
	out := ingest.Repair(g, nil)
	// Artifact names go, and so does the fully-empty Notes column.
	want := []string{"AGE_RANGE", "GENDER"}
	if len(out.Columns) != len(want) {
		t.Fatalf("columns = %v; want %v", out.Columns, want)
	}
	for i, c := range want {
		if out.Columns[i] != c {
			t.Fatalf("columns = %v; want %v", out.Columns, want)
		}
	}
}

func TestRepairSuffixesDuplicateColumns(t *testing.T) {
	g := &table.ColumnGrid{
		Columns: []string{"Purchasers", "Purchasers", "Purchasers"},
		Rows:    [][]string{{"1", "2", "3"}},
	}
	out := ingest.Repair(g, nil)
	if out.Columns[0] != "Purchasers" || out.Columns[1] != "Purchasers_1" || out.Columns[2] != "Purchasers_2" {
		t.Fatalf("columns = %v", out.Columns)
	}
}

func TestRepairDropsEmptyRows(t *testing.T) {
	g := &table.ColumnGrid{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"1", "2"}, {"", "  "}, {"3", "4"}},
	}
	out := ingest.Repair(g, nil)
	if len(out.Rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(out.Rows))
	}
}

func TestDetectHeadersFindsBuriedExcelHeader(t *testing.T) {
	raw := &table.RawTable{Rows: [][]string{
		{"Performance Export", "", "", ""},
		{"Min Visitors: 250", "", "", ""},
		{"Rank", "Combo Size", "Visitors", "Purchasers"},
		{"1", "2", "100", "5"},
	}}
	hdr := ingest.DetectHeaders(raw)
	if hdr.ExcelHeaderRow != 2 {
		t.Fatalf("header row = %d; want 2", hdr.ExcelHeaderRow)
	}
	if hdr.MinVisitors != 250 {
		t.Fatalf("min visitors = %d; want 250", hdr.MinVisitors)
	}
}

func TestDetectHeadersNormalHeaderIsNotExcelStyle(t *testing.T) {
	raw := &table.RawTable{Rows: [][]string{
		{"Rank", "Combo Size", "Visitors", "Purchasers"},
		{"1", "2", "100", "5"},
		{"2", "2", "90", "4"},
		{"3", "2", "80", "3"},
	}}
	hdr := ingest.DetectHeaders(raw)
	if hdr.ExcelHeaderRow != -1 {
		t.Fatalf("header row = %d; want -1 for a row-0 header", hdr.ExcelHeaderRow)
	}
}

func TestApplyBestHeaderSkipsMergedCellTitle(t *testing.T) {
	raw := &table.RawTable{Rows: [][]string{
		{"Quarterly Report", "", ""},
		{"AGE_RANGE", "GENDER", "Count"},
		{"18-24", "M", "10"},
	}}
	g := ingest.ApplyBestHeader(raw, nil)
	if g.Columns[0] != "AGE_RANGE" {
		t.Fatalf("columns = %v; want the row-1 header", g.Columns)
	}
	if len(g.Rows) != 1 {
		t.Fatalf("rows = %d; want 1", len(g.Rows))
	}
}

func TestLoadRawFallsBackToLatin1(t *testing.T) {
	data := []byte("Caf\xe9,10\nBar,20\n")
	raw, err := ingest.LoadRaw(data, "venues.csv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.Rows[0][0] != "Café" {
		t.Fatalf("cell = %q; want Café via latin-1 fallback", raw.Rows[0][0])
	}
}

func TestLoadRawStripsBOM(t *testing.T) {
	data := []byte("\xEF\xBB\xBFRank,Visitors\n1,100\n")
	raw, err := ingest.LoadRaw(data, "bom.csv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.Rows[0][0] != "Rank" {
		t.Fatalf("cell = %q; want BOM stripped", raw.Rows[0][0])
	}
}

func TestLoadRawSniffsTabDelimiter(t *testing.T) {
	data := []byte("AGE_RANGE\tGENDER\n18-24\tM\n")
	raw, err := ingest.LoadRaw(data, "export.tsv")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw.Rows[0]) != 2 || raw.Rows[0][1] != "GENDER" {
		t.Fatalf("rows = %v; want tab-split columns", raw.Rows)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	cases := []struct {
		name string
		cols []string
		want ingest.FormatTag
	}{
		{"canonical", []string{"Rank", "Combo Size", "Visitors", "Purchasers"}, ingest.FormatCombo},
		{"analysis", []string{"Gender", "Attribute Visitors", "Purchasers", "Conversion Rate"}, ingest.FormatGenderAnalysis},
		{"analysis beats demographics", []string{"AGE_RANGE", "Attribute Visitors", "Purchasers"}, ingest.FormatGenderAnalysis},
		{"purchase log", []string{"Email", "Purchase", "AGE_RANGE"}, ingest.FormatPurchaseEmail},
		{"enriched", []string{"UUID", "FIRST_NAME", "AGE_RANGE"}, ingest.FormatUUIDEnriched},
		{"storefront", []string{"Order #", "Billing Name", "Paid at", "Email"}, ingest.FormatShopify},
		{"demographics only", []string{"AGE_RANGE", "GENDER", "Count"}, ingest.FormatPurchaseEmail},
		// The analysis rule matches on the PURCHASERS substring before
		// the narrow value-table rule can be reached.
		{"analysis shadows value table", []string{"Value", "Visitors", "Purchasers"}, ingest.FormatGenderAnalysis},
		{"canonical beats storefront", []string{"Rank", "Combo Size", "Visitors", "Purchasers", "Order #", "Billing Name"}, ingest.FormatCombo},
		{"none", []string{"Flavor", "Region", "Score"}, ingest.FormatUnknown},
	}
	hdr := ingest.HeaderInfo{ExcelHeaderRow: -1}
	for _, c := range cases {
		got := ingest.Classify(&table.ColumnGrid{Columns: c.cols}, hdr)
		if got != c.want {
			t.Errorf("%s: classified %v as %s; want %s", c.name, c.cols, got, c.want)
		}
	}
}

func TestColumnBuckets(t *testing.T) {
	g := &table.ColumnGrid{Columns: []string{"Gender", "Attribute Visitors", "Purchasers", "Conversion Rate", "Notes"}}
	metric, demo, other := ingest.ColumnBuckets(g)
	if len(metric) != 3 {
		t.Fatalf("metric = %v; want 3 columns", metric)
	}
	if len(demo) != 1 || demo[0] != "Gender" {
		t.Fatalf("demographic = %v; want [Gender]", demo)
	}
	if len(other) != 1 || other[0] != "Notes" {
		t.Fatalf("other = %v; want [Notes]", other)
	}
}
