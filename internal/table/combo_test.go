package table_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

func TestParseNumberDecorations(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"4%", 4, true},
		{" 5.25 ", 5.25, true},
		{"$1,200", 1200, true},
		{"1,234,567", 1234567, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, c := range cases {
		got, ok := table.ParseNumber(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseCountTruncates(t *testing.T) {
	if n, ok := table.ParseCount("42.9"); !ok || n != 42 {
		t.Fatalf("ParseCount(42.9) = %d, %v; want 42, true", n, ok)
	}
	if _, ok := table.ParseCount("-3"); ok {
		t.Fatal("negative counts must not parse")
	}
}

func TestConversionRounding(t *testing.T) {
	if got := table.Conversion(1, 3); got != 33.33 {
		t.Fatalf("Conversion(1,3) = %v; want 33.33", got)
	}
	if got := table.Conversion(5, 0); got != 0 {
		t.Fatalf("Conversion with zero visitors = %v; want 0", got)
	}
}

func TestIsUnset(t *testing.T) {
	for _, v := range []string{"", "  ", "NaN", "None", "N/A", "UNKNOWN"} {
		if !table.IsUnset(v) {
			t.Errorf("IsUnset(%q) = false; want true", v)
		}
	}
	if table.IsUnset("18-24") {
		t.Error("IsUnset(18-24) = true; want false")
	}
}

func TestCleanName(t *testing.T) {
	if got := table.CleanName("  Combo\nSize  "); got != "Combo Size" {
		t.Fatalf("CleanName = %q; want %q", got, "Combo Size")
	}
}

func TestSortByConversionStableAndDense(t *testing.T) {
	tbl := &table.ComboTable{
		AttrColumns: []string{"AGE_RANGE"},
		Rows: []table.ComboRow{
			{Rank: 1, Conversion: 2.5, Attrs: map[string]string{"AGE_RANGE": "a"}},
			{Rank: 2, Conversion: 9.1, Attrs: map[string]string{"AGE_RANGE": "b"}},
			{Rank: 3, Conversion: 2.5, Attrs: map[string]string{"AGE_RANGE": "c"}},
		},
	}
	tbl.SortByConversion()
	if tbl.Rows[0].Attr("AGE_RANGE") != "b" {
		t.Fatalf("highest conversion should rank first, got %q", tbl.Rows[0].Attr("AGE_RANGE"))
	}
	// Ties keep their original relative order.
	if tbl.Rows[1].Attr("AGE_RANGE") != "a" || tbl.Rows[2].Attr("AGE_RANGE") != "c" {
		t.Fatalf("tie order not stable: %q then %q", tbl.Rows[1].Attr("AGE_RANGE"), tbl.Rows[2].Attr("AGE_RANGE"))
	}
	for i, r := range tbl.Rows {
		if r.Rank != i+1 {
			t.Fatalf("rank not dense at row %d: %d", i, r.Rank)
		}
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsSparseRanks(t *testing.T) {
	tbl := &table.ComboTable{Rows: []table.ComboRow{{Rank: 1}, {Rank: 3}}}
	if err := tbl.Validate(); err == nil {
		t.Fatal("expected error for non-dense ranks")
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	tbl := &table.ComboTable{
		AttrColumns: []string{"GENDER"},
		Rows: []table.ComboRow{
			{Rank: 1, ComboSize: 1, Visitors: 200, Purchasers: 10, Conversion: 5, MinVisitors: 40,
				Attrs: map[string]string{"GENDER": "F"}},
		},
	}
	got := table.FromRecords(tbl.AttrColumns, tbl.Records())
	if len(got.Rows) != 1 || got.Rows[0].Visitors != 200 || got.Rows[0].Attr("GENDER") != "F" {
		t.Fatalf("round trip mismatch: %+v", got.Rows)
	}
}

func TestWriteCSVColumnOrder(t *testing.T) {
	tbl := &table.ComboTable{
		AttrColumns: []string{"GENDER"},
		Rows: []table.ComboRow{
			{Rank: 1, ComboSize: 1, Visitors: 100, Purchasers: 4, Conversion: 4, MinVisitors: 40,
				Attrs: map[string]string{"GENDER": "M"}},
		},
	}
	var b bytes.Buffer
	if err := tbl.WriteCSV(&b); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if lines[0] != "Rank,Combo Size,Visitors,Purchasers,Conversion %,Min Visitors,GENDER" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1,1,100,4,4.00,40,M" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}
