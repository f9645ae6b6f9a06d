package ingest

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

func TestTransformAttributeConversionNamesDimension(t *testing.T) {
	g := &table.ColumnGrid{
		Columns: []string{"Value", "Visitors", "Purchasers"},
		Rows: [][]string{
			{"SKIPTRACE CREDIT RATING", "", ""},
			{"Good", "1000", "50"},
			{"Fair", "500", "20"},
			{"Total", "1500", "70"},
		},
	}
	tbl, err := transformAttributeConversion(g, DefaultOptions(), newDiagnostics("credit.csv"))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(tbl.AttrColumns) != 1 || tbl.AttrColumns[0] != "SKIPTRACE_CREDIT_RATING" {
		t.Fatalf("attr columns = %v; want the name from the leading row", tbl.AttrColumns)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d; want 2 after dropping the total row", len(tbl.Rows))
	}
	if tbl.Rows[0].Attr("SKIPTRACE_CREDIT_RATING") != "Good" || tbl.Rows[0].Conversion != 5.00 {
		t.Fatalf("row 1 = %+v; want Good at a computed 5.00", tbl.Rows[0])
	}
	if tbl.Rows[1].Conversion != 4.00 {
		t.Fatalf("row 2 conversion = %v; want 4.00", tbl.Rows[1].Conversion)
	}
}

func TestTransformAttributeConversionFuzzyRenames(t *testing.T) {
	g := &table.ColumnGrid{
		Columns: []string{"Attribute Value", "Visitor Count", "Purchaser Count"},
		Rows: [][]string{
			{"18-24", "200", "10"},
		},
	}
	tbl, err := transformAttributeConversion(g, DefaultOptions(), newDiagnostics("fuzzy.csv"))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0].Visitors != 200 || tbl.Rows[0].Purchasers != 10 {
		t.Fatalf("rows = %+v; want the fuzzy-mapped columns parsed", tbl.Rows)
	}
}

func TestTransformAttributeConversionMissingColumns(t *testing.T) {
	g := &table.ColumnGrid{
		Columns: []string{"Value", "Visitors"},
		Rows:    [][]string{{"Good", "1000"}},
	}
	_, err := transformAttributeConversion(g, DefaultOptions(), newDiagnostics("short.csv"))
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v; want MissingColumnError", err)
	}
}
