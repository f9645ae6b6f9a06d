package ingest_test

import (
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/comboforge-cli/internal/ingest"
)

func TestIsXLSX(t *testing.T) {
	if !ingest.IsXLSX("report.XLSX") || ingest.IsXLSX("report.csv") {
		t.Fatal("xlsx detection by extension failed")
	}
}

func TestRunReadsWorkbook(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"Rank", "Combo Size", "Visitors", "Purchasers", "Conversion %", "AGE_RANGE"},
		{1, 2, 1000, 40, 4.0, "18-24"},
		{2, 2, 500, 40, 8.0, "25-34"},
	}
	for i, r := range rows {
		if err := f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	tbl, diag, err := ingest.Run(buf.Bytes(), "combos.xlsx", ingest.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diag.Format != ingest.FormatCombo {
		t.Fatalf("format = %s; want combo", diag.Format)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(tbl.Rows))
	}
	if tbl.Rows[0].Attr("AGE_RANGE") != "25-34" {
		t.Fatalf("top row = %+v; want the higher-conversion segment", tbl.Rows[0])
	}
}
