package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// LoadRawXLSX reads the first sheet of an .xlsx workbook into a
// RawTable, so spreadsheet uploads go through the same repair and
// classification path as CSV exports.
func LoadRawXLSX(data []byte) (*table.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	raw := &table.RawTable{}
	for _, row := range rows {
		r := make([]string, len(row))
		copy(r, row)
		raw.Rows = append(raw.Rows, r)
	}
	raw.Pad()
	return raw, nil
}

// IsXLSX reports whether the filename points at an Excel workbook.
func IsXLSX(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}
