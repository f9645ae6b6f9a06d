package ingest

import (
	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// transformExcelMultiHeader rebuilds a grid whose real header row is
// buried under title/metadata rows from a spreadsheet export, then
// coerces it into canonical shape. This shape trusts the rank carried
// in the file rather than recomputing it from conversion.
func transformExcelMultiHeader(raw *table.RawTable, hdr HeaderInfo, data []byte, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	headerRow, minVisitors := detectExcelHeader(raw)
	if headerRow <= 0 {
		return nil, &StructuralError{
			Reason:  "could not locate header row in excel-style file",
			Preview: Preview(data, opts.PreviewLines),
		}
	}
	diag.Infof("found column headers at row %d", headerRow+1)
	if minVisitors > 0 {
		diag.Infof("extracted min visitors threshold %d from metadata rows", minVisitors)
	}

	g := Repair(raw.ApplyHeader(headerRow), diag)

	var missing []string
	for _, req := range []string{table.ColRank, table.ColComboSize, table.ColVisitors, table.ColPurchasers} {
		if g.ColIndex(req) < 0 {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing, Available: g.Columns}
	}

	// Rows whose Purchasers cell does not parse carry no purchase data.
	// A parseable zero is a real count and stays.
	purIdx := g.ColIndex(table.ColPurchasers)
	before := len(g.Rows)
	g = g.FilterRows(func(row []string) bool {
		_, ok := table.ParseCount(cellAt(row, purIdx))
		return ok
	})
	if n := before - len(g.Rows); n > 0 {
		diag.Infof("dropped %d row(s) missing purchase data", n)
	}

	t, err := transformCombo(g, opts, diag)
	if err != nil {
		return nil, err
	}

	fallbackMin := minVisitors
	if fallbackMin <= 0 {
		fallbackMin = opts.MinVisitors
	}
	for i := range t.Rows {
		row := &t.Rows[i]
		if row.MinVisitors <= 0 {
			row.MinVisitors = fallbackMin
		}
		if row.Conversion == 0 && row.Visitors > 0 && row.Purchasers > 0 {
			row.Conversion = table.Conversion(row.Purchasers, row.Visitors)
		}
	}
	return t, nil
}
