package ingest

import (
	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// transformCombo handles files already in canonical shape: coerce the
// metric columns to numbers and drop rows whose rank will not parse.
func transformCombo(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	rankIdx := g.ColIndex(table.ColRank)
	sizeIdx := g.ColIndex(table.ColComboSize)
	visIdx := g.ColIndex(table.ColVisitors)
	purIdx := g.ColIndex(table.ColPurchasers)
	convIdx := g.ColIndex(table.ColConversion)
	minIdx := g.ColIndex(table.ColMinVisitors)

	metric := map[int]struct{}{}
	for _, i := range []int{rankIdx, sizeIdx, visIdx, purIdx, convIdx, minIdx} {
		if i >= 0 {
			metric[i] = struct{}{}
		}
	}
	var attrCols []string
	var attrIdx []int
	for i, name := range g.Columns {
		if _, ok := metric[i]; !ok {
			attrCols = append(attrCols, name)
			attrIdx = append(attrIdx, i)
		}
	}

	t := &table.ComboTable{AttrColumns: attrCols}
	dropped := 0
	for r := range g.Rows {
		rank, ok := table.ParseCount(g.Cell(r, rankIdx))
		if !ok {
			dropped++
			continue
		}
		row := table.ComboRow{Rank: rank, Attrs: map[string]string{}}
		row.ComboSize, _ = table.ParseCount(g.Cell(r, sizeIdx))
		row.Visitors, _ = table.ParseCount(g.Cell(r, visIdx))
		row.Purchasers, _ = table.ParseCount(g.Cell(r, purIdx))
		if convIdx >= 0 {
			row.Conversion, _ = table.ParseNumber(g.Cell(r, convIdx))
		}
		if minIdx >= 0 {
			row.MinVisitors, _ = table.ParseCount(g.Cell(r, minIdx))
		}
		for j, i := range attrIdx {
			row.Attrs[attrCols[j]] = g.Cell(r, i)
		}
		t.Rows = append(t.Rows, row)
	}
	if dropped > 0 {
		diag.Infof("dropped %d row(s) with unparsable rank", dropped)
	}
	return t, nil
}
