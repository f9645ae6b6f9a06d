package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// transformUUIDEnriched handles person-level enriched records (uuid or
// skiptrace fields): group by a fixed priority list of enriched
// demographic columns and estimate visitors, since this shape carries
// no traffic data at all.
func transformUUIDEnriched(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	var demoCols []string
	for _, name := range enrichedPriorityColumns {
		if g.ColIndex(name) >= 0 {
			demoCols = append(demoCols, name)
		}
	}
	matchedBy := "priority list"
	if len(demoCols) == 0 {
		for _, name := range g.Columns {
			if containsAny(name, []string{"AGE", "GENDER", "INCOME", "STATE"}) {
				demoCols = append(demoCols, name)
			}
		}
		matchedBy = "keyword fallback"
	}
	if len(demoCols) == 0 {
		demoCols = []string{g.Columns[0]}
		matchedBy = "first column fallback"
	}
	if len(demoCols) > opts.MaxGroupColumns {
		demoCols = demoCols[:opts.MaxGroupColumns]
	}
	diag.Infof("grouping by %s (%s)", strings.Join(demoCols, ", "), matchedBy)

	segs := groupBy(g, colIndexes(g, demoCols), -1)
	t := groupedTable(demoCols, segs, false, opts)
	diag.Infof("estimated visitors from purchases at %.0f%% baseline conversion", opts.BaselineConversion*100)
	diag.Infof("grouped %d enriched record(s) into %d segment(s)", len(g.Rows), len(t.Rows))
	return t, nil
}

// transformFallback is the generic path for unrecognized shapes: group
// by up to MaxGroupColumns non-numeric columns and estimate visitors.
func transformFallback(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	var demoCols []string
	for i, name := range g.Columns {
		if !columnMostlyNumeric(g, i) {
			demoCols = append(demoCols, name)
			if len(demoCols) >= opts.MaxGroupColumns {
				break
			}
		}
	}
	if len(demoCols) == 0 {
		return nil, &StructuralError{
			Reason:  "unrecognized format with no categorical columns to group by",
			Columns: g.Columns,
		}
	}
	diag.Infof("unknown format: grouping by %s", strings.Join(demoCols, ", "))

	segs := groupBy(g, colIndexes(g, demoCols), -1)
	t := groupedTable(demoCols, segs, false, opts)
	return t, nil
}

// columnMostlyNumeric reports whether most non-empty cells in the
// column parse as numbers.
func columnMostlyNumeric(g *table.ColumnGrid, col int) bool {
	numeric, total := 0, 0
	for r := range g.Rows {
		v := g.Cell(r, col)
		if v == "" {
			continue
		}
		total++
		if _, ok := table.ParseNumber(v); ok {
			numeric++
		}
	}
	return total > 0 && numeric*2 > total
}
