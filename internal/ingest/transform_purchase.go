package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// transformPurchaseEmail turns a per-purchase log with demographic
// columns into ranked segments. Each row is one purchase; distinct
// email addresses per group count as visitors.
func transformPurchaseEmail(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	var demoCols []string
	for _, name := range g.Columns {
		if isDemographicName(name) {
			demoCols = append(demoCols, name)
		}
	}
	matchedBy := "keyword"
	if len(demoCols) > opts.MaxGroupColumns {
		demoCols = demoCols[:opts.MaxGroupColumns]
	}
	if len(demoCols) == 0 {
		demoCols = groupableColumns(g, opts.MaxGroupColumns)
		matchedBy = "cardinality fallback"
	}
	if len(demoCols) == 0 {
		// Last resort: the first three columns, whatever they are.
		for i := 0; i < 3 && i < len(g.Columns); i++ {
			demoCols = append(demoCols, g.Columns[i])
		}
		matchedBy = "first columns fallback"
	}
	diag.Infof("grouping by %s (%s)", strings.Join(demoCols, ", "), matchedBy)

	idCol := emailIdentifierColumn(g)
	diag.Infof("counting visitors via %q", g.Columns[idCol])

	segs := groupBy(g, colIndexes(g, demoCols), idCol)
	t := groupedTable(demoCols, segs, true, opts)
	diag.Infof("grouped %d purchase record(s) into %d segment(s)", len(g.Rows), len(t.Rows))
	return t, nil
}

func emailIdentifierColumn(g *table.ColumnGrid) int {
	for _, name := range []string{"Email", "email"} {
		if i := g.ColIndex(name); i >= 0 {
			return i
		}
	}
	return 0
}
