package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// transformShopify turns a raw storefront order export into ranked
// segments: group orders by demographic columns, count purchases per
// group, and count distinct identifiers as visitors.
func transformShopify(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	var demoCols []string
	for _, name := range g.Columns {
		if containsAny(name, demographicKeywords) {
			demoCols = append(demoCols, name)
		}
	}
	matchedBy := "keyword"
	if len(demoCols) == 0 {
		demoCols = groupableColumns(g, opts.MaxGroupColumns)
		matchedBy = "cardinality fallback"
	}
	if len(demoCols) == 0 {
		demoCols = []string{g.Columns[0]}
		matchedBy = "first column fallback"
	}
	diag.Infof("grouping by %s (%s)", strings.Join(demoCols, ", "), matchedBy)

	idCol := visitorIdentifierColumn(g)
	diag.Infof("counting visitors via %q", g.Columns[idCol])

	segs := groupBy(g, colIndexes(g, demoCols), idCol)
	t := groupedTable(demoCols, segs, true, opts)
	diag.Infof("grouped %d order(s) into %d segment(s)", len(g.Rows), len(t.Rows))
	return t, nil
}

// visitorIdentifierColumn picks the column whose distinct values count
// as visitors: Email preferred, then the order number, then column 0.
func visitorIdentifierColumn(g *table.ColumnGrid) int {
	for _, name := range []string{"Email", "email", "Order #", "Order"} {
		if i := g.ColIndex(name); i >= 0 {
			return i
		}
	}
	return 0
}
