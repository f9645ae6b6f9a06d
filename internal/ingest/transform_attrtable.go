package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// attrNameKeywords mark a leading row that carries the attribute name
// instead of data in a single attribute-conversion table.
var attrNameKeywords = []string{"SKIPTRACE", "AGE", "CREDIT", "ETHNIC", "INCOME"}

// transformAttributeConversion handles one Value/Visitors/Purchasers
// table describing a single demographic dimension. The attribute name
// often sits in a row above the data.
func transformAttributeConversion(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	attrName := "DEMOGRAPHIC_ATTRIBUTE"
	if len(g.Rows) > 0 && containsAny(table.RowText(g.Rows[0]), attrNameKeywords) {
		if v := cellAt(g.Rows[0], 0); v != "" {
			attrName = strings.ToUpper(strings.ReplaceAll(v, " ", "_"))
		}
		g.Rows = g.Rows[1:]
		diag.Infof("detected attribute name %q in first row", attrName)
	}

	// Fuzzy canonical renames; VALUE variants first.
	mapped := map[string]bool{}
	for i, name := range g.Columns {
		u := strings.ToUpper(strings.TrimSpace(name))
		switch {
		case (u == "VALUE" || u == "VAL" || u == "ATTRIBUTE VALUE") && !mapped["Value"]:
			g.Columns[i] = "Value"
			mapped["Value"] = true
		case strings.Contains(u, "VISITOR") && !mapped[table.ColVisitors]:
			g.Columns[i] = table.ColVisitors
			mapped[table.ColVisitors] = true
		case strings.Contains(u, "PURCHASER") && !mapped[table.ColPurchasers]:
			g.Columns[i] = table.ColPurchasers
			mapped[table.ColPurchasers] = true
		case strings.Contains(u, "CONVERSION") && !mapped[table.ColConversion]:
			g.Columns[i] = table.ColConversion
			mapped[table.ColConversion] = true
		}
	}

	var missing []string
	for _, req := range []string{"Value", table.ColVisitors, table.ColPurchasers} {
		if g.ColIndex(req) < 0 {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing, Available: g.Columns}
	}

	valIdx := g.ColIndex("Value")
	visIdx := g.ColIndex(table.ColVisitors)
	purIdx := g.ColIndex(table.ColPurchasers)
	convIdx := g.ColIndex(table.ColConversion)

	t := &table.ComboTable{AttrColumns: []string{attrName}}
	dropped := 0
	for r := range g.Rows {
		value := g.Cell(r, valIdx)
		if isSummaryValue(value, []string{"blank", "unk", "total", "sum"}) {
			dropped++
			continue
		}
		visitors, okV := table.ParseCount(g.Cell(r, visIdx))
		purchasers, okP := table.ParseCount(g.Cell(r, purIdx))
		if !okV || !okP {
			dropped++
			continue
		}
		row := table.ComboRow{
			ComboSize:   1,
			Visitors:    visitors,
			Purchasers:  purchasers,
			MinVisitors: opts.MinVisitors,
			Attrs:       map[string]string{attrName: value},
		}
		if convIdx >= 0 {
			row.Conversion, _ = table.ParseNumber(g.Cell(r, convIdx))
		} else {
			row.Conversion = table.Conversion(purchasers, visitors)
		}
		t.Rows = append(t.Rows, row)
	}
	if dropped > 0 {
		diag.Infof("dropped %d summary or invalid row(s)", dropped)
	}
	if len(t.Rows) == 0 {
		return nil, &EmptyResultError{Stage: "attribute table cleanup"}
	}
	diag.Infof("parsed %d value(s) for attribute %s", len(t.Rows), attrName)
	return t, nil
}
