package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// transformGenderAnalysis handles per-attribute analysis exports
// (attribute visitors / purchasers / conversion per category). These
// files are notorious for duplicate metric columns and embedded total
// rows, so summary rows are stripped before any numeric work.
func transformGenderAnalysis(g *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	g = g.Select(func(i int, name string) bool { return !isPhantomName(name) })

	// The grouping column is the first one that is not a metric.
	groupCol := ""
	for _, name := range g.Columns {
		if !isMetricName(name) {
			groupCol = name
			break
		}
	}
	if groupCol == "" {
		groupCol = g.Columns[0]
	}
	diag.Infof("using %q as the grouping column", groupCol)

	groupIdx := g.ColIndex(groupCol)
	before := len(g.Rows)
	g = g.FilterRows(func(row []string) bool {
		return !isSummaryValue(cellAt(row, groupIdx), summaryKeywords)
	})
	if n := before - len(g.Rows); n > 0 {
		diag.Infof("removed %d summary/total row(s)", n)
	}

	// Canonical renames, first match wins per metric.
	mapped := map[string]bool{}
	for i, name := range g.Columns {
		u := strings.ToUpper(name)
		switch {
		case strings.Contains(u, "ATTRIBUTE VISITORS") && !mapped[table.ColVisitors]:
			g.Columns[i] = table.ColVisitors
			mapped[table.ColVisitors] = true
		case (u == "PURCHASERS" || strings.HasPrefix(u, "PURCHASERS")) && !mapped[table.ColPurchasers]:
			g.Columns[i] = table.ColPurchasers
			mapped[table.ColPurchasers] = true
		case (strings.Contains(u, "CONVERSION RATE") || u == "CONVERSION") && !mapped[table.ColConversion]:
			g.Columns[i] = table.ColConversion
			mapped[table.ColConversion] = true
		}
	}

	// Looser passes when the strict renames missed a metric.
	if g.ColIndex(table.ColVisitors) < 0 {
		renameFirstContaining(g, []string{"visitor", "visits"}, "", table.ColVisitors)
	}
	if g.ColIndex(table.ColPurchasers) < 0 {
		if !renameFirstContaining(g, []string{"purchaser"}, groupCol, table.ColPurchasers) {
			return nil, &MissingColumnError{Missing: []string{table.ColPurchasers}, Available: g.Columns}
		}
	}
	if g.ColIndex(table.ColConversion) < 0 {
		renameFirstContaining(g, []string{"conversion"}, groupCol, table.ColConversion)
	}

	visIdx := g.ColIndex(table.ColVisitors)
	purIdx := g.ColIndex(table.ColPurchasers)
	convIdx := g.ColIndex(table.ColConversion)
	if visIdx < 0 {
		diag.Infof("no visitors column; estimating from purchasers at %.0f%% baseline conversion", opts.BaselineConversion*100)
	}

	t := &table.ComboTable{AttrColumns: []string{"Attribute"}}
	dropped := 0
	for r := range g.Rows {
		purchasers, ok := table.ParseCount(g.Cell(r, purIdx))
		if !ok {
			dropped++
			continue
		}
		row := table.ComboRow{
			ComboSize:   1,
			Purchasers:  purchasers,
			MinVisitors: opts.MinVisitors,
			Attrs:       map[string]string{"Attribute": g.Cell(r, groupIdx)},
		}
		if visIdx >= 0 {
			row.Visitors, _ = table.ParseCount(g.Cell(r, visIdx))
		} else {
			row.Visitors = estimateVisitors(purchasers, opts)
		}
		if convIdx >= 0 {
			conv, ok := table.ParseNumber(g.Cell(r, convIdx))
			if !ok {
				dropped++
				continue
			}
			row.Conversion = conv
		} else {
			row.Conversion = table.Conversion(row.Purchasers, row.Visitors)
		}
		// Residual summary rows that survived the early filter.
		if isSummaryValue(row.Attrs["Attribute"], []string{"total", "conversion"}) {
			dropped++
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if dropped > 0 {
		diag.Infof("dropped %d row(s) with invalid or summary data", dropped)
	}
	if len(t.Rows) == 0 {
		return nil, &EmptyResultError{Stage: "analysis cleanup"}
	}
	return t, nil
}

// renameFirstContaining renames the first column whose lowercased name
// contains any needle, skipping the excluded column name.
func renameFirstContaining(g *table.ColumnGrid, needles []string, exclude, to string) bool {
	for i, name := range g.Columns {
		if name == exclude {
			continue
		}
		l := strings.ToLower(name)
		for _, n := range needles {
			if strings.Contains(l, n) {
				g.Columns[i] = to
				return true
			}
		}
	}
	return false
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
