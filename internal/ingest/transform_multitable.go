package ingest

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// AttributeTable is one parsed sub-table of a multi-table file: the
// values of a single demographic dimension with their metrics.
type AttributeTable struct {
	Name string
	Rows []attributeRow
}

type attributeRow struct {
	Value      string
	Visitors   int
	Purchasers int
	Conversion float64
}

// transformMultiTable parses each stacked attribute table and merges
// them as a wide union: every sub-table row becomes an independent
// output row with only its own attribute column populated. The output
// row count is the sum of sub-table row counts, never a cross-product.
func transformMultiTable(raw *table.RawTable, hdr HeaderInfo, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	diag.Infof("found %d stacked attribute tables", len(hdr.TableStarts))

	var tables []AttributeTable
	for i, start := range hdr.TableStarts {
		// Hard bound: the next marker's attribute-name row.
		bound := len(raw.Rows)
		if i+1 < len(hdr.TableStarts) {
			bound = hdr.TableStarts[i+1].HeaderRow - 1
		}
		at, err := parseAttributeTable(raw, start, bound, opts)
		if err != nil {
			// A broken sub-table skips, it does not fail the file.
			diag.Infof("skipping sub-table %q: %v", start.AttributeName, err)
			continue
		}
		diag.Infof("parsed %q: %d value(s)", at.Name, len(at.Rows))
		tables = append(tables, at)
	}
	if len(tables) == 0 {
		return nil, &EmptyResultError{Stage: "multi-table parsing"}
	}

	// Repeated attribute names get the same _1, _2 suffixes repair
	// uses, so each sub-table keeps its own output column.
	seen := map[string]int{}
	for i := range tables {
		n := seen[tables[i].Name]
		seen[tables[i].Name] = n + 1
		if n > 0 {
			tables[i].Name = fmt.Sprintf("%s_%d", tables[i].Name, n)
			diag.Infof("renamed duplicate attribute table to %q", tables[i].Name)
		}
	}

	t := &table.ComboTable{}
	for _, at := range tables {
		t.AttrColumns = append(t.AttrColumns, at.Name)
	}
	for _, at := range tables {
		for _, r := range at.Rows {
			t.Rows = append(t.Rows, table.ComboRow{
				ComboSize:   1,
				Visitors:    r.Visitors,
				Purchasers:  r.Purchasers,
				Conversion:  r.Conversion,
				MinVisitors: opts.MinVisitors,
				Attrs:       map[string]string{at.Name: r.Value},
			})
		}
	}
	diag.Infof("merged %d table(s) into %d combo row(s)", len(tables), len(t.Rows))
	return t, nil
}

// parseAttributeTable extracts one sub-table. The data range runs from
// the marker's data start until an empty row, a row naming another
// attribute, or the hard bound.
func parseAttributeTable(raw *table.RawTable, start TableStart, bound int, opts Options) (AttributeTable, error) {
	end := start.DataStart
	for idx := start.DataStart; idx < bound && idx < len(raw.Rows); idx++ {
		row := raw.Rows[idx]
		if table.RowEmpty(row) {
			break
		}
		if containsAny(table.RowText(row), attributeBreakKeywords) {
			break
		}
		end = idx + 1
	}

	header := raw.Rows[start.HeaderRow]
	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = table.CleanName(c)
	}
	g := &table.ColumnGrid{Columns: cols, Rows: raw.Rows[start.DataStart:end]}

	// Fuzzy canonical mapping, first match wins per target.
	mapped := map[string]bool{}
	for i, name := range g.Columns {
		u := strings.ToUpper(name)
		switch {
		case (strings.Contains(u, "VALUE") || strings.Contains(u, "ATTRIBUTE")) && !mapped["Value"]:
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
		return AttributeTable{}, &MissingColumnError{Missing: missing, Available: g.Columns}
	}

	valIdx := g.ColIndex("Value")
	visIdx := g.ColIndex(table.ColVisitors)
	purIdx := g.ColIndex(table.ColPurchasers)
	convIdx := g.ColIndex(table.ColConversion)

	at := AttributeTable{Name: start.AttributeName}
	for r := range g.Rows {
		value := g.Cell(r, valIdx)
		if value == "" || isSummaryValue(value, valueSummaryKeywords) {
			continue
		}
		visitors, okV := table.ParseCount(g.Cell(r, visIdx))
		purchasers, okP := table.ParseCount(g.Cell(r, purIdx))
		if !okV || !okP {
			continue
		}
		row := attributeRow{Value: value, Visitors: visitors, Purchasers: purchasers}
		if convIdx >= 0 {
			row.Conversion, _ = table.ParseNumber(g.Cell(r, convIdx))
		} else {
			row.Conversion = table.Conversion(purchasers, visitors)
		}
		at.Rows = append(at.Rows, row)
	}
	if len(at.Rows) == 0 {
		return AttributeTable{}, &EmptyResultError{Stage: "sub-table cleanup"}
	}
	return at, nil
}

