// Package report consumes a normalized combo table read-only: filters,
// free-text search, and per-attribute aggregates for the dashboard
// layer. Nothing here mutates the table it is given.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// Filter bounds the rows included in a report. Zero values disable the
// corresponding check.
type Filter struct {
	MinPurchasers int
	MinConversion float64
	ComboSizeMin  int
	ComboSizeMax  int
}

// Apply returns a new table containing the rows that pass all filter
// bounds. Ranks are kept as-is; a filtered view is a window onto the
// original ranking, not a re-ranking.
func Apply(t *table.ComboTable, f Filter) *table.ComboTable {
	out := &table.ComboTable{AttrColumns: t.AttrColumns}
	for _, r := range t.Rows {
		if r.Purchasers < f.MinPurchasers {
			continue
		}
		if r.Conversion < f.MinConversion {
			continue
		}
		if f.ComboSizeMin > 0 && r.ComboSize < f.ComboSizeMin {
			continue
		}
		if f.ComboSizeMax > 0 && r.ComboSize > f.ComboSizeMax {
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Search returns rows where any stringified cell contains the query,
// case-insensitively.
func Search(t *table.ComboTable, query string) *table.ComboTable {
	q := strings.ToLower(strings.TrimSpace(query))
	out := &table.ComboTable{AttrColumns: t.AttrColumns}
	if q == "" {
		out.Rows = append(out.Rows, t.Rows...)
		return out
	}
	for _, r := range t.Rows {
		if rowMatches(t, r, q) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func rowMatches(t *table.ComboTable, r table.ComboRow, q string) bool {
	cells := []string{
		fmt.Sprint(r.Rank), fmt.Sprint(r.ComboSize), fmt.Sprint(r.Visitors),
		fmt.Sprint(r.Purchasers), fmt.Sprintf("%.2f", r.Conversion), fmt.Sprint(r.MinVisitors),
	}
	for _, a := range t.AttrColumns {
		cells = append(cells, r.Attr(a))
	}
	for _, c := range cells {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// TopN returns the first n rows (the table is already rank-ordered).
func TopN(t *table.ComboTable, n int) *table.ComboTable {
	out := &table.ComboTable{AttrColumns: t.AttrColumns}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out.Rows = append(out.Rows, t.Rows[:n]...)
	return out
}

// CategoryTotal is one aggregate bucket of GroupTotals.
type CategoryTotal struct {
	Value      string
	Purchasers int
	Visitors   int
}

// GroupTotals sums purchasers and visitors per category of one
// demographic column, descending by purchasers. Unset values are
// excluded rather than grouped as their own category.
func GroupTotals(t *table.ComboTable, column string) ([]CategoryTotal, error) {
	if !t.HasAttr(column) {
		return nil, fmt.Errorf("unknown demographic column %q (have: %s)",
			column, strings.Join(t.AttrColumns, ", "))
	}
	totals := map[string]*CategoryTotal{}
	var order []string
	for _, r := range t.Rows {
		v := r.Attr(column)
		if v == "" {
			continue
		}
		ct := totals[v]
		if ct == nil {
			ct = &CategoryTotal{Value: v}
			totals[v] = ct
			order = append(order, v)
		}
		ct.Purchasers += r.Purchasers
		ct.Visitors += r.Visitors
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, v := range order {
		out = append(out, *totals[v])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Purchasers > out[j].Purchasers
	})
	return out, nil
}
