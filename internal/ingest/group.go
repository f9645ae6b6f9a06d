package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// segment accumulates one group-by bucket: the demographic values that
// key it, a purchase count, and the distinct identifier values seen.
type segment struct {
	values   []string
	count    int
	distinct map[string]struct{}
}

// groupBy buckets grid rows by the given demographic column indexes,
// preserving first-seen order so output is deterministic. When idCol is
// >= 0 the distinct non-empty values of that column are tracked per
// bucket (the visitor count for shapes that carry an identifier).
func groupBy(g *table.ColumnGrid, demoIdx []int, idCol int) []*segment {
	order := []*segment{}
	index := map[string]*segment{}
	for r := range g.Rows {
		parts := make([]string, len(demoIdx))
		for i, c := range demoIdx {
			parts[i] = g.Cell(r, c)
		}
		key := strings.Join(parts, "\x1f")
		s := index[key]
		if s == nil {
			s = &segment{values: parts, distinct: map[string]struct{}{}}
			index[key] = s
			order = append(order, s)
		}
		s.count++
		if idCol >= 0 {
			if v := g.Cell(r, idCol); v != "" {
				s.distinct[v] = struct{}{}
			}
		}
	}
	return order
}

// groupedTable builds a ComboTable from grouped segments. Visitors come
// from the distinct identifier count when useDistinct is set, otherwise
// they are estimated from the purchase count and the baseline
// conversion rate.
func groupedTable(demoCols []string, segs []*segment, useDistinct bool, opts Options) *table.ComboTable {
	t := &table.ComboTable{AttrColumns: demoCols}
	for _, s := range segs {
		row := table.ComboRow{
			ComboSize:   len(demoCols),
			Purchasers:  s.count,
			MinVisitors: opts.MinVisitors,
			Attrs:       map[string]string{},
		}
		if useDistinct {
			row.Visitors = len(s.distinct)
		} else {
			row.Visitors = estimateVisitors(s.count, opts)
		}
		row.Conversion = table.Conversion(row.Purchasers, row.Visitors)
		for i, c := range demoCols {
			row.Attrs[c] = s.values[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// estimateVisitors backs out a visitor count from purchases using the
// configured baseline conversion rate (default 5%).
func estimateVisitors(purchasers int, opts Options) int {
	rate := opts.BaselineConversion
	if rate <= 0 {
		rate = 0.05
	}
	return int(float64(purchasers) / rate)
}

// groupableColumns is the last-resort fallback when no keyword matched:
// any column outside the skip list whose cardinality is below 80% of
// the row count, capped at max columns. Kept as an explicit branch so
// callers can tell keyword matches from fallback matches.
func groupableColumns(g *table.ColumnGrid, max int) []string {
	var out []string
	for i, name := range g.Columns {
		if containsAny(name, identifierSkipKeywords) {
			continue
		}
		distinct := map[string]struct{}{}
		for r := range g.Rows {
			distinct[g.Cell(r, i)] = struct{}{}
		}
		if len(g.Rows) > 0 && float64(len(distinct)) < float64(len(g.Rows))*0.8 {
			out = append(out, name)
			if len(out) >= max {
				break
			}
		}
	}
	return out
}

func colIndexes(g *table.ColumnGrid, names []string) []int {
	out := make([]int, 0, len(names))
	for _, n := range names {
		if i := g.ColIndex(n); i >= 0 {
			out = append(out, i)
		}
	}
	return out
}
