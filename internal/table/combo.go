package table

import (
	"fmt"
	"sort"
)

// Canonical metric column names, in output order.
const (
	ColRank        = "Rank"
	ColComboSize   = "Combo Size"
	ColVisitors    = "Visitors"
	ColPurchasers  = "Purchasers"
	ColConversion  = "Conversion %"
	ColMinVisitors = "Min Visitors"
)

// MetricColumns lists the six canonical metric columns in output order.
var MetricColumns = []string{ColRank, ColComboSize, ColVisitors, ColPurchasers, ColConversion, ColMinVisitors}

// ComboRow is one ranked demographic segment.
type ComboRow struct {
	Rank        int
	ComboSize   int
	Visitors    int
	Purchasers  int
	Conversion  float64
	MinVisitors int
	// Attrs holds demographic dimension values keyed by column name.
	// A missing or unset entry means "no constraint on this dimension".
	Attrs map[string]string
}

// Attr returns the row's value for a demographic column, with unset
// equivalents normalized to the empty string.
func (r ComboRow) Attr(name string) string {
	v := r.Attrs[name]
	if IsUnset(v) {
		return ""
	}
	return v
}

// ComboTable is the canonical pipeline output: ranked segments plus an
// ordered list of the demographic columns present across rows.
type ComboTable struct {
	AttrColumns []string
	Rows        []ComboRow
}

// Columns returns the full header: metric columns then demographic ones.
func (t *ComboTable) Columns() []string {
	out := make([]string, 0, len(MetricColumns)+len(t.AttrColumns))
	out = append(out, MetricColumns...)
	return append(out, t.AttrColumns...)
}

// HasAttr reports whether the table carries the named demographic column.
func (t *ComboTable) HasAttr(name string) bool {
	for _, c := range t.AttrColumns {
		if c == name {
			return true
		}
	}
	return false
}

// SortByConversion stable-sorts rows by descending conversion, ties
// keeping original order, then reassigns dense ranks 1..N.
func (t *ComboTable) SortByConversion() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Conversion > t.Rows[j].Conversion
	})
	t.Reindex()
}

// SortByRank stable-sorts rows by ascending rank. Used for shapes that
// trust the rank carried in the source file.
func (t *ComboTable) SortByRank() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Rank < t.Rows[j].Rank
	})
}

// Reindex reassigns Rank as a dense 1..N sequence in current row order.
func (t *ComboTable) Reindex() {
	for i := range t.Rows {
		t.Rows[i].Rank = i + 1
	}
}

// Validate checks the invariants every finished table must hold: dense
// contiguous ranks and no duplicate column names.
func (t *ComboTable) Validate() error {
	seen := map[string]struct{}{}
	for _, c := range t.Columns() {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	for i, r := range t.Rows {
		if r.Rank != i+1 {
			return fmt.Errorf("rank not dense at row %d: got %d", i, r.Rank)
		}
	}
	return nil
}

// Record is a row-oriented serialization unit that round-trips every
// field including demographic columns of varying presence.
type Record map[string]any

// Records converts the table to row-oriented records.
func (t *ComboTable) Records() []Record {
	out := make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := Record{
			ColRank:        r.Rank,
			ColComboSize:   r.ComboSize,
			ColVisitors:    r.Visitors,
			ColPurchasers:  r.Purchasers,
			ColConversion:  r.Conversion,
			ColMinVisitors: r.MinVisitors,
		}
		for _, a := range t.AttrColumns {
			rec[a] = r.Attr(a)
		}
		out = append(out, rec)
	}
	return out
}

// FromRecords rebuilds a table from row-oriented records and an ordered
// demographic column list.
func FromRecords(attrCols []string, recs []Record) *ComboTable {
	t := &ComboTable{AttrColumns: attrCols}
	for _, rec := range recs {
		row := ComboRow{Attrs: map[string]string{}}
		row.Rank = asInt(rec[ColRank])
		row.ComboSize = asInt(rec[ColComboSize])
		row.Visitors = asInt(rec[ColVisitors])
		row.Purchasers = asInt(rec[ColPurchasers])
		row.Conversion = asFloat(rec[ColConversion])
		row.MinVisitors = asInt(rec[ColMinVisitors])
		for _, a := range attrCols {
			if v, ok := rec[a]; ok {
				row.Attrs[a] = fmt.Sprintf("%v", v)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		if n, ok := ParseCount(x); ok {
			return n
		}
	}
	return 0
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		if f, ok := ParseNumber(x); ok {
			return f
		}
	}
	return 0
}
