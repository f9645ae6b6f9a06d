package table

import (
	"strings"
)

// RawTable is an untyped row/column grid read straight from a file,
// before any header row has been identified.
type RawTable struct {
	Rows [][]string
}

// Width returns the widest row length.
func (r *RawTable) Width() int {
	w := 0
	for _, row := range r.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Pad normalizes all rows to the table width so columns line up.
func (r *RawTable) Pad() {
	w := r.Width()
	for i, row := range r.Rows {
		if len(row) < w {
			padded := make([]string, w)
			copy(padded, row)
			r.Rows[i] = padded
		}
	}
}

// RowText concatenates a row's cells into one uppercase string for
// keyword scanning.
func RowText(row []string) string {
	return strings.ToUpper(strings.Join(row, " "))
}

// RowEmpty reports whether every cell in the row is blank after trimming.
func RowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ApplyHeader turns the raw table into a ColumnGrid using the given row
// index as the header; rows above and including it are discarded.
func (r *RawTable) ApplyHeader(headerRow int) *ColumnGrid {
	r.Pad()
	if headerRow >= len(r.Rows) {
		return &ColumnGrid{}
	}
	cols := make([]string, len(r.Rows[headerRow]))
	for i, c := range r.Rows[headerRow] {
		cols[i] = CleanName(c)
	}
	g := &ColumnGrid{Columns: cols}
	for _, row := range r.Rows[headerRow+1:] {
		if RowEmpty(row) {
			continue
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// ColumnGrid is a table with a header row applied. Column names may be
// temporarily non-unique until repair runs. All rows have len(Columns) cells.
type ColumnGrid struct {
	Columns []string
	Rows    [][]string
}

// ColIndex returns the index of the named column, or -1.
func (g *ColumnGrid) ColIndex(name string) int {
	for i, c := range g.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col); empty when out of range.
func (g *ColumnGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(g.Rows[row][col])
}

// Select returns a copy of the grid keeping only columns whose index
// passes keep, preserving order.
func (g *ColumnGrid) Select(keep func(i int, name string) bool) *ColumnGrid {
	var idx []int
	out := &ColumnGrid{}
	for i, name := range g.Columns {
		if keep(i, name) {
			idx = append(idx, i)
			out.Columns = append(out.Columns, name)
		}
	}
	for _, row := range g.Rows {
		nr := make([]string, len(idx))
		for j, i := range idx {
			if i < len(row) {
				nr[j] = row[i]
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// FilterRows returns a copy keeping only rows that pass keep.
func (g *ColumnGrid) FilterRows(keep func(row []string) bool) *ColumnGrid {
	out := &ColumnGrid{Columns: g.Columns}
	for _, row := range g.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Rename replaces a column name in place. The first occurrence wins.
func (g *ColumnGrid) Rename(from, to string) bool {
	if i := g.ColIndex(from); i >= 0 {
		g.Columns[i] = to
		return true
	}
	return false
}

// CleanName normalizes a column name: trims whitespace, flattens
// newlines, and collapses doubled spaces.
func CleanName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
