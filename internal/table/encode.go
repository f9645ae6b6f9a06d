package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes the table in canonical column order: the six metric
// columns then the demographic columns.
func (t *ComboTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range t.Rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.ComboSize),
			strconv.Itoa(r.Visitors),
			strconv.Itoa(r.Purchasers),
			strconv.FormatFloat(r.Conversion, 'f', 2, 64),
			strconv.Itoa(r.MinVisitors),
		}
		for _, a := range t.AttrColumns {
			rec = append(rec, r.Attr(a))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", r.Rank, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders a compact table preview suitable for terminals.
func (t *ComboTable) Markdown(maxRows int) string {
	var b strings.Builder
	cols := t.Columns()
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	n := len(t.Rows)
	if maxRows > 0 && n > maxRows {
		n = maxRows
	}
	for _, r := range t.Rows[:n] {
		cells := []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.ComboSize),
			strconv.Itoa(r.Visitors),
			strconv.Itoa(r.Purchasers),
			strconv.FormatFloat(r.Conversion, 'f', 2, 64),
			strconv.Itoa(r.MinVisitors),
		}
		for _, a := range t.AttrColumns {
			cells = append(cells, safeCell(r.Attr(a)))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if n < len(t.Rows) {
		b.WriteString(fmt.Sprintf("… %d more row(s)\n", len(t.Rows)-n))
	}
	return b.String()
}

func safeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
