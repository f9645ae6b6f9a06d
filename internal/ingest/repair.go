package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// HeaderInfo carries what structural repair learned about the raw grid:
// where the real header row is and any metadata buried above it.
type HeaderInfo struct {
	// ExcelHeaderRow is the 0-based index of a buried combo header, or
	// -1 when the header is at row 0 as usual.
	ExcelHeaderRow int
	// MinVisitors is the threshold extracted from metadata rows, 0 when
	// absent.
	MinVisitors int
	// TableStarts lists detected stacked attribute tables, in file order.
	TableStarts []TableStart
}

// TableStart marks one stacked attribute table inside a multi-table file.
type TableStart struct {
	AttributeName string
	HeaderRow     int
	DataStart     int
}

// MultiTable reports whether enough stacked tables were found to treat
// the file as multi-table.
func (h HeaderInfo) MultiTable() bool { return len(h.TableStarts) >= 2 }

var digitsRe = regexp.MustCompile(`\d+`)

// DetectHeaders scans the raw grid for the two buried-header patterns.
// Excel-style detection takes priority; both results are recorded so
// the classifier can apply its own ordering.
func DetectHeaders(raw *table.RawTable) HeaderInfo {
	info := HeaderInfo{ExcelHeaderRow: -1}
	info.ExcelHeaderRow, info.MinVisitors = detectExcelHeader(raw)
	info.TableStarts = detectTableStarts(raw)
	return info
}

// detectExcelHeader looks in the first 5 rows for a combo header buried
// under metadata rows. Returns (-1, 0) when the file is not excel-style.
func detectExcelHeader(raw *table.RawTable) (headerRow, minVisitors int) {
	if len(raw.Rows) < 4 {
		return -1, 0
	}
	limit := 5
	if len(raw.Rows) < limit {
		limit = len(raw.Rows)
	}
	for idx := 0; idx < limit; idx++ {
		text := table.RowText(raw.Rows[idx])
		if !strings.Contains(text, "RANK") || !strings.Contains(text, "VISITORS") || !strings.Contains(text, "PURCHASERS") {
			continue
		}
		if idx == 0 {
			// Header in first row is the normal case, not excel-style.
			return -1, 0
		}
		// Rows above the header are metadata; mine them for the
		// min-visitors threshold.
		for meta := 0; meta < idx; meta++ {
			metaText := table.RowText(raw.Rows[meta])
			if strings.Contains(metaText, "MIN") && strings.Contains(metaText, "VISITOR") {
				if m := digitsRe.FindString(metaText); m != "" {
					if n, err := strconv.Atoi(m); err == nil {
						return idx, n
					}
				}
			}
		}
		return idx, 0
	}
	return -1, 0
}

// detectTableStarts finds stacked attribute tables: a row naming a
// demographic attribute immediately followed by a Value/Visitors/
// Purchasers header row.
func detectTableStarts(raw *table.RawTable) []TableStart {
	if len(raw.Rows) < 10 {
		return nil
	}
	var starts []TableStart
	for idx := 0; idx+1 < len(raw.Rows); idx++ {
		text := table.RowText(raw.Rows[idx])
		if !containsAny(text, attributeTableKeywords) {
			continue
		}
		next := table.RowText(raw.Rows[idx+1])
		if strings.Contains(next, "VALUE") && strings.Contains(next, "VISITORS") && strings.Contains(next, "PURCHASERS") {
			name := strings.TrimSpace(raw.Rows[idx][0])
			if name == "" {
				name = fmt.Sprintf("ATTRIBUTE_%d", idx)
			}
			starts = append(starts, TableStart{
				AttributeName: name,
				HeaderRow:     idx + 1,
				DataStart:     idx + 2,
			})
		}
	}
	return starts
}

// mergedArtifactHeader reports whether row 0 looks like a merged-cell
// title: at most 2 cells containing letters, with real data below.
func mergedArtifactHeader(raw *table.RawTable) bool {
	if len(raw.Rows) < 3 {
		return false
	}
	letters := 0
	for _, c := range raw.Rows[0] {
		if strings.ContainsFunc(c, func(r rune) bool {
			return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		}) {
			letters++
		}
	}
	return letters <= 2
}

// Repair cleans a ColumnGrid in place order: phantom columns out,
// duplicate names suffixed, empty rows dropped.
func Repair(g *table.ColumnGrid, diag *Diagnostics) *table.ColumnGrid {
	// Phantom columns: artifact names first, then fully-empty columns.
	dropped := 0
	out := g.Select(func(i int, name string) bool {
		if isPhantomName(name) {
			dropped++
			return false
		}
		return true
	})
	out = out.Select(func(i int, name string) bool {
		for _, row := range out.Rows {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				return true
			}
		}
		dropped++
		return false
	})
	if dropped > 0 && diag != nil {
		diag.Infof("dropped %d phantom column(s)", dropped)
	}

	// Deduplicate names: first occurrence keeps the name, later ones
	// get _1, _2, ... in order of appearance.
	seen := map[string]int{}
	renamed := 0
	for i, name := range out.Columns {
		n := seen[name]
		seen[name] = n + 1
		if n > 0 {
			out.Columns[i] = fmt.Sprintf("%s_%d", name, n)
			renamed++
		}
	}
	if renamed > 0 && diag != nil {
		diag.Infof("renamed %d duplicate column(s)", renamed)
	}

	out = out.FilterRows(func(row []string) bool { return !table.RowEmpty(row) })
	return out
}

// ApplyBestHeader turns a raw table into a ColumnGrid when no buried
// header fired: header = row 0, or row 1 when row 0 is a merged-cell
// artifact.
func ApplyBestHeader(raw *table.RawTable, diag *Diagnostics) *table.ColumnGrid {
	headerRow := 0
	if mergedArtifactHeader(raw) {
		headerRow = 1
		if diag != nil {
			diag.Infof("row 0 looks like a merged-cell title; using row 1 as header")
		}
	}
	return raw.ApplyHeader(headerRow)
}
