package ingest

import (
	"log/slog"
	"math"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// Options tunes pipeline heuristics. Zero values fall back to defaults.
type Options struct {
	// MinVisitors fills the Min Visitors column when the source file
	// carries neither the column nor a metadata hint.
	MinVisitors int
	// BaselineConversion is the assumed conversion rate when a shape
	// has no visitor data and must estimate it from purchases.
	BaselineConversion float64
	// MaxGroupColumns caps how many demographic columns a grouping
	// transformer will use.
	MaxGroupColumns int
	// PreviewLines bounds the raw-content preview attached to
	// structural failures.
	PreviewLines int
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		MinVisitors:        40,
		BaselineConversion: 0.05,
		MaxGroupColumns:    5,
		PreviewLines:       10,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinVisitors <= 0 {
		o.MinVisitors = d.MinVisitors
	}
	if o.BaselineConversion <= 0 {
		o.BaselineConversion = d.BaselineConversion
	}
	if o.MaxGroupColumns <= 0 {
		o.MaxGroupColumns = d.MaxGroupColumns
	}
	if o.PreviewLines <= 0 {
		o.PreviewLines = d.PreviewLines
	}
	return o
}

// Run executes the full pipeline on one upload: load, repair, classify,
// transform, normalize. It returns the canonical table and the run's
// diagnostics, or a single failure value; no partial table is ever
// returned.
func Run(data []byte, filename string, opts Options) (*table.ComboTable, *Diagnostics, error) {
	opts = opts.withDefaults()
	diag := newDiagnostics(filename)

	raw, err := loadAny(data, filename)
	if err != nil {
		return nil, diag, err
	}
	hdr := DetectHeaders(raw)

	var t *table.ComboTable
	var tag FormatTag
	switch {
	case hdr.ExcelHeaderRow > 0:
		tag = FormatExcelMultiHead
		t, err = transformExcelMultiHeader(raw, hdr, data, opts, diag)
	case hdr.MultiTable():
		tag = FormatMultiTableAttrs
		t, err = transformMultiTable(raw, hdr, opts, diag)
	default:
		grid := Repair(ApplyBestHeader(raw, diag), diag)
		tag = Classify(grid, hdr)
		t, err = dispatch(tag, grid, opts, diag)
	}
	diag.Format = tag
	diag.Infof("detected format: %s", tag)
	if err != nil {
		return nil, diag, err
	}

	if err := finalize(t, tag, opts, diag); err != nil {
		return nil, diag, err
	}
	slog.Debug("pipeline complete", "run", diag.RunID, "format", tag, "rows", len(t.Rows))
	return t, diag, nil
}

// Detect runs only load + repair + classify, for callers that want the
// format and repair diagnostics without a transformation.
func Detect(data []byte, filename string) (FormatTag, *table.ColumnGrid, *Diagnostics, error) {
	diag := newDiagnostics(filename)
	raw, err := loadAny(data, filename)
	if err != nil {
		return FormatUnknown, nil, diag, err
	}
	hdr := DetectHeaders(raw)
	grid := Repair(ApplyBestHeader(raw, diag), diag)
	tag := Classify(grid, hdr)
	diag.Format = tag
	if hdr.ExcelHeaderRow > 0 {
		diag.Infof("buried header at row %d", hdr.ExcelHeaderRow)
	}
	if hdr.MultiTable() {
		diag.Infof("found %d stacked attribute tables", len(hdr.TableStarts))
	}
	return tag, grid, diag, nil
}

func loadAny(data []byte, filename string) (*table.RawTable, error) {
	if IsXLSX(filename) {
		return LoadRawXLSX(data)
	}
	return LoadRaw(data, filename)
}

func dispatch(tag FormatTag, grid *table.ColumnGrid, opts Options, diag *Diagnostics) (*table.ComboTable, error) {
	switch tag {
	case FormatCombo:
		return transformCombo(grid, opts, diag)
	case FormatShopify:
		return transformShopify(grid, opts, diag)
	case FormatGenderAnalysis:
		return transformGenderAnalysis(grid, opts, diag)
	case FormatPurchaseEmail:
		return transformPurchaseEmail(grid, opts, diag)
	case FormatUUIDEnriched:
		return transformUUIDEnriched(grid, opts, diag)
	case FormatAttrConversion:
		return transformAttributeConversion(grid, opts, diag)
	default:
		return transformFallback(grid, opts, diag)
	}
}

// finalize enforces the output invariants: every metric present, rank
// dense in sort order, supplied-vs-recomputed conversion mismatches
// flagged but not overwritten.
func finalize(t *table.ComboTable, tag FormatTag, opts Options, diag *Diagnostics) error {
	if len(t.Rows) == 0 {
		return &EmptyResultError{Stage: "transformation"}
	}
	for i := range t.Rows {
		r := &t.Rows[i]
		if r.MinVisitors <= 0 {
			r.MinVisitors = opts.MinVisitors
		}
		if r.Conversion == 0 && r.Visitors > 0 && r.Purchasers > 0 {
			r.Conversion = table.Conversion(r.Purchasers, r.Visitors)
		}
		if r.Visitors > 0 {
			want := float64(r.Purchasers) / float64(r.Visitors) * 100
			if math.Abs(r.Conversion-want) >= 0.01+1e-9 {
				diag.Infof("conversion mismatch at row %d: supplied %.2f, computed %.2f (keeping supplied)",
					i+1, r.Conversion, want)
			}
		}
	}
	// The excel shape trusts the rank carried in the source file; every
	// other shape ranks by descending conversion.
	if tag == FormatExcelMultiHead {
		t.SortByRank()
		t.Reindex()
	} else {
		t.SortByConversion()
	}
	return t.Validate()
}
