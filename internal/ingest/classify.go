package ingest

import (
	"strings"

	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

// FormatTag names one of the known upload shapes.
type FormatTag string

const (
	FormatCombo           FormatTag = "combo"
	FormatShopify         FormatTag = "shopify"
	FormatGenderAnalysis  FormatTag = "gender_analysis"
	FormatPurchaseEmail   FormatTag = "purchase_email"
	FormatUUIDEnriched    FormatTag = "uuid_enriched"
	FormatExcelMultiHead  FormatTag = "excel_multi_header"
	FormatMultiTableAttrs FormatTag = "multi_table_attributes"
	FormatAttrConversion  FormatTag = "attribute_conversion"
	FormatUnknown         FormatTag = "unknown"
)

// Classify assigns exactly one FormatTag to a repaired grid. The rules
// run in a fixed priority order and the first match wins; several
// predicates overlap, so the order matters.
func Classify(g *table.ColumnGrid, hdr HeaderInfo) FormatTag {
	upper := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		upper[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	joined := strings.Join(upper, " ")
	has := func(name string) bool {
		for _, c := range upper {
			if c == name {
				return true
			}
		}
		return false
	}

	// 1. Buried excel-style header outranks everything.
	if hdr.ExcelHeaderRow > 0 {
		return FormatExcelMultiHead
	}
	// 2. Stacked attribute tables.
	if hdr.MultiTable() {
		return FormatMultiTableAttrs
	}
	// 3. Already canonical.
	if has("RANK") && has("COMBO SIZE") && has("VISITORS") && has("PURCHASERS") {
		return FormatCombo
	}
	// 4. Per-attribute analysis export.
	for _, ind := range []string{"ATTRIBUTE VISITORS", "PURCHASERS", "CONVERSION"} {
		if strings.Contains(joined, ind) {
			return FormatGenderAnalysis
		}
	}
	// 5. Purchase log with demographics.
	if has("PURCHASE") && containsAny(joined, []string{"AGE_RANGE", "GENDER", "INCOME"}) {
		return FormatPurchaseEmail
	}
	// 6. Enriched person-level records.
	if has("UUID") || strings.Contains(joined, "SKIPTRACE") || has("FIRST_NAME") {
		return FormatUUIDEnriched
	}
	// 7. Storefront export.
	hits := 0
	for _, ind := range shopifyKeywords {
		if strings.Contains(joined, ind) {
			hits++
		}
	}
	if hits >= 2 {
		return FormatShopify
	}
	// 8-9. Generic demographic heuristics.
	hasDemo := containsAny(joined, []string{"AGE", "GENDER", "INCOME", "STATE", "MARRIED"})
	hasOrder := containsAny(joined, orderKeywords)
	if hasDemo && hasOrder {
		return FormatShopify
	}
	if hasDemo {
		return FormatPurchaseEmail
	}
	// 10. A narrow value/metrics table.
	if len(g.Columns) >= 3 && len(g.Columns) <= 5 {
		hasValue := false
		for _, c := range upper {
			if strings.Contains(c, "VALUE") {
				hasValue = true
				break
			}
		}
		if hasValue && strings.Contains(joined, "VISITORS") && strings.Contains(joined, "PURCHASERS") {
			return FormatAttrConversion
		}
	}
	return FormatUnknown
}

// ColumnBuckets sorts a grid's columns into metric, demographic, and
// other groups. Inspection tooling uses this to summarize what a file
// would contribute to a combo table.
func ColumnBuckets(g *table.ColumnGrid) (metric, demographic, other []string) {
	for _, name := range g.Columns {
		switch {
		case isMetricName(name):
			metric = append(metric, name)
		case isDemographicName(name):
			demographic = append(demographic, name)
		default:
			other = append(other, name)
		}
	}
	return metric, demographic, other
}
