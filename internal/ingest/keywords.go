package ingest

import "strings"

// Keyword sets used by the classifier and transformers. These are kept
// as package-level ordered lists so match priority is reproducible and
// each predicate can be tested on its own.

// demographicKeywords mark a column as a demographic dimension.
var demographicKeywords = []string{
	"AGE_RANGE", "AGE", "GENDER", "MARRIED", "INCOME_RANGE", "INCOME",
	"NET_WORTH", "HOMEOWNER", "HOME_OWNER", "CHILDREN", "STATE", "PROVINCE",
	"CREDIT", "SKIPTRACE", "EDUCATION", "OCCUPATION", "ETHNICITY",
}

// attributeTableKeywords mark a row as the name line of a stacked
// attribute table.
var attributeTableKeywords = []string{
	"SKIPTRACE", "DEPARTMENT", "SENIORITY", "AGE", "INCOME",
	"CREDIT", "ETHNIC", "GENDER", "STATE", "MARRIED",
}

// attributeBreakKeywords end the data range of a stacked attribute
// table when they appear mid-scan.
var attributeBreakKeywords = []string{
	"HOMEOWNER", "CREDIT", "ETHNIC", "MARITAL", "MARRIED",
	"CHILDREN", "EDUCATION", "VEHICLE", "LANGUAGE", "OCCUPATION",
}

// orderKeywords mark order/transaction columns that must never be used
// as grouping dimensions.
var orderKeywords = []string{
	"ORDER", "PURCHASE", "QUANTITY", "TOTAL", "PRICE",
}

// shopifyKeywords identify a raw storefront export.
var shopifyKeywords = []string{
	"ORDER", "BILLING", "LINEITEM", "PAID", "SHIPPING",
}

// identifierSkipKeywords are columns excluded from grouping fallbacks:
// identifiers, money fields, and shipping plumbing.
var identifierSkipKeywords = []string{
	"PURCHASE", "EMAIL", "ORDER", "PAID", "SUBTOTAL", "TOTAL",
	"DISCOUNT", "SHIPPING", "BILLING", "LINEITEM", "QUANTITY",
	"PRODUCT", "SALE", "PRICE", "SKU", "ZIP", "PHONE", "NOTES",
	"UUID", "FIRST_NAME", "LAST_NAME", "ADDRESS", "CITY",
	"PAYMENT", "TAGS",
}

// summaryKeywords identify total/aggregate rows that must be stripped
// before ranking.
var summaryKeywords = []string{
	"grand total", "subtotal", "total", "sum", "average", "all", "overall",
}

// valueSummaryKeywords identify summary rows in Value columns of
// attribute tables.
var valueSummaryKeywords = []string{
	"blank", "unk", "unknown", "total", "sum", "average", "all",
}

// enrichedPriorityColumns is the fixed priority list of enriched
// demographic field names, most useful first.
var enrichedPriorityColumns = []string{
	"AGE_RANGE", "GENDER", "INCOME_RANGE", "NET_WORTH", "MARRIED",
	"HOMEOWNER", "CHILDREN", "PERSONAL_STATE", "COMPANY_INDUSTRY",
	"SKIPTRACE_CREDIT_RATING", "SKIPTRACE_ETHNIC_CODE",
}

// containsAny reports whether the uppercased input contains any of the
// given uppercase keywords as a substring.
func containsAny(s string, keywords []string) bool {
	u := strings.ToUpper(s)
	for _, k := range keywords {
		if strings.Contains(u, k) {
			return true
		}
	}
	return false
}

// matchKeyword returns the first keyword contained in the uppercased
// input, preserving list priority.
func matchKeyword(s string, keywords []string) (string, bool) {
	u := strings.ToUpper(s)
	for _, k := range keywords {
		if strings.Contains(u, k) {
			return k, true
		}
	}
	return "", false
}

// isDemographicName reports whether a column name looks like a
// demographic dimension and is not an identifier column.
func isDemographicName(name string) bool {
	return containsAny(name, demographicKeywords) && !containsAny(name, identifierSkipKeywords)
}

// isSummaryValue reports whether a group label is a total/aggregate row
// rather than a real category.
func isSummaryValue(v string, keywords []string) bool {
	l := strings.ToLower(v)
	for _, k := range keywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}

// isMetricName reports whether a column name belongs to the metric side
// of an analysis export rather than the grouping side.
func isMetricName(name string) bool {
	return containsAny(name, []string{"VISITORS", "PURCHASERS", "CONVERSION"})
}

// isPhantomName reports whether a column name is a spreadsheet artifact.
func isPhantomName(name string) bool {
	u := strings.ToUpper(strings.TrimSpace(name))
	return u == "" || strings.Contains(u, "NAN") || strings.Contains(u, "UNNAMED")
}
