package table

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a cell that may carry spreadsheet decoration:
// percent signs, dollar signs, thousands commas, surrounding whitespace.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "$", "")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseCount parses a non-negative integer-ish cell, truncating any
// fractional part a spreadsheet export introduced.
func ParseCount(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok || f < 0 {
		return 0, false
	}
	return int(f), true
}

// Round2 rounds to two decimal places, matching the precision carried
// in exported conversion columns.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Conversion computes purchasers/visitors as a percentage, rounded to
// two decimals. Returns 0 when visitors is 0.
func Conversion(purchasers, visitors int) float64 {
	if visitors <= 0 {
		return 0
	}
	return Round2(float64(purchasers) / float64(visitors) * 100)
}

// unsetValues are cell contents that mean "no constraint on this
// dimension" rather than a real category label.
var unsetValues = map[string]struct{}{
	"":        {},
	"nan":     {},
	"none":    {},
	"n/a":     {},
	"unknown": {},
}

// IsUnset reports whether a demographic cell should be treated as empty.
func IsUnset(s string) bool {
	_, ok := unsetValues[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
