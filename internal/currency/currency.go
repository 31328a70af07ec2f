// Package currency turns amount and quantity strings as they appear on
// Colombian utility invoices into float64 values.
package currency

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// Digits split across layout positions, e.g. "2 9 , 7 6 0".
	splitDigits = regexp.MustCompile(`\d\s+\d`)

	symbolStripper = strings.NewReplacer(
		"$", "",
		"€", "",
		"£", "",
		"COP", "",
		"USD", "",
		"EUR", "",
	)

	numericStripper = strings.NewReplacer(
		"$", "",
		",", "",
		".", "",
		" ", "",
	)
)

// Clean converts a raw amount string to a number. It never fails: anything
// that cannot be read as a number yields 0.
//
// Commas are always thousands separators. When more than one period is left
// every period is taken as a thousands separator too, so "1.234.567" reads
// as 1234567; a single period is the decimal point. A value such as
// "1.234.56" is therefore read as 123456.
func Clean(raw string) float64 {
	s := strings.ToUpper(raw)
	s = symbolStripper.Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if splitDigits.MatchString(s) {
		s = strings.Join(strings.Fields(s), "")
	}
	s = strings.ReplaceAll(s, ",", "")
	if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Quantity cleans a quantity (kWh, units). Quantities follow the same
// rules as amounts.
func Quantity(raw string) float64 {
	return Clean(raw)
}

// Value accepts either an already numeric value, returned as float64, or a
// string run through Clean. Any other type yields 0.
func Value(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return Clean(x)
	default:
		return 0
	}
}

// IsNumeric reports whether a token looks like a raw number: it contains
// at least one digit and nothing but digits once currency signs, commas,
// periods and spaces are removed.
func IsNumeric(token string) bool {
	if !strings.ContainsFunc(token, unicode.IsDigit) {
		return false
	}
	stripped := numericStripper.Replace(token)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
