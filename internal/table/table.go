// Package table finds the item table among reconstructed lines and
// tokenizes its rows.
package table

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/invoicegest/internal/currency"
	"github.com/dgallion1/invoicegest/internal/layout"
	"github.com/dgallion1/invoicegest/internal/patterns"
)

// Item is one line item of the invoice table.
type Item struct {
	ID        string  `json:"item"`
	Reference string  `json:"reference"`
	Concept   string  `json:"concept"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	Rate      float64 `json:"rate"`
	Total     float64 `json:"total"`
}

const (
	maxIndexScan    = 6
	maxTotalScan    = 3
	maxIDLen        = 3
	maxUnitLen      = 6
	maxReferenceLen = 5
	minConceptLen   = 2
)

// Parse walks lines with a two-state machine. A header line opens the
// table and a terminator line closes it; neither is parsed as a row. The
// table may open again after closing.
func Parse(cat *patterns.Catalog, lines []layout.Line) []Item {
	var items []Item
	inTable := false
	for _, l := range lines {
		if !inTable {
			if cat.IsTableHeader(l.Text) {
				inTable = true
			}
			continue
		}
		if cat.IsTerminator(l.Text) {
			inTable = false
			continue
		}
		if it, ok := ParseRow(cat, l.Text); ok {
			items = append(items, it)
		}
	}
	return items
}

// ParseRow tokenizes a single table row. It reports false for anything
// that does not look like an item: totals lines, rows without a positive
// trailing amount, or rows whose concept is too short.
func ParseRow(cat *patterns.Catalog, line string) (Item, bool) {
	if cat.IsTerminator(line) {
		return Item{}, false
	}
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return Item{}, false
	}

	tokens = tokens[startIndex(tokens):]
	if len(tokens) < 2 {
		return Item{}, false
	}

	var it Item

	// Trailing columns, right to left.
	cur := len(tokens) - 1
	found := false
	for i := 0; i < maxTotalScan && cur >= 0; i++ {
		tok := tokens[cur]
		cur--
		if v := currency.Clean(tok); v > 0 && currency.IsNumeric(tok) {
			it.Total = v
			found = true
			break
		}
	}
	if !found {
		return Item{}, false
	}
	if cur >= 0 && currency.IsNumeric(tokens[cur]) {
		it.Rate = currency.Clean(tokens[cur])
		cur--
	}
	if cur >= 0 && currency.IsNumeric(tokens[cur]) {
		it.Quantity = currency.Quantity(tokens[cur])
		cur--
	}
	if cur >= 0 && utf8.RuneCountInString(tokens[cur]) <= maxUnitLen && !currency.IsNumeric(tokens[cur]) {
		it.Unit = tokens[cur]
		cur--
	}

	// Leading columns, left to right.
	start := 0
	if start <= cur && isSmallIndex(tokens[start]) {
		it.ID = tokens[start]
		start++
	}
	if start <= cur && isReference(tokens[start]) {
		it.Reference = tokens[start]
		start++
	}

	if start <= cur {
		it.Concept = strings.TrimSpace(strings.Join(tokens[start:cur+1], " "))
	}
	it.Concept = strings.Trim(it.Concept, " .-,")

	if cat.IsTerminator(it.Concept) || utf8.RuneCountInString(it.Concept) < minConceptLen {
		return Item{}, false
	}
	return it, true
}

// startIndex returns the offset of the first real column. A short row
// index within the first tokens wins; otherwise single-character junk is
// skipped, keeping at least two tokens.
func startIndex(tokens []string) int {
	for i := 0; i < len(tokens) && i < maxIndexScan; i++ {
		if isSmallIndex(tokens[i]) {
			return i
		}
	}
	i := 0
	for i < len(tokens)-2 && isJunk(tokens[i]) {
		i++
	}
	return i
}

func isJunk(tok string) bool {
	if utf8.RuneCountInString(tok) != 1 || isDigits(tok) {
		return false
	}
	lower := strings.ToLower(tok)
	return lower != "a" && lower != "y"
}

func isSmallIndex(tok string) bool {
	return isDigits(tok) && utf8.RuneCountInString(tok) <= maxIDLen
}

func isReference(tok string) bool {
	if utf8.RuneCountInString(tok) > maxReferenceLen {
		return false
	}
	return isUpper(tok) || strings.ContainsFunc(tok, unicode.IsDigit)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isUpper reports whether s has at least one cased letter and no lower-case
// ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
