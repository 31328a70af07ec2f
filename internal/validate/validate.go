// Package validate cross-checks extracted items against declared totals.
package validate

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dgallion1/invoicegest/internal/fields"
	"github.com/dgallion1/invoicegest/internal/patterns"
	"github.com/dgallion1/invoicegest/internal/table"
)

// Tolerance is the largest accepted difference, in currency units, between
// the item sum and the declared total.
const Tolerance = 100.0

// Report is the outcome of validating one invoice.
type Report struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	InvoiceNumber string   `json:"invoice_number"`
}

// Check validates the extracted fields and items. The arithmetic check only
// runs when items were found; the declared total is the billed total, or
// the payable total when the billed one is zero or absent.
func Check(set *fields.Set, items []table.Item) Report {
	r := Report{
		Errors:        []string{},
		InvoiceNumber: set.Text(patterns.InvoiceNumber),
	}

	if !set.Has(patterns.InvoiceNumber) {
		r.Errors = append(r.Errors, "invoice number not found")
	}

	if len(items) > 0 {
		var sum float64
		for _, it := range items {
			sum += it.Total
		}
		declared := set.Number(patterns.TotalBilled)
		if declared == 0 {
			declared = set.Number(patterns.TotalPayable)
		}
		if declared > 0 && math.Abs(sum-declared) > Tolerance {
			p := message.NewPrinter(language.English)
			r.Errors = append(r.Errors,
				p.Sprintf("total mismatch: item sum (%.2f) != declared total (%.2f)", sum, declared))
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}
