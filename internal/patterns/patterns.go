// Package patterns holds the fixed catalog of text patterns used to pull
// fields out of reconstructed invoice lines and to delimit the item table.
package patterns

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dgallion1/invoicegest/internal/currency"
)

// Category groups extractors by how their value is recovered.
type Category int

const (
	// Header extractors capture a single value (two for the billing period).
	Header Category = iota
	// Amount extractors match a label only; the value is the cleaned rest
	// of the line.
	Amount
	// Footer extractors capture a single free-text or numeric value.
	Footer
)

func (c Category) String() string {
	switch c {
	case Header:
		return "header"
	case Amount:
		return "amount"
	case Footer:
		return "footer"
	default:
		return "unknown"
	}
}

// Value is an extracted field value. Amounts carry Number; everything else
// carries Text.
type Value struct {
	Text    string
	Number  float64
	Numeric bool
}

// TextValue builds a textual Value.
func TextValue(s string) Value { return Value{Text: s} }

// NumberValue builds a numeric Value.
func NumberValue(f float64) Value { return Value{Number: f, Numeric: true} }

// Extractor recovers one field from a single line.
type Extractor struct {
	Key      Key
	Category Category
	// Customer marks keys that only apply once the customer section has
	// started.
	Customer bool

	re *regexp.Regexp
}

// Extract tries the extractor against line. It has no side effects.
func (e Extractor) Extract(line string) (Value, bool) {
	switch e.Category {
	case Amount:
		loc := e.re.FindStringIndex(line)
		if loc == nil {
			return Value{}, false
		}
		return NumberValue(currency.Clean(line[loc[1]:])), true
	default:
		m := e.re.FindStringSubmatch(line)
		if m == nil {
			return Value{}, false
		}
		if len(m) > 2 {
			return TextValue(strings.TrimSpace(m[1] + " al " + m[2])), true
		}
		return TextValue(strings.TrimSpace(m[1])), true
	}
}

// Catalog is the full, read-only pattern registry.
type Catalog struct {
	Header []Extractor
	Amount []Extractor
	Footer []Extractor

	// TableHeaders are the keywords that, two at a time, open the item table.
	TableHeaders []string
	// Terminators close the item table and reject summary rows.
	Terminators []string
	// CustomerMarkers announce the customer section.
	CustomerMarkers []string
}

var defaultCatalog = sync.OnceValue(build)

// Default returns the shared catalog. Callers must not modify it.
func Default() *Catalog {
	return defaultCatalog()
}

const date = `(\d{4}[-/]\d{2}[-/]\d{2})`

func build() *Catalog {
	header := func(k Key, expr string) Extractor {
		return Extractor{Key: k, Category: Header, re: regexp.MustCompile(`(?i)` + expr)}
	}
	customer := func(k Key, expr string) Extractor {
		e := header(k, expr)
		e.Customer = true
		return e
	}
	amount := func(k Key, expr string) Extractor {
		return Extractor{Key: k, Category: Amount, re: regexp.MustCompile(`(?i)` + expr)}
	}
	footer := func(k Key, expr string) Extractor {
		return Extractor{Key: k, Category: Footer, re: regexp.MustCompile(`(?i)` + expr)}
	}

	return &Catalog{
		Header: []Extractor{
			header(InvoiceNumber, `(?:No\.|Número)\s*(?:Factura)?\s*[:.]?\s*(\d+)`),
			header(IssueDate, `Fecha\s*expedici[óo]n\s*[:.]?\s*`+date),
			header(DueDate, `Fecha\s*vencimiento\s*[:.]?\s*`+date),
			header(BillingPeriod, `Periodo\s*Facturaci[óo]n\s*[:.]?\s*`+date+`\s*(?:A|-|hasta)\s*`+date),
			header(CUFE, `CUFE\s*[:.]?\s*([a-fA-F0-9]+)`),
			customer(CustomerName, `Señores\s*[:.]?\s*(.+?)(?:\s+(?:Direcci[óo]n|Nit|Email|No\.|Ciudad)|$)`),
			customer(CustomerTaxID, `Nit\s*[:.]?\s*([\d-]+)`),
			header(Contract, `No\.\s*Contrato\s*[:.]?\s*([A-Z0-9-]+)`),
			customer(City, `Ciudad\s*[:.]?\s*(.+?)(?:\s+(?:Tel[ée]fono|Email|No\.)|$)`),
			customer(Address, `Direcci[óo]n\s*[:.]?\s*(.+?)(?:\s+(?:Email|No\.|Ciudad|Tel[ée]fono)|$)`),
			customer(Email, `Email\s*[:.]?\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
			customer(Phone, `Tel[ée]fono\s*[:.]?\s*([\d\s()-]+)(?:\s+Concepto|$)`),
		},
		Amount: []Extractor{
			amount(TotalPayable, `TOTAL\s*A\s*PAGAR`),
			amount(TotalBilled, `TOTAL\s*FACTURADO`),
			amount(Advance, `Anticipo(?:/Prepago)?`),
			amount(Interest, `Intereses\s*financieros`),
		},
		Footer: []Extractor{
			footer(AmountInWords, `SON\s*[:.]?\s*(.+?)(?:\s+Medio|$)`),
			footer(PaymentMethod, `Medio\s*de\s*pago\s*[:.]?\s*(.+?)(?:\s+Entidad|$)`),
			footer(Bank, `Entidad\s*[:.]?\s*(.+?)(?:\s+(?:Cuenta|N[úu]mero)|$)`),
			footer(AccountType, `Cuenta\s*[:.]?\s*(.+?)(?:\s+N[úu]mero|$)`),
			footer(AccountNumber, `N[úu]mero\s*[:.]?\s*(\d+)`),
			footer(PaymentForm, `Forma\s*de\s*pago\s*[:.]?\s*(.+?)(?:\s+Observaciones|$)`),
			footer(IPP, `IPP\s*Provisional\s*[:.]?\s*([\d.,]+)`),
			footer(TRM, `TRM[^\d]*([\d.,]+)`),
			footer(Observations, `Observaciones\s*[:.]?\s*(.+)`),
		},
		TableHeaders: []string{"Item", "Concepto", "Total", "Descripción", "Referencia"},
		Terminators: []string{
			"total facturado", "total a pagar", "subtotal", "son:", "paguese",
			"anticipo", "intereses", "saldo", "total pagar", "valor a pagar",
		},
		CustomerMarkers: []string{"señores", "datos del cliente", "cliente:", "adquirente"},
	}
}

// Extractors returns every extractor in evaluation order: header, amount,
// footer.
func (c *Catalog) Extractors() []Extractor {
	out := make([]Extractor, 0, len(c.Header)+len(c.Amount)+len(c.Footer))
	out = append(out, c.Header...)
	out = append(out, c.Amount...)
	return append(out, c.Footer...)
}

// HeaderScore counts the distinct table-header keywords present in line.
func (c *Catalog) HeaderScore(line string) int {
	lower := strings.ToLower(line)
	n := 0
	for _, h := range c.TableHeaders {
		if strings.Contains(lower, strings.ToLower(h)) {
			n++
		}
	}
	return n
}

// IsTableHeader reports whether line opens the item table.
func (c *Catalog) IsTableHeader(line string) bool {
	return c.HeaderScore(line) >= 2
}

// IsTerminator reports whether line marks the end of the item table or a
// totals/summary row. Whitespace runs are collapsed before matching.
func (c *Catalog) IsTerminator(line string) bool {
	norm := strings.Join(strings.Fields(strings.ToLower(line)), " ")
	for _, t := range c.Terminators {
		if strings.Contains(norm, t) {
			return true
		}
	}
	return false
}

// IsCustomerMarker reports whether line starts the customer section.
func (c *Catalog) IsCustomerMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range c.CustomerMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
