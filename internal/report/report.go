// Package report reshapes invoice results into the flat record sets of the
// processing workbook and writes them as XLSX.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/invoicegest/internal/fields"
	"github.com/dgallion1/invoicegest/internal/invoice"
	"github.com/dgallion1/invoicegest/internal/patterns"
)

// Sheet names.
const (
	SheetConcepts   = "Conceptos_Vertical"
	SheetGeneral    = "Variables_Generales"
	SheetComparison = "Comparacion"
	SheetLog        = "Log_Proceso"
)

// Column headers, in sheet order.
var (
	ConceptColumns = []string{
		"No. Factura", "No. Contrato", "Item ID", "Referencia",
		"Concepto", "Unidad", "Cantidad", "Tarifa", "Valor Total Item",
	}
	GeneralColumns = []string{
		"Nombre Archivo", "No. Factura", "CUFE", "No. Contrato",
		"Fecha Expedición", "Fecha Vencimiento", "Periodo Facturación",
		"Cliente", "NIT Cliente", "Dirección", "Ciudad", "Email", "Teléfono",
		"Total Facturado (Subtotal)", "Intereses", "Anticipo/Prepago", "Total a Pagar",
		"Valor en Letras", "Medio de Pago", "Banco", "Tipo Cuenta", "No. Cuenta",
		"Forma de Pago", "IPP", "TRM", "Observaciones",
		"Items Detectados", "Estado Validación", "Errores",
	}
	ComparisonColumns = []string{
		"No. Factura", "No. Contrato", "Tipo", "Variable", "Valor PDF", "Valor Data Lake",
	}
	LogColumns = []string{
		"Fecha Proceso", "Archivo", "No. Factura", "Es Válida", "Errores",
	}
)

// comparedFields are the summary columns repeated in the comparison list.
var comparedFields = []string{
	"CUFE", "Fecha Expedición", "Fecha Vencimiento",
	"Periodo Facturación", "Cliente", "NIT Cliente", "Total Facturado (Subtotal)",
	"Total a Pagar", "Anticipo/Prepago", "Banco", "No. Cuenta",
}

const (
	noDetail       = "SIN DETALLE DETECTADO"
	statusOK       = "OK"
	statusReview   = "REVISAR"
	validYes       = "SÍ"
	validNo        = "NO"
	noErrors       = "Ninguno"
	criticalStatus = "ERROR CRÍTICO"
	readFailure    = "Fallo en lectura del archivo"
	timestampFmt   = "2006-01-02 15:04:05"
)

// Row is one record; values line up with the sheet's columns.
type Row []any

// Records holds the four record sets of a workbook.
type Records struct {
	Concepts   []Row
	General    []Row
	Comparison []Row
	Log        []Row
}

// Append adds o's rows after r's.
func (r *Records) Append(o Records) {
	r.Concepts = append(r.Concepts, o.Concepts...)
	r.General = append(r.General, o.General...)
	r.Comparison = append(r.Comparison, o.Comparison...)
	r.Log = append(r.Log, o.Log...)
}

// Sheet is a named table ready to be written.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Sheets returns the record sets in workbook order.
func (r Records) Sheets() []Sheet {
	return []Sheet{
		{Name: SheetConcepts, Columns: ConceptColumns, Rows: r.Concepts},
		{Name: SheetGeneral, Columns: GeneralColumns, Rows: r.General},
		{Name: SheetComparison, Columns: ComparisonColumns, Rows: r.Comparison},
		{Name: SheetLog, Columns: LogColumns, Rows: r.Log},
	}
}

// Build reshapes one result. A failed result only contributes a log row.
func Build(res invoice.Result, at time.Time) Records {
	if res.Failed() {
		return Records{Log: []Row{FailedLogRow(res.Filename, at)}}
	}

	set := res.Fields
	number := set.Text(patterns.InvoiceNumber)
	contract := set.Text(patterns.Contract)

	var recs Records
	if len(res.Items) == 0 {
		recs.Concepts = append(recs.Concepts, Row{number, contract, "-", "-", noDetail, "-", 0.0, 0.0, 0.0})
	}
	for _, it := range res.Items {
		recs.Concepts = append(recs.Concepts, Row{
			number, contract, it.ID, it.Reference, it.Concept, it.Unit, it.Quantity, it.Rate, it.Total,
		})
	}

	general := generalRow(res)
	recs.General = []Row{general}

	for _, name := range comparedFields {
		recs.Comparison = append(recs.Comparison, Row{
			number, contract, "General", name, general[columnIndex(GeneralColumns, name)], "",
		})
	}
	for i, it := range res.Items {
		prefix := fmt.Sprintf("Item %d", i+1)
		recs.Comparison = append(recs.Comparison,
			Row{number, contract, "Detalle", prefix + " - Concepto", it.Concept, ""},
			Row{number, contract, "Detalle", prefix + " - Cantidad", it.Quantity, ""},
			Row{number, contract, "Detalle", prefix + " - Tarifa", it.Rate, ""},
			Row{number, contract, "Detalle", prefix + " - Total", it.Total, ""},
		)
	}

	recs.Log = []Row{LogRow(res, at)}
	return recs
}

func generalRow(res invoice.Result) Row {
	set := res.Fields
	status := statusOK
	if !res.Report.Valid {
		status = statusReview
	}
	return Row{
		res.Filename,
		set.Text(patterns.InvoiceNumber),
		set.Text(patterns.CUFE),
		set.Text(patterns.Contract),
		dateText(set, patterns.IssueDate),
		dateText(set, patterns.DueDate),
		set.Text(patterns.BillingPeriod),
		set.Text(patterns.CustomerName),
		set.Text(patterns.CustomerTaxID),
		set.Text(patterns.Address),
		set.Text(patterns.City),
		set.Text(patterns.Email),
		set.Text(patterns.Phone),
		set.Number(patterns.TotalBilled),
		set.Number(patterns.Interest),
		set.Number(patterns.Advance),
		set.Number(patterns.TotalPayable),
		set.Text(patterns.AmountInWords),
		set.Text(patterns.PaymentMethod),
		set.Text(patterns.Bank),
		set.Text(patterns.AccountType),
		set.Text(patterns.AccountNumber),
		set.Text(patterns.PaymentForm),
		set.Text(patterns.IPP),
		set.Text(patterns.TRM),
		set.Text(patterns.Observations),
		len(res.Items),
		status,
		strings.Join(res.Report.Errors, "; "),
	}
}

// dateText normalizes a date field to YYYY-MM-DD, keeping the raw text when
// it does not parse.
func dateText(set *fields.Set, k patterns.Key) string {
	raw := set.Text(k)
	if t, ok := fields.ParseDate(raw); ok {
		return t.Format(time.DateOnly)
	}
	return raw
}

// LogRow is the processing log entry for a successfully read document.
func LogRow(res invoice.Result, at time.Time) Row {
	valid := validNo
	if res.Report.Valid {
		valid = validYes
	}
	errs := noErrors
	if len(res.Report.Errors) > 0 {
		errs = strings.Join(res.Report.Errors, "; ")
	}
	return Row{at.Format(timestampFmt), res.Filename, res.Report.InvoiceNumber, valid, errs}
}

// FailedLogRow is the processing log entry for a document that could not
// be read.
func FailedLogRow(filename string, at time.Time) Row {
	return Row{at.Format(timestampFmt), filename, "", criticalStatus, readFailure}
}

func columnIndex(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	panic("report: unknown column " + name)
}
