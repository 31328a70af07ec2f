package fields

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dgallion1/invoicegest/internal/layout"
	"github.com/dgallion1/invoicegest/internal/patterns"
)

func linesOf(texts ...string) []layout.Line {
	out := make([]layout.Line, len(texts))
	for i, t := range texts {
		out[i] = layout.Line{Page: 1, Order: i, Text: t}
	}
	return out
}

func sampleInvoice() []layout.Line {
	return linesOf(
		"GECELCA S.A. E.S.P. Nit: 800123456-1",
		"Dirección: Carrera 55 # 72-109 Ciudad: Barranquilla",
		"No. Factura: 40021 Fecha expedición: 2024-02-01",
		"Fecha vencimiento: 2024-02-20",
		"Periodo Facturación: 2024-01-01 A 2024-01-31",
		"No. Contrato: CT-2024-01",
		"CUFE: 0a1b2c3d",
		"Señores: ACME S.A.S. Nit: 900987654-3",
		"Dirección: Calle 10 # 5-20 Ciudad: Bogotá D.C.",
		"Email: pagos@acme.com.co",
		"Teléfono: (601) 555-1234",
		"Item Concepto Unidad Cantidad Tarifa Total",
		"1 REF1 Energia activa kWh 100 250.5 25050",
		"Total facturado 25,050",
		"Anticipo/Prepago 0",
		"TOTAL A PAGAR $ 25,050",
		"SON: VEINTICINCO MIL CINCUENTA PESOS Medio de pago: Transferencia",
		"Entidad: Bancolombia Cuenta: Ahorros Número: 123456789",
		"Forma de pago: Crédito Observaciones: Sin novedad",
	)
}

func TestExtract_SampleInvoice(t *testing.T) {
	set := Extract(patterns.Default(), sampleInvoice())

	text := map[patterns.Key]string{
		patterns.InvoiceNumber: "40021",
		patterns.IssueDate:     "2024-02-01",
		patterns.DueDate:       "2024-02-20",
		patterns.BillingPeriod: "2024-01-01 al 2024-01-31",
		patterns.Contract:      "CT-2024-01",
		patterns.CUFE:          "0a1b2c3d",
		patterns.CustomerName:  "ACME S.A.S.",
		patterns.CustomerTaxID: "900987654-3",
		patterns.Address:       "Calle 10 # 5-20",
		patterns.City:          "Bogotá D.C.",
		patterns.Email:         "pagos@acme.com.co",
		patterns.Phone:         "(601) 555-1234",
		patterns.AmountInWords: "VEINTICINCO MIL CINCUENTA PESOS",
		patterns.PaymentMethod: "Transferencia",
		patterns.Bank:          "Bancolombia",
		patterns.AccountType:   "Ahorros",
		patterns.AccountNumber: "123456789",
		patterns.PaymentForm:   "Crédito",
		patterns.Observations:  "Sin novedad",
	}
	for k, want := range text {
		if got := set.Text(k); got != want {
			t.Errorf("%s: expected %q, got %q", k, want, got)
		}
	}

	numbers := map[patterns.Key]float64{
		patterns.TotalBilled:  25050,
		patterns.TotalPayable: 25050,
		patterns.Advance:      0,
	}
	for k, want := range numbers {
		v, ok := set.Get(k)
		if !ok {
			t.Errorf("%s: expected value to be present", k)
			continue
		}
		if !v.Numeric || v.Number != want {
			t.Errorf("%s: expected %v, got %+v", k, want, v)
		}
	}

	if set.Has(patterns.Interest) {
		t.Error("expected interest to be absent")
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	set := Extract(patterns.Default(), linesOf(
		"No. Factura: 111",
		"No. Factura: 222",
	))
	if got := set.Text(patterns.InvoiceNumber); got != "111" {
		t.Errorf("expected first value 111, got %q", got)
	}
}

func TestExtract_ClientGating(t *testing.T) {
	t.Run("before marker is ignored", func(t *testing.T) {
		set := Extract(patterns.Default(), linesOf(
			"Emisor Nit: 800123456-1",
			"Factura electrónica de venta",
		))
		if set.Has(patterns.CustomerTaxID) {
			t.Errorf("expected no customer tax id, got %q", set.Text(patterns.CustomerTaxID))
		}
	})

	t.Run("after marker is captured", func(t *testing.T) {
		set := Extract(patterns.Default(), linesOf(
			"Emisor Nit: 800123456-1",
			"Datos del cliente",
			"Nit: 800123456-1",
		))
		if got := set.Text(patterns.CustomerTaxID); got != "800123456-1" {
			t.Errorf("expected 800123456-1, got %q", got)
		}
	})

	t.Run("marker line itself is eligible", func(t *testing.T) {
		set := Extract(patterns.Default(), linesOf("Señores: ACME Nit: 900-1"))
		if got := set.Text(patterns.CustomerTaxID); got != "900-1" {
			t.Errorf("expected 900-1, got %q", got)
		}
	})

	t.Run("non-customer keys are not gated", func(t *testing.T) {
		set := Extract(patterns.Default(), linesOf("No. Contrato: ABC-1"))
		if !set.Has(patterns.Contract) {
			t.Error("expected contract before any marker")
		}
	})
}

func TestExtract_Empty(t *testing.T) {
	set := Extract(patterns.Default(), nil)
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d fields", set.Len())
	}
}

func TestExtract_Idempotent(t *testing.T) {
	a, err := json.Marshal(Extract(patterns.Default(), sampleInvoice()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(Extract(patterns.Default(), sampleInvoice()))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("expected identical output:\n%s\n%s", a, b)
	}
}

func TestSet_MarshalJSON(t *testing.T) {
	s := NewSet()
	s.Put(patterns.InvoiceNumber, patterns.TextValue("1"))
	s.Put(patterns.TotalPayable, patterns.NumberValue(1000))
	s.Put(patterns.InvoiceNumber, patterns.TextValue("2"))

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"invoice_number":"1","total_payable":1000}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-02-01", "2024-02-01", true},
		{"2024/02/01", "2024-02-01", true},
		{"01/02/2024", "2024-02-01", true},
		{"2024–02–01", "2024-02-01", true},
		{"2024-01-01 al 2024-01-31", "2024-01-01", true},
		{"2024-13-01", "", false},
		{"mañana", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q): expected ok=%v", tc.in, tc.ok)
			continue
		}
		if ok && got.Format(time.DateOnly) != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got.Format(time.DateOnly), tc.want)
		}
	}
}
