package patterns

import "testing"

func extractorFor(t *testing.T, k Key) Extractor {
	t.Helper()
	for _, e := range Default().Extractors() {
		if e.Key == k {
			return e
		}
	}
	t.Fatalf("no extractor for %s", k)
	return Extractor{}
}

func TestExtract_Text(t *testing.T) {
	tests := []struct {
		key  Key
		line string
		want string
	}{
		{InvoiceNumber, "No. Factura: 12345", "12345"},
		{InvoiceNumber, "Número Factura 987 Fecha", "987"},
		{IssueDate, "Fecha expedición: 2024-02-01", "2024-02-01"},
		{IssueDate, "FECHA EXPEDICION 2024/02/01", "2024/02/01"},
		{DueDate, "Fecha vencimiento: 2024-02-20", "2024-02-20"},
		{BillingPeriod, "Periodo Facturación: 2024-01-01 A 2024-01-31", "2024-01-01 al 2024-01-31"},
		{BillingPeriod, "periodo facturacion 2024-01-01 hasta 2024-01-31", "2024-01-01 al 2024-01-31"},
		{CUFE, "CUFE: a1b2c3d4e5f6", "a1b2c3d4e5f6"},
		{CustomerName, "Señores: ACME S.A.S. Nit: 900123456-7", "ACME S.A.S."},
		{CustomerName, "SEÑORES ENERGIA DEL CARIBE", "ENERGIA DEL CARIBE"},
		{CustomerTaxID, "Nit: 900123456-7", "900123456-7"},
		{Contract, "No. Contrato: CT-2024-01", "CT-2024-01"},
		{City, "Ciudad: Bogotá D.C. Teléfono: 555", "Bogotá D.C."},
		{Address, "Dirección: Calle 1 # 2-3 Ciudad: Bogotá", "Calle 1 # 2-3"},
		{Email, "Email: pagos@acme.com.co", "pagos@acme.com.co"},
		{Phone, "Teléfono: (601) 555-1234", "(601) 555-1234"},
		{Phone, "Telefono 6015551234 Concepto", "6015551234"},
		{AmountInWords, "SON: UN MILLON DE PESOS Medio de pago: Transferencia", "UN MILLON DE PESOS"},
		{PaymentMethod, "Medio de pago: Transferencia Entidad: Bancolombia", "Transferencia"},
		{Bank, "Entidad: Bancolombia Cuenta: Ahorros Número: 123456", "Bancolombia"},
		{AccountType, "Cuenta: Ahorros Número: 123456", "Ahorros"},
		{AccountNumber, "Número: 123456", "123456"},
		{PaymentForm, "Forma de pago: Crédito 30 días Observaciones: ninguna", "Crédito 30 días"},
		{IPP, "IPP Provisional: 141.27", "141.27"},
		{TRM, "TRM del día: 4,100.50", "4,100.50"},
		{Observations, "Observaciones: Pago oportuno", "Pago oportuno"},
	}
	for _, tc := range tests {
		t.Run(tc.key.String(), func(t *testing.T) {
			v, ok := extractorFor(t, tc.key).Extract(tc.line)
			if !ok {
				t.Fatalf("expected %q to match", tc.line)
			}
			if v.Numeric {
				t.Errorf("expected a text value")
			}
			if v.Text != tc.want {
				t.Errorf("expected %q, got %q", tc.want, v.Text)
			}
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	tests := []struct {
		key  Key
		line string
	}{
		{IssueDate, "Fecha expedición: 01/02/2024"},
		{InvoiceNumber, "No. Contrato: CT-1"},
		{Email, "Email: not-an-address"},
		{TotalPayable, "Energia activa 100 250.5 25050"},
	}
	for _, tc := range tests {
		if _, ok := extractorFor(t, tc.key).Extract(tc.line); ok {
			t.Errorf("%s: expected no match for %q", tc.key, tc.line)
		}
	}
}

func TestExtract_Amount(t *testing.T) {
	tests := []struct {
		key  Key
		line string
		want float64
	}{
		{TotalPayable, "TOTAL A PAGAR $ 1,234,567", 1234567},
		{TotalPayable, "Total a pagar", 0},
		{TotalBilled, "Total facturado 2 9 , 7 6 0 , 0 0 0", 29760000},
		{Advance, "Anticipo/Prepago 0", 0},
		{Advance, "ANTICIPO $ 500.5", 500.5},
		{Interest, "Intereses financieros 1,000", 1000},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			v, ok := extractorFor(t, tc.key).Extract(tc.line)
			if !ok {
				t.Fatalf("expected %q to match", tc.line)
			}
			if !v.Numeric {
				t.Fatal("expected a numeric value")
			}
			if v.Number != tc.want {
				t.Errorf("expected %v, got %v", tc.want, v.Number)
			}
		})
	}
}

func TestCatalog_EveryKeyOnce(t *testing.T) {
	seen := make(map[Key]int)
	for _, e := range Default().Extractors() {
		seen[e.Key]++
	}
	for _, k := range Keys() {
		if seen[k] != 1 {
			t.Errorf("%s: expected exactly one extractor, got %d", k, seen[k])
		}
	}
}

func TestCatalog_CustomerKeys(t *testing.T) {
	want := map[Key]bool{
		CustomerName: true, CustomerTaxID: true, City: true,
		Address: true, Email: true, Phone: true,
	}
	for _, e := range Default().Extractors() {
		if e.Customer != want[e.Key] {
			t.Errorf("%s: expected customer=%v", e.Key, want[e.Key])
		}
	}
}

func TestDefault_Shared(t *testing.T) {
	if Default() != Default() {
		t.Error("expected Default to return the same catalog")
	}
}

func TestCatalog_TableHeader(t *testing.T) {
	cat := Default()
	tests := []struct {
		line string
		want bool
	}{
		{"Item Concepto Unidad Cantidad Valor Total", true},
		{"REFERENCIA DESCRIPCIÓN", true},
		{"Total a pagar", false},
		{"Energia activa", false},
	}
	for _, tc := range tests {
		if got := cat.IsTableHeader(tc.line); got != tc.want {
			t.Errorf("IsTableHeader(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestCatalog_IsTerminator(t *testing.T) {
	cat := Default()
	tests := []struct {
		line string
		want bool
	}{
		{"TOTAL   A  PAGAR 1,000", true},
		{"Subtotal 25,050", true},
		{"Son: un millón", true},
		{"Valor a pagar", true},
		{"Energia activa kWh 100", false},
		{"Total energia 100", false},
	}
	for _, tc := range tests {
		if got := cat.IsTerminator(tc.line); got != tc.want {
			t.Errorf("IsTerminator(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestCatalog_IsCustomerMarker(t *testing.T) {
	cat := Default()
	for _, line := range []string{"SEÑORES:", "Datos del cliente", "Cliente: ACME", "Adquirente"} {
		if !cat.IsCustomerMarker(line) {
			t.Errorf("expected %q to be a customer marker", line)
		}
	}
	if cat.IsCustomerMarker("Emisor: Gecelca S.A. E.S.P.") {
		t.Error("expected issuer line not to be a customer marker")
	}
}

func TestKeyText(t *testing.T) {
	b, err := TotalBilled.MarshalText()
	if err != nil || string(b) != "total_billed" {
		t.Fatalf("unexpected marshal result %q, %v", b, err)
	}
	var k Key
	if err := k.UnmarshalText([]byte("cufe")); err != nil || k != CUFE {
		t.Fatalf("expected CUFE, got %v (%v)", k, err)
	}
	if err := k.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := Key(99).MarshalText(); err == nil {
		t.Error("expected error for out-of-range key")
	}
}
