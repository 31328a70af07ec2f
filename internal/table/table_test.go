package table

import (
	"reflect"
	"testing"

	"github.com/dgallion1/invoicegest/internal/layout"
	"github.com/dgallion1/invoicegest/internal/patterns"
)

func TestParseRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Item
	}{
		{
			name: "full row",
			line: "1 REF1 Energia activa kWh 100 250.5 25050",
			want: Item{ID: "1", Reference: "REF1", Concept: "Energia activa", Unit: "kWh", Quantity: 100, Rate: 250.5, Total: 25050},
		},
		{
			name: "junk prefix is skipped",
			line: "| - Servicio de respaldo 12,500",
			want: Item{Concept: "Servicio de respaldo", Total: 12500},
		},
		{
			name: "row index after junk",
			line: "* 2 Alumbrado público 3,200",
			want: Item{ID: "2", Concept: "Alumbrado público", Total: 3200},
		},
		{
			name: "total found before trailing code",
			line: "1 Energia reactiva 25050 COP",
			want: Item{ID: "1", Concept: "Energia reactiva", Total: 25050},
		},
		{
			name: "stray punctuation trimmed",
			line: "2 Transporte de energía, 1,000",
			want: Item{ID: "2", Concept: "Transporte de energía", Total: 1000},
		},
		{
			name: "reference with digit",
			line: "3 ab1 Cargo por confiabilidad 4,500",
			want: Item{ID: "3", Reference: "ab1", Concept: "Cargo por confiabilidad", Total: 4500},
		},
		{
			name: "short lower-case word is a unit not a reference",
			line: "4 cargo por uso 1,200",
			want: Item{ID: "4", Concept: "cargo por", Unit: "uso", Total: 1200},
		},
	}
	cat := patterns.Default()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseRow(cat, tc.line)
			if !ok {
				t.Fatalf("expected %q to parse", tc.line)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestParseRow_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"terminator line", "Subtotal 25,050"},
		{"terminator with odd spacing", "total    a  pagar 1,000"},
		{"single token", "25050"},
		{"empty", ""},
		{"no total in last three tokens", "Energia activa kWh texto otro mas"},
		{"zero total leaves no concept", "1 Energia 0"},
		{"concept too short", "1 A 5,000"},
		{"only index and total", "1 5,000"},
	}
	cat := patterns.Default()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if it, ok := ParseRow(cat, tc.line); ok {
				t.Errorf("expected %q to be rejected, got %+v", tc.line, it)
			}
		})
	}
}

func linesOf(texts ...string) []layout.Line {
	out := make([]layout.Line, len(texts))
	for i, s := range texts {
		out[i] = layout.Line{Page: 1, Order: i, Text: s}
	}
	return out
}

func TestParse_TableBoundaries(t *testing.T) {
	lines := linesOf(
		"No. Factura: 1",
		"5 Antes de la tabla 9,999",
		"Item Concepto Unidad Cantidad Tarifa Total",
		"1 REF1 Energia activa kWh 100 250.5 25050",
		"nota sin valores",
		"Subtotal 25,050",
		"2 Despues del cierre 1,000",
		"Referencia Descripción Valor Total",
		"7 AGC Respaldo 500",
		"TOTAL A PAGAR 25,550",
		"8 Fuera de tabla 700",
	)
	got := Parse(patterns.Default(), lines)
	want := []Item{
		{ID: "1", Reference: "REF1", Concept: "Energia activa", Unit: "kWh", Quantity: 100, Rate: 250.5, Total: 25050},
		{ID: "7", Reference: "AGC", Concept: "Respaldo", Total: 500},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParse_HeaderLineIsNotARow(t *testing.T) {
	lines := linesOf("Item Concepto Total 1 Energia 2,000")
	if got := Parse(patterns.Default(), lines); len(got) != 0 {
		t.Errorf("expected header to be consumed, got %+v", got)
	}
}

func TestParse_NoTable(t *testing.T) {
	lines := linesOf("1 REF1 Energia activa kWh 100 250.5 25050")
	if got := Parse(patterns.Default(), lines); got != nil {
		t.Errorf("expected no items without a header, got %+v", got)
	}
}
