package validate

import (
	"strings"
	"testing"

	"github.com/dgallion1/invoicegest/internal/fields"
	"github.com/dgallion1/invoicegest/internal/patterns"
	"github.com/dgallion1/invoicegest/internal/table"
)

func setWith(number string, billed, payable float64) *fields.Set {
	s := fields.NewSet()
	if number != "" {
		s.Put(patterns.InvoiceNumber, patterns.TextValue(number))
	}
	if billed != 0 {
		s.Put(patterns.TotalBilled, patterns.NumberValue(billed))
	}
	if payable != 0 {
		s.Put(patterns.TotalPayable, patterns.NumberValue(payable))
	}
	return s
}

func TestCheck_Tolerance(t *testing.T) {
	tests := []struct {
		name      string
		itemTotal float64
		billed    float64
		wantValid bool
	}{
		{"exact match", 1000, 1000, true},
		{"difference of exactly 100 passes", 1100, 1000, true},
		{"difference of 100.01 fails", 1100.01, 1000, false},
		{"difference below declared", 899.99, 1000, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Check(setWith("1", tc.billed, 0), []table.Item{{Concept: "x", Total: tc.itemTotal}})
			if r.Valid != tc.wantValid {
				t.Fatalf("expected valid=%v, got %+v", tc.wantValid, r)
			}
			if !tc.wantValid && len(r.Errors) != 1 {
				t.Fatalf("expected one error, got %v", r.Errors)
			}
		})
	}
}

func TestCheck_MismatchMessageGroupsThousands(t *testing.T) {
	r := Check(setWith("7", 1000000, 0), []table.Item{{Total: 250000}, {Total: 250000.5}})
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	msg := r.Errors[0]
	for _, want := range []string{"500,000.50", "1,000,000.00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestCheck_FallsBackToPayable(t *testing.T) {
	r := Check(setWith("1", 0, 5000), []table.Item{{Total: 1000}})
	if r.Valid {
		t.Fatal("expected mismatch against payable total")
	}

	r = Check(setWith("1", 0, 1050), []table.Item{{Total: 1000}})
	if !r.Valid {
		t.Fatalf("expected valid report, got %v", r.Errors)
	}
}

func TestCheck_NoDeclaredTotal(t *testing.T) {
	r := Check(setWith("1", 0, 0), []table.Item{{Total: 1000}})
	if !r.Valid {
		t.Errorf("expected valid report without declared total, got %v", r.Errors)
	}
}

func TestCheck_NoItemsSkipsArithmetic(t *testing.T) {
	r := Check(setWith("1", 5000, 0), nil)
	if !r.Valid {
		t.Errorf("expected valid report without items, got %v", r.Errors)
	}
}

func TestCheck_MissingInvoiceNumber(t *testing.T) {
	r := Check(setWith("", 0, 0), nil)
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	if len(r.Errors) != 1 || r.Errors[0] != "invoice number not found" {
		t.Errorf("unexpected errors: %v", r.Errors)
	}
	if r.InvoiceNumber != "" {
		t.Errorf("expected empty invoice number, got %q", r.InvoiceNumber)
	}
}

func TestCheck_ErrorOrder(t *testing.T) {
	r := Check(setWith("", 1000, 0), []table.Item{{Total: 5000}})
	if len(r.Errors) != 2 {
		t.Fatalf("expected two errors, got %v", r.Errors)
	}
	if r.Errors[0] != "invoice number not found" {
		t.Errorf("expected missing number first, got %q", r.Errors[0])
	}
	if !strings.HasPrefix(r.Errors[1], "total mismatch") {
		t.Errorf("expected mismatch second, got %q", r.Errors[1])
	}
}
