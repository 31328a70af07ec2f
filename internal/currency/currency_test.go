package currency

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$ 8 . 3 6 0 . 5 6 6", 8360566},
		{"1,000.00", 1000},
		{"29,760,000", 29760000},
		{"2 9 , 7 6 0 , 0 0 0", 29760000},
		{"$ 25,050 COP", 25050},
		{"cop 1,500.75", 1500.75},
		{"USD 12.5", 12.5},
		{"250.5", 250.5},
		{"280.933", 280.933},
		{"8,360,566,080", 8360566080},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"$", 0},
		{"N/A", 0},
		{"abc", 0},
		{"inf", 0},
		{"NaN", 0},
		{"25,050 ANTICIPO 0", 0},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Errorf("Clean(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

// Several periods are always read as thousands separators. This misreads a
// value that genuinely has a decimal part after period-grouped thousands;
// the behaviour is kept on purpose and pinned here.
func TestClean_MultiplePeriodsAreThousands(t *testing.T) {
	if got := Clean("1.234.567"); got != 1234567 {
		t.Errorf("expected 1234567, got %v", got)
	}
	if got := Clean("1.234.56"); got != 123456 {
		t.Errorf("known ambiguity: expected 123456, got %v", got)
	}
}

func TestQuantityMatchesClean(t *testing.T) {
	for _, in := range []string{"1 0 0", "1,250.5", "x", ""} {
		if Quantity(in) != Clean(in) {
			t.Errorf("Quantity(%q) differs from Clean", in)
		}
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float passes through", 1234.5, 1234.5},
		{"int passes through", 42, 42},
		{"int64 passes through", int64(7), 7},
		{"string is cleaned", "$ 1,000", 1000},
		{"nil is zero", nil, 0},
		{"unknown type is zero", []byte("12"), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Value(tc.in); got != tc.want {
				t.Errorf("Value(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"25050", true},
		{"250.5", true},
		{"1,000.00", true},
		{"$25,050", true},
		{"kWh", false},
		{"REF1", false},
		{"-5", false},
		{"$", false},
		{".,", false},
		{"", false},
		{"12a", false},
	}
	for _, tc := range tests {
		if got := IsNumeric(tc.in); got != tc.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
