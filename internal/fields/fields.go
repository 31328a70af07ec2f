// Package fields scans reconstructed lines for header, amount and footer
// fields.
package fields

import (
	"encoding/json"

	"github.com/dgallion1/invoicegest/internal/layout"
	"github.com/dgallion1/invoicegest/internal/patterns"
)

// Value is a single extracted field value.
type Value = patterns.Value

// Set maps field keys to their first extracted value. Keys are written at
// most once.
type Set struct {
	values map[patterns.Key]Value
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{values: make(map[patterns.Key]Value)}
}

// Put stores v under k unless k is already present. It reports whether v
// was stored.
func (s *Set) Put(k patterns.Key, v Value) bool {
	if _, ok := s.values[k]; ok {
		return false
	}
	s.values[k] = v
	return true
}

// Get returns the value stored under k.
func (s *Set) Get(k patterns.Key) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[k]
	return v, ok
}

// Has reports whether k was extracted.
func (s *Set) Has(k patterns.Key) bool {
	_, ok := s.Get(k)
	return ok
}

// Text returns the textual value of k, or "" when absent or numeric.
func (s *Set) Text(k patterns.Key) string {
	v, _ := s.Get(k)
	return v.Text
}

// Number returns the numeric value of k, or 0 when absent or textual.
func (s *Set) Number(k patterns.Key) float64 {
	v, _ := s.Get(k)
	return v.Number
}

// Len returns the number of extracted fields.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Keys returns the extracted keys in catalog order.
func (s *Set) Keys() []patterns.Key {
	var out []patterns.Key
	for _, k := range patterns.Keys() {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// MarshalJSON renders the set as an object of key name to string or number.
func (s *Set) MarshalJSON() ([]byte, error) {
	out := make(map[patterns.Key]any, s.Len())
	for _, k := range s.Keys() {
		v := s.values[k]
		if v.Numeric {
			out[k] = v.Number
		} else {
			out[k] = v.Text
		}
	}
	return json.Marshal(out)
}

// Extract runs every catalog extractor over lines in document order.
//
// Customer-specific keys are ignored until a line containing a customer
// marker has been seen; the marker line itself is eligible. The first match
// for a key wins.
func Extract(cat *patterns.Catalog, lines []layout.Line) *Set {
	set := NewSet()
	extractors := cat.Extractors()
	inCustomer := false

	for _, l := range lines {
		if !inCustomer && cat.IsCustomerMarker(l.Text) {
			inCustomer = true
		}
		for _, e := range extractors {
			if e.Customer && !inCustomer {
				continue
			}
			if set.Has(e.Key) {
				continue
			}
			if v, ok := e.Extract(l.Text); ok {
				set.Put(e.Key, v)
			}
		}
	}
	return set
}
