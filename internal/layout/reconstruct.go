package layout

import (
	"math"
	"sort"
	"strings"
)

// DefaultTolerance is the maximum vertical-center distance, in page units,
// for two fragments to share a line. The comparison is strict.
const DefaultTolerance = 4.0

// Reconstructor clusters fragments into reading-order lines.
type Reconstructor struct {
	Tolerance float64
}

// NewReconstructor returns a Reconstructor using DefaultTolerance.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{Tolerance: DefaultTolerance}
}

// Reconstruct is a convenience wrapper using the default tolerance.
func Reconstruct(frags []Fragment) []Line {
	return NewReconstructor().Page(frags)
}

// Page rebuilds the lines of a single page, top to bottom. The returned
// lines carry the page number of the first fragment and Order relative to
// the page. The input slice is not modified.
func (r *Reconstructor) Page(frags []Fragment) []Line {
	if len(frags) == 0 {
		return nil
	}
	tol := r.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool {
		return topDownLess(sorted[i], sorted[j])
	})

	var lines []Line
	page := sorted[0].Page
	emit := func(cluster []Fragment) {
		if text := joinCluster(cluster); text != "" {
			lines = append(lines, Line{Page: page, Order: len(lines), Text: text})
		}
	}

	start := 0
	ref := sorted[0].CenterY()
	for i := 1; i < len(sorted); i++ {
		c := sorted[i].CenterY()
		if math.Abs(c-ref) < tol {
			continue
		}
		emit(sorted[start:i])
		start = i
		ref = c
	}
	emit(sorted[start:])

	return lines
}

// Document rebuilds every page in page-number order and numbers the lines
// across the whole document.
func (r *Reconstructor) Document(pages []Page) []Line {
	ordered := make([]Page, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})

	var all []Line
	for _, p := range ordered {
		for _, l := range r.Page(p.Fragments) {
			l.Page = p.Number
			l.Order = len(all)
			all = append(all, l)
		}
	}
	return all
}

// topDownLess orders fragments by vertical center descending. Remaining
// keys make the order total so that any permutation of the input yields
// the same sequence.
func topDownLess(a, b Fragment) bool {
	ca, cb := a.CenterY(), b.CenterY()
	if ca != cb {
		return ca > cb
	}
	if a.X0 != b.X0 {
		return a.X0 < b.X0
	}
	if a.Text != b.Text {
		return a.Text < b.Text
	}
	if a.X1 != b.X1 {
		return a.X1 < b.X1
	}
	return a.Y0 < b.Y0
}

func joinCluster(cluster []Fragment) string {
	row := make([]Fragment, len(cluster))
	copy(row, cluster)
	sort.SliceStable(row, func(i, j int) bool {
		return row[i].X0 < row[j].X0
	})

	parts := make([]string, 0, len(row))
	for _, f := range row {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
