package layout

// Fragment is a positioned span of text on a page, as reported by the
// geometry backend. Y grows towards the top of the page.
type Fragment struct {
	Page int     // 1-based page number
	X0   float64 // left edge
	Y0   float64 // bottom edge
	X1   float64 // right edge
	Y1   float64 // top edge
	Text string
}

// CenterY returns the vertical center of the fragment.
func (f Fragment) CenterY() float64 {
	return (f.Y0 + f.Y1) / 2
}

// Page holds every fragment recovered from one page of a document.
type Page struct {
	Number    int
	Fragments []Fragment
}

// Line is one visual line of text rebuilt from fragments sharing a
// vertical band.
type Line struct {
	Page  int    // Source page
	Order int    // Position in the whole document, starting at 0
	Text  string // Fragments joined left to right with single spaces
}

// Texts returns the text of each line, in order.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
