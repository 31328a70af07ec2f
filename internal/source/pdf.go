package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/invoicegest/internal/layout"
)

// wordSpace is the fraction of the font size below which two glyphs on the
// same baseline belong to the same fragment.
const wordSpace = 0.3

// PDFReader reads glyph positions with ledongthuc/pdf and, optionally,
// falls back to pdftotext -layout.
type PDFReader struct {
	FallbackPdftotext bool
}

func (p *PDFReader) Read(ctx context.Context, r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc, err := readPDFGlyphs(data, filename)
	if err != nil && p.FallbackPdftotext {
		doc, err = readPdftotext(ctx, data, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return doc, nil
}

func readPDFGlyphs(data []byte, filename string) (*Document, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	doc := &Document{Name: baseName(filename)}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, layout.Page{Number: i})
			continue
		}
		doc.Pages = append(doc.Pages, layout.Page{
			Number:    i,
			Fragments: glyphFragments(i, page.Content().Text),
		})
	}
	return doc, nil
}

// glyphFragments merges glyphs sharing a baseline into word fragments. A
// glyph joins the running fragment when the horizontal gap is at most
// wordSpace times the font size (3pt when the size is unknown).
func glyphFragments(pageNum int, texts []pdflib.Text) []layout.Fragment {
	rows := make(map[float64][]pdflib.Text)
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		rows[t.Y] = append(rows[t.Y], t)
	}

	baselines := make([]float64, 0, len(rows))
	for y := range rows {
		baselines = append(baselines, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(baselines)))

	var frags []layout.Fragment
	for _, y := range baselines {
		row := rows[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var cur *layout.Fragment
		var size float64
		flush := func() {
			if cur == nil {
				return
			}
			cur.Text = clean(cur.Text)
			if cur.Text != "" {
				frags = append(frags, *cur)
			}
			cur = nil
		}
		for _, t := range row {
			if cur != nil {
				threshold := wordSpace * size
				if size == 0 {
					threshold = 3.0
				}
				if t.X-cur.X1 <= threshold {
					cur.X1 = t.X + t.W
					cur.Text += t.S
					continue
				}
				flush()
			}
			size = t.FontSize
			cur = &layout.Fragment{
				Page: pageNum,
				X0:   t.X,
				Y0:   t.Y,
				X1:   t.X + t.W,
				Y1:   t.Y + t.FontSize,
				Text: t.S,
			}
		}
		flush()
	}
	return frags
}

func readPdftotext(ctx context.Context, data []byte, filename string) (*Document, error) {
	tmp, err := os.CreateTemp("", "invoicegest-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return textPages(baseName(filename), string(out)), nil
}

// textPages splits text on form feeds into pages and lays out each line.
func textPages(name, text string) *Document {
	doc := &Document{Name: name}
	for i, page := range strings.Split(text, "\f") {
		if i > 0 && strings.TrimSpace(page) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, linesPage(i+1, strings.Split(page, "\n")))
	}
	return doc
}
