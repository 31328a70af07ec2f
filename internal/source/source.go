// Package source turns uploaded files into positioned text fragments.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/invoicegest/internal/layout"
)

// ErrUnsupported is returned for file types no reader handles.
var ErrUnsupported = errors.New("unsupported file type")

// Document is the positioned text of one file, page by page.
type Document struct {
	Name  string
	Pages []layout.Page
}

// Fragments returns the number of fragments across all pages.
func (d *Document) Fragments() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Fragments)
	}
	return n
}

// Reader converts raw file bytes into a Document.
type Reader interface {
	Read(ctx context.Context, r io.Reader, filename string) (*Document, error)
}

// Options tune the readers returned by ForFile.
type Options struct {
	// PDFFallback enables the pdftotext fallback when the glyph backend
	// cannot read a PDF.
	PDFFallback bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string, opts Options) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFReader{FallbackPdftotext: opts.PDFFallback}, nil
	case ".txt":
		return &TextReader{}, nil
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	case ".csv":
		return &CSVReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".docx":
		return &DOCXReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Layout of synthetic pages built from formats without geometry. Lines are
// spaced well beyond layout.DefaultTolerance so each stays on its own.
const (
	syntheticTop    = 1000.0
	syntheticStep   = 12.0
	syntheticHeight = 8.0
)

// linesPage lays out text lines one per row, top to bottom. Blank lines
// keep their row but produce no fragment.
func linesPage(number int, lines []string) layout.Page {
	page := layout.Page{Number: number}
	for i, l := range lines {
		l = clean(l)
		if l == "" {
			continue
		}
		y0 := syntheticTop - float64(i)*syntheticStep
		page.Fragments = append(page.Fragments, layout.Fragment{
			Page: number,
			X0:   0,
			Y0:   y0,
			X1:   float64(len([]rune(l))),
			Y1:   y0 + syntheticHeight,
			Text: l,
		})
	}
	return page
}

// clean NFC-normalizes s and trims it. Decomposed accents ("o" + U+0301)
// would otherwise defeat the accent-aware patterns.
func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func baseName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
