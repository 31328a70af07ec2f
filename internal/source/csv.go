package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/invoicegest/internal/layout"
)

const pageMarker = "PÁGINA "

// CSVReader reads a reconstructed-lines dump written by layout.WriteCSV, or
// any CSV whose rows are read as lines with cells joined by spaces. Dump
// page markers start new pages.
type CSVReader struct{}

func (p *CSVReader) Read(_ context.Context, r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Name: baseName(filename)}
	number := 1
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			doc.Pages = append(doc.Pages, linesPage(number, lines))
		}
		lines = nil
	}

	for i, rec := range records {
		line := strings.Join(rec, " ")
		if i == 0 && line == layout.CSVHeader {
			continue
		}
		if n, ok := parsePageMarker(line); ok {
			flush()
			number = n
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return doc, nil
}

func parsePageMarker(line string) (int, bool) {
	rest, ok := strings.CutPrefix(line, pageMarker)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
