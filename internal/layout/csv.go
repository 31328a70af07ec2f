package layout

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVHeader is the first row of a reconstructed-lines dump.
const CSVHeader = "--- TEXTO RECONSTRUIDO (LÍNEAS) ---"

// WriteCSV dumps reconstructed lines as a single-column CSV: a header row,
// a "PÁGINA n" marker before each page, one row per line and an empty row
// after each page. The dump is meant for eyeballing what the extractors see.
func WriteCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{CSVHeader}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	page := -1
	for _, l := range lines {
		if l.Page != page {
			if page != -1 {
				if err := cw.Write([]string{""}); err != nil {
					return err
				}
			}
			page = l.Page
			if err := cw.Write([]string{fmt.Sprintf("PÁGINA %d", page)}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{l.Text}); err != nil {
			return err
		}
	}
	if page != -1 {
		if err := cw.Write([]string{""}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
