package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 10
	maxColWidth = 60
)

// WriteXLSX writes the four sheets as an unstyled workbook. Column widths
// follow the longest value in each column, clamped to [10, 60].
func WriteXLSX(w io.Writer, recs Records) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range recs.Sheets() {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path, creating its directory.
func SaveXLSX(path string, recs Records) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteXLSX(f, recs)
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	widths := make([]int, len(sheet.Columns))

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if n := cellLen(v); n > widths[col] {
			widths[col] = n
		}
		return f.SetCellValue(sheet.Name, cell, v)
	}

	for i, h := range sheet.Columns {
		if err := set(i, 1, h); err != nil {
			return err
		}
	}
	for r, row := range sheet.Rows {
		for c, v := range row {
			if c >= len(sheet.Columns) {
				break
			}
			if err := set(c, r+2, v); err != nil {
				return err
			}
		}
	}

	for i, n := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, float64(ColumnWidth(n))); err != nil {
			return err
		}
	}
	return nil
}

// ColumnWidth clamps a content length plus padding to the width bounds.
func ColumnWidth(contentLen int) int {
	return min(max(contentLen+2, minColWidth), maxColWidth)
}

// cellLen is the displayed length of a value. Empty strings and zero
// numbers do not count.
func cellLen(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(x)
	case float64:
		if x == 0 {
			return 0
		}
	case int:
		if x == 0 {
			return 0
		}
	}
	return utf8.RuneCountInString(fmt.Sprint(v))
}
