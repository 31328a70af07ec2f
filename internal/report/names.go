package report

import (
	"path/filepath"
	"strings"
	"time"
)

// ConsolidatedDir is the directory, under the input directory, that receives
// consolidated workbooks.
const ConsolidatedDir = "Resultados_Consolidados"

// OutputName is the workbook name for a single processed document.
func OutputName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_procesado.xlsx"
}

// ConsolidatedName is the workbook name for a batch started at t.
func ConsolidatedName(t time.Time) string {
	return "Consolidado_" + t.Format("20060102_150405") + ".xlsx"
}
