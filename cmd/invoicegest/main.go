// Command invoicegest extracts invoice data from documents and writes the
// processing workbook.
//
//	invoicegest -a factura.pdf           one workbook next to the file
//	invoicegest -d facturas/             one consolidated workbook for the directory
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/invoicegest/internal/config"
	"github.com/dgallion1/invoicegest/internal/invoice"
	"github.com/dgallion1/invoicegest/internal/layout"
	"github.com/dgallion1/invoicegest/internal/report"
)

type options struct {
	file    string
	dir     string
	out     string
	workers int
	csv     bool
}

func main() {
	cfg := config.Load()

	var opts options
	flag.StringVar(&opts.file, "a", "", "process a single document")
	flag.StringVar(&opts.dir, "d", "", "process every PDF in a directory into one consolidated workbook")
	flag.StringVar(&opts.out, "o", "", "output directory (defaults to the input's directory)")
	flag.IntVar(&opts.workers, "workers", cfg.WorkerCount, "documents processed concurrently")
	flag.BoolVar(&opts.csv, "csv", false, "also dump the reconstructed lines of each document as CSV")
	flag.Parse()

	if (opts.file == "") == (opts.dir == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -a or -d is required")
		flag.Usage()
		os.Exit(2)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	proc := invoice.NewProcessor(invoice.Config{
		Timeout:     cfg.DocumentTimeout,
		Tolerance:   cfg.LineTolerance,
		PDFFallback: cfg.PDFFallbackPdftotext,
	}, log)

	var err error
	if opts.file != "" {
		err = runSingle(ctx, proc, opts, log)
	} else {
		err = runDirectory(ctx, proc, opts, log)
	}
	if err != nil {
		log.Error("invoicegest failed", "error", err)
		os.Exit(1)
	}
}

// runSingle writes <base>_procesado.xlsx for one document.
func runSingle(ctx context.Context, proc *invoice.Processor, opts options, log *slog.Logger) error {
	outDir := opts.out
	if outDir == "" {
		outDir = filepath.Dir(opts.file)
	}

	results, err := proc.Batch(ctx, []invoice.Input{{Name: filepath.Base(opts.file), Path: opts.file}}, 1)
	if err != nil {
		return err
	}
	res := results[0]

	path := filepath.Join(outDir, report.OutputName(res.Filename))
	if err := report.SaveXLSX(path, report.Build(res, time.Now())); err != nil {
		return err
	}
	if opts.csv && !res.Failed() {
		if err := dumpCSV(filepath.Join(outDir, "csv"), res); err != nil {
			return err
		}
	}

	log.Info("document exported",
		"file", opts.file,
		"output", path,
		"valid", res.Report.Valid,
		"failed", res.Failed(),
	)
	return nil
}

// runDirectory processes every PDF of the directory into one consolidated
// workbook under Resultados_Consolidados.
func runDirectory(ctx context.Context, proc *invoice.Processor, opts options, log *slog.Logger) error {
	start := time.Now()
	outDir := opts.out
	if outDir == "" {
		outDir = opts.dir
	}

	inputs, err := invoice.DiscoverPDFs(opts.dir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		log.Warn("no pdf files found", "dir", opts.dir)
		return nil
	}
	log.Info("batch started", "dir", opts.dir, "files", len(inputs), "workers", opts.workers)

	results, err := proc.Batch(ctx, inputs, opts.workers)
	if err != nil {
		return fmt.Errorf("batch interrupted after %d of %d documents: %w", len(results), len(inputs), err)
	}

	var recs report.Records
	var ok, failed int
	for _, res := range results {
		recs.Append(report.Build(res, time.Now()))
		if res.Failed() {
			failed++
			continue
		}
		ok++
		if opts.csv {
			if err := dumpCSV(filepath.Join(outDir, "csv"), res); err != nil {
				log.Warn("csv dump failed", "filename", res.Filename, "error", err)
			}
		}
	}

	path := filepath.Join(outDir, report.ConsolidatedDir, report.ConsolidatedName(start))
	if err := report.SaveXLSX(path, recs); err != nil {
		return err
	}

	log.Info("batch completed",
		"output", path,
		"processed", ok,
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func dumpCSV(dir string, res invoice.Result) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}
	name := strings.TrimSuffix(res.Filename, filepath.Ext(res.Filename)) + ".csv"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return layout.WriteCSV(f, res.Lines)
}
