// Package invoice runs the extraction pipeline for single documents and
// batches of documents.
package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/dgallion1/invoicegest/internal/fields"
	"github.com/dgallion1/invoicegest/internal/layout"
	"github.com/dgallion1/invoicegest/internal/patterns"
	"github.com/dgallion1/invoicegest/internal/source"
	"github.com/dgallion1/invoicegest/internal/table"
	"github.com/dgallion1/invoicegest/internal/validate"
)

var (
	// ErrUnreadable means no text could be recovered from the document.
	ErrUnreadable = errors.New("document unreadable")
	// ErrUnsupported means no reader handles the file type.
	ErrUnsupported = source.ErrUnsupported
	// ErrDocumentPanic wraps a panic recovered while processing a document.
	ErrDocumentPanic = errors.New("document processing panicked")
)

// Result is the outcome of processing one document. Err is set when the
// document failed; the other fields are then empty.
type Result struct {
	Filename string          `json:"filename"`
	Lines    []layout.Line   `json:"-"`
	Fields   *fields.Set     `json:"fields"`
	Items    []table.Item    `json:"items"`
	Report   validate.Report `json:"validation"`
	Err      error           `json:"-"`
}

// Failed reports whether the document could not be processed.
func (r Result) Failed() bool { return r.Err != nil }

// Config configures a Processor.
type Config struct {
	// Timeout bounds reading a single document. Zero means no limit.
	Timeout time.Duration
	// Tolerance overrides layout.DefaultTolerance when positive.
	Tolerance float64
	// PDFFallback enables the pdftotext fallback.
	PDFFallback bool
}

// Processor turns documents into Results.
type Processor struct {
	catalog *patterns.Catalog
	recon   *layout.Reconstructor
	opts    source.Options
	timeout time.Duration
	log     *slog.Logger

	forFile func(string, source.Options) (source.Reader, error)
}

// NewProcessor creates a Processor using the default pattern catalog.
func NewProcessor(cfg Config, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	recon := layout.NewReconstructor()
	if cfg.Tolerance > 0 {
		recon.Tolerance = cfg.Tolerance
	}
	return &Processor{
		catalog: patterns.Default(),
		recon:   recon,
		opts:    source.Options{PDFFallback: cfg.PDFFallback},
		timeout: cfg.Timeout,
		log:     log,
		forFile: source.ForFile,
	}
}

// Process reads one document and extracts its invoice data. Failures are
// reported in Result.Err; Process itself never panics.
func (p *Processor) Process(ctx context.Context, filename string, data []byte) (res Result) {
	start := time.Now()
	log := p.log.With("filename", filename)

	defer func() {
		if r := recover(); r != nil {
			log.Error("document panic", "panic", r, "stack", string(debug.Stack()))
			res = Result{Filename: filename, Err: fmt.Errorf("%w: %v", ErrDocumentPanic, r)}
		}
	}()

	doc, err := p.read(ctx, filename, data)
	if err != nil {
		log.Warn("document failed", "error", err)
		return Result{Filename: filename, Err: err}
	}

	res = p.Extract(filename, doc.Pages)
	log.Info("document processed",
		"pages", len(doc.Pages),
		"fragments", doc.Fragments(),
		"lines", len(res.Lines),
		"fields", res.Fields.Len(),
		"items", len(res.Items),
		"valid", res.Report.Valid,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// Extract runs the pure part of the pipeline on already positioned pages.
// The same pages always yield the same Result.
func (p *Processor) Extract(filename string, pages []layout.Page) Result {
	lines := p.recon.Document(pages)
	set := fields.Extract(p.catalog, lines)
	items := table.Parse(p.catalog, lines)
	return Result{
		Filename: filename,
		Lines:    lines,
		Fields:   set,
		Items:    items,
		Report:   validate.Check(set, items),
	}
}

type readResult struct {
	doc *source.Document
	err error
}

// read runs the source reader under the per-document timeout. Backends can
// hang on malformed input, so the read happens on its own goroutine and is
// abandoned when the deadline passes.
func (p *Processor) read(ctx context.Context, filename string, data []byte) (*source.Document, error) {
	rd, err := p.forFile(filename, p.opts)
	if err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ch := make(chan readResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- readResult{err: fmt.Errorf("%w: %v", ErrDocumentPanic, r)}
			}
		}()
		doc, err := rd.Read(ctx, bytes.NewReader(data), filename)
		ch <- readResult{doc: doc, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, ErrDocumentPanic) {
				return nil, out.err
			}
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, out.err)
		}
		return out.doc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, ctx.Err())
	}
}
