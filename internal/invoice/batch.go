package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Input is one document of a batch. When Data is nil the file at Path is
// read by the worker.
type Input struct {
	Name string
	Path string
	Data []byte
}

// Batch processes inputs with at most workers documents in flight.
// Results come back in input order. Per-document failures are carried in
// Result.Err and never stop the batch.
//
// When ctx is cancelled no further documents are started, and documents
// that were in flight are dropped from the results; the returned error is
// then ctx.Err().
func (p *Processor) Batch(ctx context.Context, inputs []Input, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	slots := make([]*Result, len(inputs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := p.processInput(ctx, in)
			if ctx.Err() != nil {
				return nil
			}
			slots[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	results := make([]Result, 0, len(inputs))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	if err := ctx.Err(); err != nil {
		p.log.Warn("batch cancelled", "completed", len(results), "total", len(inputs))
		return results, err
	}
	return results, nil
}

func (p *Processor) processInput(ctx context.Context, in Input) Result {
	data := in.Data
	if data == nil && in.Path != "" {
		b, err := os.ReadFile(in.Path)
		if err != nil {
			return Result{Filename: in.Name, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
		}
		data = b
	}
	return p.Process(ctx, in.Name, data)
}

// DiscoverPDFs lists the PDF files directly inside dir, in name order.
func DiscoverPDFs(dir string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var inputs []Input
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		inputs = append(inputs, Input{Name: e.Name(), Path: filepath.Join(dir, e.Name())})
	}
	return inputs, nil
}
