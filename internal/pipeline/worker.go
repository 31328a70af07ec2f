package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/invoicegest/internal/invoice"
)

// Worker processes a single document job.
type Worker struct {
	proc  *invoice.Processor
	stats *Stats
	log   *slog.Logger
}

func NewWorker(proc *invoice.Processor, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{proc: proc, stats: stats, log: log}
}

// Process runs extraction and validation for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	if job.BatchID != "" {
		log = log.With("batch_id", job.BatchID)
	}

	job.SetStatus(StatusExtracting, "extracting")
	start := time.Now()
	res := w.proc.Process(ctx, job.Filename, job.FileData())
	elapsed := time.Since(start)

	if res.Failed() {
		w.stats.Record(elapsed, OutcomeFailed)
		log.Error("extraction failed", "error", res.Err)
		job.AddError(res.Err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	outcome := OutcomeValid
	if !res.Report.Valid {
		outcome = OutcomeReview
	}
	w.stats.Record(elapsed, outcome)

	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
	log.Info("job completed",
		"items", len(res.Items),
		"valid", res.Report.Valid,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}
