package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/invoicegest/internal/config"
	"github.com/dgallion1/invoicegest/internal/invoice"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

const cleanupInterval = 5 * time.Minute

// Orchestrator manages the document extraction pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	proc  *invoice.Processor
	stats *Stats
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch the workers.
func NewOrchestrator(cfg config.Config, proc *invoice.Processor, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		proc:  proc,
		stats: NewStats(time.Hour),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.proc, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of tracked jobs.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// Stats returns the extraction latency stats.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
