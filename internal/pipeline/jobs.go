package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/invoicegest/internal/invoice"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document extraction.
type Job struct {
	mu sync.Mutex

	ID      string `json:"job_id"`
	BatchID string `json:"batch_id,omitempty"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *invoice.Result
	errors   []string
}

// Progress summarizes what extraction found.
type Progress struct {
	Lines  int      `json:"lines"`
	Fields int      `json:"fields"`
	Items  int      `json:"items"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// NewJob creates a queued job for one uploaded document.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the extraction outcome and releases the uploaded bytes.
// Validation errors are copied into the progress errors.
func (j *Job) SetResult(res invoice.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.fileData = nil
	j.Progress.Lines = len(res.Lines)
	j.Progress.Fields = res.Fields.Len()
	j.Progress.Items = len(res.Items)
	j.Progress.Valid = res.Report.Valid
	j.errors = append(j.errors, res.Report.Errors...)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// Result returns the extraction outcome, or nil while the job is pending or
// when it failed.
func (j *Job) Result() *invoice.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	BatchID     string    `json:"batch_id,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:          j.ID,
		BatchID:     j.BatchID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Progress:    p,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// Done reports whether the job reached a terminal state.
func (s JobSnapshot) Done() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
