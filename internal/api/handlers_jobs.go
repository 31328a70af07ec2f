package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/invoicegest/internal/invoice"
	"github.com/dgallion1/invoicegest/internal/pipeline"
	"github.com/dgallion1/invoicegest/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	return job, true
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	snap := job.Snapshot()
	switch {
	case !snap.Done():
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	case snap.Status == pipeline.StatusFailed:
		jsonError(w, strings.Join(snap.Progress.Errors, "; "), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Result())
}

// handleJobReport renders the job as a workbook. A failed job still gets a
// workbook carrying its log row.
func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	snap := job.Snapshot()
	if !snap.Done() {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}

	res := invoice.Result{Filename: snap.Filename, Err: errors.New(strings.Join(snap.Progress.Errors, "; "))}
	if stored := job.Result(); stored != nil {
		res = *stored
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, report.Build(res, snap.UpdatedAt)); err != nil {
		s.log.Error("report failed", "job_id", snap.ID, "error", err)
		jsonError(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.OutputName(snap.Filename)))
	w.Write(buf.Bytes())
}
