package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dgallion1/invoicegest/internal/pipeline"
	"github.com/dgallion1/invoicegest/internal/source"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := s.readUpload(file)
	if err != nil {
		if errors.Is(err, errTooLarge) {
			jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	job := pipeline.NewJob(filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(jobAccepted(job))
}

func (s *Server) handleBatchExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	batchID := uuid.NewString()
	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !source.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		data, err := s.readPart(fh)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		job := pipeline.NewJob(filename, data)
		job.BatchID = batchID
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, jobAccepted(job))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"batch_id": batchID, "jobs": results})
}

var errTooLarge = errors.New("file exceeds max size")

// readUpload reads at most MaxUploadBytes of an uploaded file.
func (s *Server) readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w (%d bytes)", errTooLarge, s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func (s *Server) readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("failed to open file")
	}
	defer f.Close()
	data, err := s.readUpload(f)
	if err != nil && !errors.Is(err, errTooLarge) {
		return nil, errors.New("failed to read file")
	}
	return data, err
}

func jobAccepted(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	return map[string]any{
		"filename": snap.Filename,
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s/status", snap.ID),
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" || name == "_" {
		name = "unnamed"
	}
	return name
}
