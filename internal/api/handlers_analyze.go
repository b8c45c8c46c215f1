package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmoralesc/actalyzer/internal/extract"
	"github.com/dmoralesc/actalyzer/internal/llm"
	"github.com/dmoralesc/actalyzer/internal/pipeline"
)

// handleAnalyze runs the pipeline synchronously for one uploaded acta,
// persists the result, and returns it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.processor.Process(r.Context(), data, filename)
	if err != nil {
		s.writeProcessingError(w, filename, err)
		return
	}

	id, err := s.store.Create(r.Context(), result)
	if err != nil {
		s.log.Error("persist analysis failed", "filename", filename, "error", err)
		jsonError(w, "analysis completed but could not be saved", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     id,
		"result": result,
	})
}

// handleAnalyzeAsync enqueues the upload and returns a poll URL.
func (s *Server) handleAnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// readUpload validates and reads the multipart file field. On failure it
// writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s (only .docx and .txt are accepted)", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	if len(data) == 0 {
		jsonError(w, "file is empty", http.StatusBadRequest)
		return "", nil, false
	}

	return filename, data, true
}

// writeProcessingError maps pipeline error kinds to status codes. The
// kinds survive the orchestrator wrapper via errors.As.
func (s *Server) writeProcessingError(w http.ResponseWriter, filename string, err error) {
	s.log.Error("document analysis failed", "filename", filename, "error", err)

	var formatErr *extract.UnsupportedFormatError
	var rateErr *llm.RateLimitError
	var authErr *llm.AuthError
	var svcErr *llm.ServiceError

	switch {
	case errors.As(err, &formatErr):
		jsonError(w, formatErr.Error(), http.StatusBadRequest)
	case errors.As(err, &rateErr):
		jsonError(w, "AI service rate limit exceeded, try again later", http.StatusTooManyRequests)
	case errors.As(err, &authErr), errors.As(err, &svcErr):
		jsonError(w, "AI service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		jsonError(w, fmt.Sprintf("failed to process document: %s", err), http.StatusInternalServerError)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
