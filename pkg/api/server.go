// Package api exposes the extraction pipeline over HTTP: submit a document,
// poll job status, and fetch the structured result and crop files once a job
// completes. The handlers are a thin shell over the orchestrator; failure
// responses carry the job's recorded reason and nothing else.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/critex/critex/pkg/config"
	"github.com/critex/critex/pkg/extraction"
	"github.com/critex/critex/pkg/jobs"
)

// Server holds the HTTP handlers for the extraction API.
type Server struct {
	orch   *extraction.Orchestrator
	cfg    *config.Config
	logger *zap.Logger
}

// NewServer wires the handlers over an orchestrator.
func NewServer(orch *extraction.Orchestrator, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{orch: orch, cfg: cfg, logger: logger}
}

// Handler returns the routed API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/v1/extract", s.handleExtract)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}/result", s.handleResult)
	mux.HandleFunc("GET /api/v1/jobs/{id}/files", s.handleFiles)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract accepts a multipart PDF upload, stages it in the upload
// directory and starts a job. The response carries the job id for polling.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "request must include a file upload")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "file must be a PDF")
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		s.logger.Error("failed to create upload directory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store the uploaded file")
		return
	}

	staged := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"_"+filepath.Base(header.Filename))
	dst, err := os.Create(staged)
	if err != nil {
		s.logger.Error("failed to stage upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store the uploaded file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(staged)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
			return
		}
		s.logger.Error("failed to stage upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store the uploaded file")
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(staged)
		s.logger.Error("failed to stage upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store the uploaded file")
		return
	}

	// The job outlives the request, so detach it from the request context.
	job := s.orch.Start(context.WithoutCancel(r.Context()), staged)
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.orch.Store().Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleResult serves the structured record once the job has completed.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.orch.Store().Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	switch job.Status {
	case jobs.StatusCompleted:
		http.ServeFile(w, r, filepath.Join(job.OutputDir, extraction.ResultFilename))
	case jobs.StatusFailed:
		writeError(w, http.StatusConflict, fmt.Sprintf("job failed: %s", job.Error))
	default:
		writeError(w, http.StatusConflict, fmt.Sprintf("job is %s", job.Status))
	}
}

// handleFiles lists the output files of a completed job.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	job, ok := s.orch.Store().Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	if job.Status != jobs.StatusCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("job is %s", job.Status))
		return
	}

	entries, err := os.ReadDir(job.OutputDir)
	if err != nil {
		s.logger.Error("failed to list job output", zap.String("job_id", job.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list job output")
		return
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job_id": job.ID, "files": files})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
