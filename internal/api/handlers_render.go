package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/apidoc/internal/ir"
	"github.com/dgallion1/apidoc/internal/pipeline"
	"github.com/dgallion1/apidoc/internal/render"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	data, code, err := s.irPayload(r)
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}
	if !json.Valid(data) {
		jsonError(w, "ir document is not valid JSON", http.StatusBadRequest)
		return
	}

	formats := r.Form["format"]
	if len(formats) == 0 {
		formats = s.cfg.Formats
	}
	for _, f := range formats {
		if !render.SupportedFormats[f] {
			jsonError(w, fmt.Sprintf("unsupported output format: %s", f), http.StatusBadRequest)
			return
		}
	}

	title := r.FormValue("title")
	if title == "" {
		title = s.cfg.IndexTitle
	}
	intro := r.FormValue("intro")
	if intro == "" {
		intro = s.cfg.IntroMessage
	}
	separate := s.cfg.SeparatePages
	if v := r.FormValue("separate_pages"); v != "" {
		separate = v == "true"
	}
	contents := s.cfg.ContentsTable
	if v := r.FormValue("contents_table"); v != "" {
		contents = v == "true"
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:            pipeline.NewJobID(),
		Status:        pipeline.StatusQueued,
		Phase:         "queued",
		Formats:       formats,
		Package:       r.FormValue("package"),
		Modules:       r.Form["module"],
		SeparatePages: separate,
		Title:         title,
		Intro:         intro,
		ContentsTable: contents,
		IRHash:        pipeline.ContentHashHex(data),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	job.SetIRData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"ir_hash":  job.IRHash,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/render/%s/status", job.ID),
	})
}

// irPayload extracts the API reference document for a render request: the
// uploaded "ir" form file when present, otherwise the reference on disk
// under the configured source directory. On failure the returned code is
// the HTTP status to respond with.
func (s *Server) irPayload(r *http.Request) (data []byte, code int, err error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return s.irFromDisk()
		}
		return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("ir")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return s.irFromDisk()
		}
		return nil, http.StatusBadRequest, fmt.Errorf("read ir upload: %w", err)
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, errors.New("failed to read ir file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("ir file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, 0, nil
}

func (s *Server) irFromDisk() ([]byte, int, error) {
	data, err := ir.ReadSource(s.cfg.SourceDir, s.cfg.IRName)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return data, 0, nil
}

func (s *Server) handleRenderStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"package":  snap.PackageName,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"formats":  snap.Formats,
		"progress": snap.Progress,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
