package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vindo333/extractor/internal/pipeline"
)

func (s *Server) handleExtractStart(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeExtractRequest(w, r)
	if !ok {
		return
	}
	s.submit(w, pipeline.NewJob(req))
}

// handleExtractUpload queues uploaded files (multipart field "files") as a
// batch. Each file's name picks its parser when no content type is sent.
func (s *Server) handleExtractUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	credential := r.FormValue("apiKey")
	if credential == "" {
		credential = s.cfg.APIKey()
	}
	if len(files) == 0 || credential == "" {
		jsonError(w, errMissingParams, http.StatusBadRequest)
		return
	}

	req := pipeline.Request{
		Credential:     credential,
		Language:       r.FormValue("language"),
		IncludeOutline: r.FormValue("includeOutline") == "true",
	}
	if req.Language == "" {
		req.Language = s.cfg.DefaultLanguage
	}

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open file", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			jsonError(w, "failed to read file", http.StatusBadRequest)
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType == "application/octet-stream" {
			contentType = ""
		}
		req.Sources = append(req.Sources, pipeline.Source{
			URL:         "file:///" + sanitizeFilename(fh.Filename),
			ContentType: contentType,
			Body:        data,
		})
	}

	s.submit(w, pipeline.NewJob(req))
}

func (s *Server) submit(w http.ResponseWriter, job *pipeline.Job) {
	if err := s.orchestrator.Submit(job); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrQueueFull) {
			code = http.StatusServiceUnavailable
		}
		jsonError(w, err.Error(), code)
		return
	}

	snap := job.Snapshot()
	s.log.Info("job queued", "job_id", snap.ID, "urls", snap.Progress.TotalURLs)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/extract/%s/status", snap.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobResults(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	result, ok := job.Result()
	if !ok {
		jsonError(w, fmt.Sprintf("job is %s", job.Snapshot().Status), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
