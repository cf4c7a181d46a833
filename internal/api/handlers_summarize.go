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
	"github.com/nextudy/summarizer/internal/jobs"
	"github.com/nextudy/summarizer/internal/parser"
	"github.com/nextudy/summarizer/internal/summarize"
)

type summarizeRequest struct {
	BookTitle   string `json:"bookTitle"`
	Author      string `json:"author"`
	BookContent string `json:"bookContent"`
	IncludeQA   bool   `json:"includeQA"`
}

type summarizeResponse struct {
	Summary         string `json:"summary"`
	ChunksProcessed int    `json:"chunksProcessed"`
	TotalChunks     int    `json:"totalChunks"`
	FailedChunks    []int  `json:"failedChunks,omitempty"`
}

// handleSummarize runs the pipeline synchronously on JSON input.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.BookTitle) == "" {
		jsonError(w, "bookTitle is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Author) == "" {
		jsonError(w, "author is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.BookContent) == "" {
		jsonError(w, "bookContent is required", http.StatusBadRequest)
		return
	}

	res, err := s.pipeline.Run(r.Context(), summarize.Request{
		Title:     req.BookTitle,
		Author:    req.Author,
		Content:   req.BookContent,
		IncludeQA: req.IncludeQA,
	})
	if err != nil {
		s.writeSummarizeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summarizeResponse{
		Summary:         res.Summary,
		ChunksProcessed: res.ChunksProcessed,
		TotalChunks:     res.TotalChunks,
		FailedChunks:    res.FailedChunks,
	})
}

// writeSummarizeError maps pipeline errors onto the HTTP error contract.
func (s *Server) writeSummarizeError(w http.ResponseWriter, err error) {
	var totalErr *summarize.TotalFailureError
	switch {
	case errors.Is(err, summarize.ErrEmptyInput), errors.Is(err, summarize.ErrNoChunks):
		jsonError(w, "no usable text detected in bookContent", http.StatusBadRequest)
	case errors.As(err, &totalErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error":         "summary generation failed for every chunk",
			"failed_chunks": totalErr.FailedChunks,
			"total_chunks":  totalErr.TotalChunks,
		})
	default:
		var fuseErr *summarize.FuseError
		if errors.As(err, &fuseErr) {
			jsonError(w, "failed to merge section summaries", http.StatusInternalServerError)
			return
		}
		s.log.Error("summarize failed", "error", err)
		jsonError(w, "summary generation failed", http.StatusInternalServerError)
	}
}

// handleSummarizeFile accepts a document upload and queues an async job.
func (s *Server) handleSummarizeFile(w http.ResponseWriter, r *http.Request) {
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
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	title := r.FormValue("title")
	author := r.FormValue("author")
	includeQA := r.FormValue("include_qa") == "true"

	job := jobs.NewJob(filename, title, author, includeQA, data)
	jobID := job.ID
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	// A worker may already own the job; report the state it was submitted in
	// rather than reading mutable fields without the lock.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   jobID,
		"status":   jobs.StatusQueued,
		"poll_url": fmt.Sprintf("/api/summarize/jobs/%s", jobID),
	})
}

// handleJobStatus returns a snapshot of one job.
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
