package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleRank queues a ranking job over the uploaded files.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var cq config.Query
	cq.Persona.Role = r.FormValue("persona")
	cq.JobToBeDone.Task = r.FormValue("task")
	q, err := cq.RankQuery()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	seen := make(map[string]bool)
	for _, fh := range headers {
		name, data, status, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), status)
			return
		}
		if seen[name] {
			jsonError(w, fmt.Sprintf("duplicate file name: %s", name), http.StatusBadRequest)
			return
		}
		seen[name] = true
		files = append(files, pipeline.File{Name: name, Data: data})
	}

	job := pipeline.NewJob(q, files)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("queued ranking job", "job_id", job.ID, "documents", len(files))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/rank/%s/status", job.ID),
		"result_url": fmt.Sprintf("/api/rank/%s/result", job.ID),
	})
}

func (s *Server) handleRankStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleRankResult returns the report once the job has one. Jobs still in
// flight answer 409; failed jobs answer 422 with their errors.
func (s *Server) handleRankResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if !snap.Status.Done() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  "job not finished",
			"status": snap.Status,
		})
		return
	}

	rep := job.Report()
	if rep == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  errors.Join(errorsOf(snap)...).Error(),
			"status": snap.Status,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func errorsOf(snap pipeline.JobSnapshot) []error {
	if len(snap.Progress.Errors) == 0 {
		return []error{errors.New("job failed")}
	}
	errs := make([]error, len(snap.Progress.Errors))
	for i, e := range snap.Progress.Errors {
		errs[i] = errors.New(e)
	}
	return errs
}
