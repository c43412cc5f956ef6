package server

import (
	"net/http"

	"github.com/cwagner/boxpack/internal/ui"
)

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Get all jobs from job manager
	jobs := s.jobManager.ListJobs()

	// Convert to UI job list items
	jobItems := make([]ui.JobListItem, len(jobs))
	for i, job := range jobs {
		jobItems[i] = ui.JobListItem{
			ID:        job.ID,
			State:     string(job.State),
			Algorithm: job.Config.Algorithm,
			Mode:      job.Config.Mode,
			Rects:     job.Config.Problem.RectCount,
			BoxSide:   job.Config.Problem.BoxSide,
			Tick:      job.Tick,
			Score:     job.Score.String(),
			Outcome:   job.Outcome,
			StartTime: job.StartTime,
			EndTime:   job.EndTime,
			Error:     job.Error,
		}
	}

	// Render the job list page using templ
	if err := ui.JobList(jobItems).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
