package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wonny/aistocks/internal/dataset"
	"github.com/wonny/aistocks/internal/scheduler"
	"github.com/wonny/aistocks/pkg/logger"
)

// JobsHandler exposes scheduler state and manual reloads
type JobsHandler struct {
	sched  *scheduler.Scheduler // nil when periodic reloads are disabled
	reload scheduler.Job
	data   *dataset.Store
	logger *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(sched *scheduler.Scheduler, reload scheduler.Job, data *dataset.Store, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		sched:  sched,
		reload: reload,
		data:   data,
		logger: log.WithField("handler", "jobs"),
	}
}

// GetJobs returns statistics for every scheduled job
// GET /api/jobs
func (h *JobsHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if h.sched == nil {
		respondJSON(w, http.StatusOK, map[string]scheduler.JobStats{})
		return
	}
	respondJSON(w, http.StatusOK, h.sched.Stats())
}

// ReloadResponse describes the dataset after a reload
type ReloadResponse struct {
	Version    int64      `json:"version"`
	Records    int        `json:"records"`
	Source     string     `json:"source"`
	LatestDate *time.Time `json:"latest_date,omitempty"`
}

// Reload refreshes the dataset now with a single attempt bound to the request.
// On failure the previous dataset stays live.
// POST /api/reload
func (h *JobsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	var err error
	if h.sched != nil {
		var result scheduler.JobResult
		result, err = h.sched.RunJobOnce(r.Context(), h.reload.Name())
		if errors.Is(err, scheduler.ErrJobBusy) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		if err == nil && !result.Success {
			err = errors.New(result.Error)
		}
	} else {
		err = h.reload.Run(r.Context())
	}
	if err != nil {
		h.logger.WithError(err).Error("Manual reload failed")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	snap := h.data.Snapshot()
	respondJSON(w, http.StatusOK, ReloadResponse{
		Version:    snap.Version,
		Records:    len(snap.Records),
		Source:     snap.Source,
		LatestDate: snap.Latest(),
	})
}
