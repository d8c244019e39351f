package api

import (
	"net/http"

	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/internal/store"
)

// pendingTasks claims every pending task for the calling worker.
func (h *Handler) pendingTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.ClaimPending(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) submitResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var sub service.Submission
	if err := decode(w, r, &sub); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.SubmitResult(r.Context(), id, sub); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success)
}
