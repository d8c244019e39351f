package api

import (
	"net/http"

	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/internal/store"
)

func (h *Handler) listPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.svc.ListPrompts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if prompts == nil {
		prompts = []store.Prompt{}
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (h *Handler) getPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.GetPrompt(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) createPrompt(w http.ResponseWriter, r *http.Request) {
	var in service.PromptInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.CreatePrompt(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) updatePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in service.PromptInput
	if err := decode(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.UpdatePrompt(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) deletePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeletePrompt(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
