// Package api serves the JSON API used by the monitor worker and the console
// forms.
package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sugawarayuuta/sonnet"

	"github.com/geo-dev/geo/internal/service"
	"github.com/geo-dev/geo/pkg/middleware"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the API.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// New creates an API handler.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger.With("component", "api")}
}

// Routes returns the API router. Mount it under the API prefix.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.health)

	r.Route("/prompts", func(r chi.Router) {
		r.Get("/", h.listPrompts)
		r.Post("/", h.createPrompt)
		r.Get("/{id}", h.getPrompt)
		r.Put("/{id}", h.updatePrompt)
		r.Delete("/{id}", h.deletePrompt)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/pending", h.pendingTasks)
		r.Get("/{id}", h.getTask)
		r.Post("/{id}/result", h.submitResult)
	})

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.listArticles)
		r.Post("/", h.createArticle)
		r.Post("/generate", h.generateArticle)
		r.Get("/{id}", h.getArticle)
		r.Put("/{id}", h.updateArticle)
		r.Delete("/{id}", h.deleteArticle)
		r.Post("/{id}/publish", h.publishArticle)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// success is the acknowledgement sent by endpoints with no resource to return.
var success = map[string]string{"message": "success"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonnet.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !isJSONContentType(ct) {
		return &HTTPError{Code: http.StatusUnsupportedMediaType, Message: "unsupported content type"}
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &HTTPError{Code: http.StatusRequestEntityTooLarge, Message: "request body too large", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return BadRequestf("missing request body")
	}
	if err := sonnet.Unmarshal(data, dst); err != nil {
		return &HTTPError{Code: http.StatusBadRequest, Message: "invalid JSON body", Err: err}
	}
	return nil
}

func isJSONContentType(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequestf("invalid id %q", raw)
	}
	return id, nil
}
