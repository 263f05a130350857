// Package server exposes template rendering over HTTP.
package server

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	xmlform "github.com/goliatone/go-xmlform"
	"github.com/goliatone/go-xmlform/pkg/model"
	"github.com/goliatone/go-xmlform/pkg/transform"
)

// ContinuationHeader carries the continuation token used for a response.
const ContinuationHeader = "X-Xmlform-Continuation"

// Handler renders templates read from a file system.
type Handler struct {
	engine    *xmlform.Engine
	templates fs.FS
	logger    *slog.Logger
}

// NewHandler builds a Handler. The engine should rewrite action ids from the
// request context (xmlform.WithContinuationToken("")).
func NewHandler(engine *xmlform.Engine, templates fs.FS, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, templates: templates, logger: logger}
}

// NewRouter wires the render, metrics and health routes.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.health)
	r.Get("/templates/{name}", h.render)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// render serves GET /templates/{name}. The continuation query parameter is
// used as the token when present; otherwise a new one is minted.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validName(name) {
		http.Error(w, "invalid template name", http.StatusBadRequest)
		return
	}
	file, err := h.templates.Open(templateFile(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.logger.ErrorContext(r.Context(), "xmlform: open template", "template", name, "error", err)
		http.Error(w, "template unavailable", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	token := strings.TrimSpace(r.URL.Query().Get("continuation"))
	if token == "" {
		token = uuid.NewString()
	}
	ctx := transform.ContextWithContinuation(r.Context(), token)
	ctx = model.ContextWithSession(ctx, token)

	var buf bytes.Buffer
	if err := h.engine.Render(ctx, file, &buf); err != nil {
		status := statusFor(err)
		h.logger.WarnContext(ctx, "xmlform: render failed",
			"template", name,
			"status", status,
			"request_id", middleware.GetReqID(ctx),
			"error", err,
		)
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set(ContinuationHeader, token)
	_, _ = w.Write(buf.Bytes())
}

func statusFor(err error) int {
	var tagErr *transform.TagError
	switch {
	case errors.Is(err, model.ErrFormNotFound):
		return http.StatusNotFound
	case errors.As(err, &tagErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func validName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}
	return fs.ValidPath(name)
}

func templateFile(name string) string {
	if path.Ext(name) == ".xml" {
		return name
	}
	return name + ".xml"
}
