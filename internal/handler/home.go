package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// HomeHandler renders the landing page.
//
// Templates are parsed once at construction (expensive) and reused per
// request (cheap). A missing template directory fails server startup rather
// than every request.
type HomeHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewHomeHandler parses the templates in templateDir.
func NewHomeHandler(templateDir string, logger *slog.Logger) (*HomeHandler, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	return &HomeHandler{templates: tmpl, logger: logger}, nil
}

// HandleHome serves the landing page.
//
// HTTP: GET /
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		h.logger.Error("failed to render home page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
