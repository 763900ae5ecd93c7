package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	layoutTemplate = "layout.html"
	layoutName     = "layout"
)

// Page names. Each has a <name>.html template defining "content".
const (
	PageIndex   = "index"
	PageAbout   = "about"
	PageContact = "contact"
	PageChat    = "chat"
)

// PageData is passed to every page template
type PageData struct {
	Title   string
	Message string
}

var pageData = map[string]PageData{
	PageIndex:   {Title: "Home Page", Message: "Coder29 is here"},
	PageAbout:   {Title: "About Page"},
	PageContact: {Title: "Contact me"},
	PageChat:    {Title: "Chat"},
}

// PageHandler renders the server-side pages and serves static assets
type PageHandler struct {
	pages  map[string]*template.Template
	static fs.FS
	logger *slog.Logger
}

// NewPageHandler parses every page against the shared layout. static may be
// nil, in which case /static is not served.
func NewPageHandler(templates, static fs.FS, logger *slog.Logger) (*PageHandler, error) {
	h := &PageHandler{
		pages:  make(map[string]*template.Template, len(pageData)),
		static: static,
		logger: logger.With(slog.String("component", "page_handler")),
	}

	for name := range pageData {
		tmpl, err := template.ParseFS(templates, layoutTemplate, name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		h.pages[name] = tmpl
	}

	return h, nil
}

// RegisterRoutes adds the page and static routes to r
func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Page(PageIndex))
	r.Get("/about", h.Page(PageAbout))
	r.Get("/contact", h.Page(PageContact))
	r.Get("/chat", h.Page(PageChat))

	if h.static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.static))))
	}
}

// Page returns a handler rendering the named page
func (h *PageHandler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl, ok := h.pages[name]
		if !ok {
			http.NotFound(w, r)
			return
		}

		// Render into a buffer so a template error never leaves a half page
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, layoutName, pageData[name]); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to render page",
				slog.String("page", name),
				slog.String("error", err.Error()),
				slog.String("request_id", middleware.GetReqID(r.Context())))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}
