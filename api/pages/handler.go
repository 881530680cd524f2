package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/config"
	"github.com/dpineda/mediashelf-backend/pkg/enums"
	"github.com/dpineda/mediashelf-backend/pkg/flash"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the HTML catalog pages.
type Handler struct {
	svc       catalog.Service
	logg      *logger.Logger
	secretKey string

	listTpl   *template.Template
	detailTpl *template.Template
	formTpl   *template.Template
	errorTpl  *template.Template
}

// NewHandler parses the embedded page templates and wires the catalog service.
func NewHandler(svc catalog.Service, cfg *config.Config, logg *logger.Logger) (*Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}

	list, err := parsePage("list_media.html")
	if err != nil {
		return nil, err
	}
	detail, err := parsePage("view_media.html")
	if err != nil {
		return nil, err
	}
	form, err := parsePage("media_form.html")
	if err != nil {
		return nil, err
	}
	errorPage, err := parsePage("error.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		svc:       svc,
		logg:      logg,
		secretKey: cfg.App.SecretKey,
		listTpl:   list,
		detailTpl: detail,
		formTpl:   form,
		errorTpl:  errorPage,
	}, nil
}

// pageFuncs are available to every template. The layout nav ranges over
// mediaTypes for its add links.
var pageFuncs = template.FuncMap{
	"mediaTypes": enums.AllMediaTypes,
}

// parsePage combines the shared layout with one content template.
func parsePage(page string) (*template.Template, error) {
	layout, err := template.New("layout.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	tpl, err := layout.ParseFS(templateFS, "templates/"+page)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	return tpl, nil
}

// Home redirects the root path to the catalog listing.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/media", http.StatusFound)
}

// pageData carries the fields every page template expects.
type pageData struct {
	Title   string
	Flashes []flash.Message
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, tpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		if h.logg != nil {
			h.logg.Error(r.Context(), "page.render", err)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorData struct {
	pageData
	Status  int
	Message string
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := errorData{
		pageData: pageData{Title: fmt.Sprintf("%d", status)},
		Status:   status,
		Message:  message,
	}
	h.render(w, r, status, h.errorTpl, data)
}

func (h *Handler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "That item does not exist.")
}

// NotFound handles unmatched HTML routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}
