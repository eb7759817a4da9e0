package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"folio/app/session"
)

const baseLayout = "layouts/base.html"

// Renderer executes the page templates inside the base layout.
type Renderer struct {
	templates  map[string]*template.Template
	sessions   *session.Manager
	siteAuthor string
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Sessions    *session.Manager
	SiteAuthor  string
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title         string
	Data          any
	Flash         string
	FlashType     string
	Authenticated bool
	SiteAuthor    string
	CurrentYear   int
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:  make(map[string]*template.Template),
		sessions:   cfg.Sessions,
		siteAuthor: cfg.SiteAuthor,
	}
	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}
	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")

		files := append([]string{baseLayout}, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"pathEscape": url.PathEscape,
	}
}

// Render writes the named page with status. Flash and authentication state
// come from the request's session when a session manager is configured.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.SiteAuthor = r.siteAuthor
	if r.sessions != nil {
		ctx := req.Context()
		data.Authenticated = r.sessions.Store(ctx).IsAuthenticated()
		if data.Flash == "" {
			data.Flash, data.FlashType = r.sessions.PopFlash(ctx)
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash queues a message for the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, kind string) {
	if r.sessions != nil {
		r.sessions.SetFlash(req.Context(), message, kind)
	}
}
