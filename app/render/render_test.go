package render

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"folio/app/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererParsesEmbeddedViews(t *testing.T) {
	r, err := New(Config{TemplatesFS: views.FS, SiteAuthor: "Nishan Parajuli"})
	require.NoError(t, err)

	for _, name := range []string{"home", "blog", "post", "not_found", "login", "admin", "edit"} {
		assert.Contains(t, r.templates, name)
	}
}

func TestRender(t *testing.T) {
	templatesFS := fstest.MapFS{
		"layouts/base.html":   {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}[{{.FlashType}}:{{.Flash}}]{{end}}{{template "content" .}} {{.SiteAuthor}} {{.CurrentYear}}{{end}}`)},
		"partials/greet.html": {Data: []byte(`{{define "greet"}}hello {{.}}{{end}}`)},
		"pages/hello.html":    {Data: []byte(`{{define "content"}}{{template "greet" .Data}}{{end}}`)},
	}
	r, err := New(Config{TemplatesFS: templatesFS, SiteAuthor: "Me"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err = r.Render(w, req, http.StatusTeapot, "hello", TemplateData{
		Title:     "Greeting",
		Data:      "<world>",
		Flash:     "saved",
		FlashType: "success",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>Greeting</title>")
	assert.Contains(t, body, "[success:saved]")
	assert.Contains(t, body, "hello &lt;world&gt;")
	assert.Contains(t, body, " Me ")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: views.FS})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", TemplateData{})
	assert.Error(t, err)
	assert.Empty(t, w.Body.String())
}
