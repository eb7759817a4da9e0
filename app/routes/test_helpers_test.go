package routes

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"folio/app/auth"
	"folio/app/render"
	"folio/app/repositories"
	"folio/app/services"
	"folio/app/session"
	"folio/app/views"

	"github.com/stretchr/testify/require"
)

const (
	testUsername = "admin"
	testPassword = "password123"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testApp struct {
	server *httptest.Server
	client *http.Client
	clock  *testClock
	repo   repositories.ContentRepository
	posts  *services.PostService
}

// setupTestApp serves the full route table over an in-memory badger store.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := repositories.OpenBadger("")
	require.NoError(t, err)
	repo := repositories.NewLocalRepository(db)
	t.Cleanup(func() { repo.Close() })

	clock := &testClock{now: time.Date(2024, time.February, 14, 10, 0, 0, 0, time.UTC)}

	postService := services.NewPostService(repo, "Nishan Parajuli")
	postService.SetClock(clock.Now)
	sessions := session.NewManager(true, session.DefaultLifetime)
	sessions.SetClock(clock.Now)

	renderer, err := render.New(render.Config{
		TemplatesFS: views.FS,
		Sessions:    sessions,
		SiteAuthor:  "Nishan Parajuli",
	})
	require.NoError(t, err)

	handler := SetupRoutes(Deps{
		Posts:    postService,
		Quotes:   services.NewQuoteService(repo),
		Verifier: auth.NewVerifier(testUsername, auth.Digest(testPassword)),
		Sessions: sessions,
		Renderer: renderer,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testApp{
		server: srv,
		client: newBrowser(t),
		clock:  clock,
		repo:   repo,
		posts:  postService,
	}
}

// newBrowser returns a client with its own cookie jar that does not follow
// redirects.
func newBrowser(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) request(t *testing.T, client *http.Client, method, path, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	return a.request(t, a.client, http.MethodGet, path, "", "")
}

func (a *testApp) form(t *testing.T, path string, values url.Values) (*http.Response, string) {
	return a.request(t, a.client, http.MethodPost, path, "application/x-www-form-urlencoded", values.Encode())
}

func (a *testApp) json(t *testing.T, method, path, body string) (*http.Response, string) {
	return a.request(t, a.client, method, path, "application/json", body)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, _ := a.form(t, "/login", url.Values{"username": {testUsername}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
}
