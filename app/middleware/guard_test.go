package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"folio/app/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func setupGuard(t *testing.T) (*httptest.Server, *http.Client, *testClock) {
	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	sessions := session.NewManager(true, time.Hour)
	sessions.SetClock(clock.Now)

	protected := RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret"))
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, sessions.Login(r.Context()))
			return
		}
		w.Write([]byte("login page"))
	})
	mux.Handle("/admin", protected)
	mux.Handle("/api/posts", protected)

	srv := httptest.NewServer(sessions.Middleware(mux))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client, clock
}

func TestRequireAuthAnonymous(t *testing.T) {
	srv, client, _ := setupGuard(t)

	resp, err := client.Get(srv.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))

	resp, err = client.Post(srv.URL+"/api/posts", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Authentication required", body["error"])
}

func TestRequireAuthAuthenticatedAndExpiry(t *testing.T) {
	srv, client, clock := setupGuard(t)

	resp, err := client.Post(srv.URL+"/login", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()

	for _, path := range []string{"/admin", "/api/posts"} {
		resp, err = client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	clock.Advance(59 * time.Minute)
	resp, err = client.Get(srv.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "still inside the lifetime")

	clock.Advance(time.Minute)
	resp, err = client.Get(srv.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "expired on the first check after the lifetime")

	clock.Advance(-time.Hour)
	resp, err = client.Get(srv.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "expiry cleared the session")
}
