package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// Manager binds Stores to browser cookie sessions.
type Manager struct {
	sessions *scs.SessionManager
	lifetime time.Duration
	now      func() time.Time
}

// NewManager creates a cookie session manager. Cookies are marked Secure
// outside development.
func NewManager(isDev bool, lifetime time.Duration) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	sm := scs.New()
	sm.Lifetime = lifetime
	sm.Cookie.Name = "folio_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return &Manager{
		sessions: sm,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// SetClock replaces the clock handed to every Store.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Middleware loads and saves the cookie session around each request.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return m.sessions.LoadAndSave(next)
}

// Store returns the Store of the session carried by ctx. ctx must come from
// a request that passed through Middleware.
func (m *Manager) Store(ctx context.Context) *Store {
	return NewStore(&cookieStorage{sessions: m.sessions, ctx: ctx}, WithLifetime(m.lifetime), WithClock(m.now))
}

// Login rotates the session token and marks the session authenticated.
// The caller must already have verified the credential.
func (m *Manager) Login(ctx context.Context) error {
	if err := m.sessions.RenewToken(ctx); err != nil {
		return err
	}
	m.Store(ctx).Login()
	return nil
}

// Logout clears the authenticated state of the session carried by ctx.
func (m *Manager) Logout(ctx context.Context) {
	m.Store(ctx).Logout()
}

// cookieStorage adapts one request's scs session to Storage.
type cookieStorage struct {
	sessions *scs.SessionManager
	ctx      context.Context
}

func (c *cookieStorage) Get(key string) (string, bool) {
	if !c.sessions.Exists(c.ctx, key) {
		return "", false
	}
	return c.sessions.GetString(c.ctx, key), true
}

func (c *cookieStorage) Set(key, value string) {
	c.sessions.Put(c.ctx, key, value)
}

func (c *cookieStorage) Delete(key string) {
	c.sessions.Remove(c.ctx, key)
}

// SetFlash stores a one-shot message shown on the next rendered page.
func (m *Manager) SetFlash(ctx context.Context, message, kind string) {
	m.sessions.Put(ctx, "flash", message)
	m.sessions.Put(ctx, "flash_type", kind)
}

// PopFlash returns and clears the pending flash message. kind defaults to
// "info".
func (m *Manager) PopFlash(ctx context.Context) (message, kind string) {
	message = m.sessions.PopString(ctx, "flash")
	if message == "" {
		return "", ""
	}
	kind = m.sessions.PopString(ctx, "flash_type")
	if kind == "" {
		kind = "info"
	}
	return message, kind
}
