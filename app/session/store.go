// Package session keeps the admin login state of one browser.
//
// A Store only reads and writes two keys through a Storage. Expiry is lazy:
// an expired session is removed by the first IsAuthenticated call that sees
// it, never by a timer.
package session

import (
	"sync"
	"time"
)

const (
	// DefaultLifetime is how long a login stays valid.
	DefaultLifetime = 24 * time.Hour

	authenticatedKey = "authenticated"
	issuedAtKey      = "issuedAt"
)

// State is the combined guard/session state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "AUTHENTICATED"
	}
	return "ANONYMOUS"
}

// Storage is the minimal key/value surface a Store needs.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Option configures a Store.
type Option func(*Store)

// WithLifetime overrides DefaultLifetime.
func WithLifetime(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lifetime = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store manages the authenticated flag and its issue time.
type Store struct {
	storage  Storage
	lifetime time.Duration
	now      func() time.Time
}

// NewStore creates a Store over storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:  storage,
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login records a fresh authenticated session. Call it only after the
// credential has been verified.
func (s *Store) Login() {
	s.storage.Set(authenticatedKey, "true")
	s.storage.Set(issuedAtKey, s.now().UTC().Format(time.RFC3339Nano))
}

// Logout clears both session keys.
func (s *Store) Logout() {
	s.storage.Delete(authenticatedKey)
	s.storage.Delete(issuedAtKey)
}

// IsAuthenticated reports whether the session is valid now. An expired or
// corrupt session is logged out as a side effect.
func (s *Store) IsAuthenticated() bool {
	flag, ok := s.storage.Get(authenticatedKey)
	if !ok || flag != "true" {
		return false
	}

	raw, _ := s.storage.Get(issuedAtKey)
	issuedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil || s.now().Sub(issuedAt) >= s.lifetime {
		s.Logout()
		return false
	}
	return true
}

// State maps IsAuthenticated onto the two-state machine.
func (s *Store) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
