package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Backend kinds accepted by Open.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Options selects and configures the backend built by Open.
type Options struct {
	Backend string

	// Local backend. An empty DBPath opens an in-memory store.
	DBPath string

	// Remote backend.
	RemoteURL     string
	RemoteKey     string
	RemoteTimeout time.Duration
}

// Open builds the ContentRepository named by opts.Backend.
func Open(opts Options) (ContentRepository, error) {
	switch opts.Backend {
	case BackendLocal, "":
		db, err := OpenBadger(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return NewLocalRepository(db), nil
	case BackendRemote:
		return NewRemoteRepository(opts.RemoteURL, opts.RemoteKey, opts.RemoteTimeout), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// OpenBadger opens the Badger database at path, or an in-memory one when
// path is empty.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", path, err)
	}
	return db, nil
}
