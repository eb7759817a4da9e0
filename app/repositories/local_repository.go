package repositories

import (
	"context"
	"errors"
	"log/slog"

	"folio/app/models"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often a collection rewrite is retried when a
// concurrent writer touched the same key.
const maxConflictRetries = 5

// LocalRepository keeps the whole post collection as one JSON array under
// PostsKey and the current quote under QuoteKey. A quote save overwrites the
// previous one; no history is kept.
type LocalRepository struct {
	db *badger.DB
}

// NewLocalRepository creates a LocalRepository over db. Close closes db.
func NewLocalRepository(db *badger.DB) *LocalRepository {
	return &LocalRepository{db: db}
}

// DB exposes the underlying database for backup and restore.
func (r *LocalRepository) DB() *badger.DB {
	return r.db
}

// Close closes the database.
func (r *LocalRepository) Close() error {
	return r.db.Close()
}

// readPosts loads the collection. A missing or malformed value reads as an
// empty collection; only storage errors are returned.
func readPosts(txn *badger.Txn) ([]*models.Post, error) {
	item, err := txn.Get([]byte(PostsKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var posts []*models.Post
	err = item.Value(func(val []byte) error {
		return unmarshalEntity(val, &posts)
	})
	if err != nil {
		slog.Warn("discarding malformed post collection", "key", PostsKey, "error", err)
		return nil, nil
	}
	return posts, nil
}

func writePosts(txn *badger.Txn, posts []*models.Post) error {
	if posts == nil {
		posts = []*models.Post{}
	}
	data, err := marshalEntity(posts)
	if err != nil {
		return err
	}
	return txn.Set([]byte(PostsKey), data)
}

// update runs fn in a read-write transaction, retrying on conflicts so the
// last writer wins instead of failing.
func (r *LocalRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for range maxConflictRetries {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// List retrieves all posts, newest first
func (r *LocalRepository) List(_ context.Context) []*models.Post {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		posts, err = readPosts(txn)
		return err
	})
	if err != nil {
		slog.Warn("listing posts failed", "backend", BackendLocal, "error", err)
		return []*models.Post{}
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	sortNewestFirst(posts)
	return posts
}

// GetByID retrieves a post by ID
func (r *LocalRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	for _, post := range r.List(ctx) {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, ErrNotFound
}

// Save inserts a new post at the front of the collection or replaces the
// post with the same ID in place.
func (r *LocalRepository) Save(_ context.Context, post *models.Post) error {
	return r.update(func(txn *badger.Txn) error {
		posts, err := readPosts(txn)
		if err != nil {
			return err
		}

		replaced := false
		for i, existing := range posts {
			if existing.ID == post.ID {
				posts[i] = post
				replaced = true
				break
			}
		}
		if !replaced {
			posts = append([]*models.Post{post}, posts...)
		}
		return writePosts(txn, posts)
	})
}

// Delete deletes a post by ID
func (r *LocalRepository) Delete(_ context.Context, id string) error {
	return r.update(func(txn *badger.Txn) error {
		posts, err := readPosts(txn)
		if err != nil {
			return err
		}

		kept := posts[:0]
		for _, post := range posts {
			if post.ID != id {
				kept = append(kept, post)
			}
		}
		if len(kept) == len(posts) {
			return nil
		}
		return writePosts(txn, kept)
	})
}

// GetQuote returns the stored quote or the fallback.
func (r *LocalRepository) GetQuote(_ context.Context) models.DailyQuote {
	var quote models.DailyQuote
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(QuoteKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &quote)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			slog.Warn("reading quote failed", "backend", BackendLocal, "error", err)
		}
		return models.FallbackQuote
	}
	return currentQuote(quote)
}

// SaveQuote overwrites the current quote.
func (r *LocalRepository) SaveQuote(_ context.Context, quote models.DailyQuote) error {
	data, err := marshalEntity(quote)
	if err != nil {
		return err
	}
	return r.update(func(txn *badger.Txn) error {
		return txn.Set([]byte(QuoteKey), data)
	})
}
