package repositories

import (
	"context"

	"folio/app/models"
)

// ContentRepository is the storage contract for posts and the daily quote.
//
// Reads never fail the caller: List degrades to an empty slice, GetByID to
// ErrNotFound and GetQuote to models.FallbackQuote, each with a logged
// diagnostic. Writes return their error so the caller can tell the user the
// change did not persist.
type ContentRepository interface {
	// List returns all posts, newest first.
	List(ctx context.Context) []*models.Post
	// GetByID returns the post with the given id or an error matching ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Save inserts the post or replaces the one with the same id.
	Save(ctx context.Context, post *models.Post) error
	// Delete removes the post with the given id. A missing id is not an error.
	Delete(ctx context.Context, id string) error
	// GetQuote returns the most recently saved quote.
	GetQuote(ctx context.Context) models.DailyQuote
	// SaveQuote makes quote the current one.
	SaveQuote(ctx context.Context, quote models.DailyQuote) error
	// Close releases the backend.
	Close() error
}
