package repositories

import (
	"context"
	"testing"

	"folio/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	db, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestLocalRepository(t *testing.T) *LocalRepository {
	return &LocalRepository{db: setupTestDB(t)}
}

func TestLocalRepositoryContract(t *testing.T) {
	runContractTests(t, func(t *testing.T) ContentRepository {
		return newTestLocalRepository(t)
	})
}

func rawValue(t *testing.T, db *badger.DB, key string) []byte {
	var out []byte
	require.NoError(t, db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	}))
	return out
}

func TestLocalRepositoryLayout(t *testing.T) {
	ctx := context.Background()
	repo := newTestLocalRepository(t)

	// Both posts share a date so the stored order is what we observe.
	older := testPost("older", 1)
	newer := testPost("newer", 1)
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	var stored []*models.Post
	require.NoError(t, unmarshalEntity(rawValue(t, repo.db, PostsKey), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "newer", stored[0].ID, "new posts are prepended")
	assert.Equal(t, "older", stored[1].ID)

	// Replacing keeps the position.
	edited := testPost("older", 1)
	edited.Title = "Edited"
	require.NoError(t, repo.Save(ctx, edited))
	require.NoError(t, unmarshalEntity(rawValue(t, repo.db, PostsKey), &stored))
	assert.Equal(t, []string{"newer", "older"}, []string{stored[0].ID, stored[1].ID})
	assert.Equal(t, "Edited", stored[1].Title)
}

func TestLocalRepositoryMalformedData(t *testing.T) {
	ctx := context.Background()
	repo := newTestLocalRepository(t)

	require.NoError(t, repo.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(PostsKey), []byte("{not json")); err != nil {
			return err
		}
		return txn.Set([]byte(QuoteKey), []byte("[]"))
	}))

	assert.Empty(t, repo.List(ctx))
	_, err := repo.GetByID(ctx, "anything")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.FallbackQuote, repo.GetQuote(ctx))

	// A write replaces the unreadable collection.
	require.NoError(t, repo.Save(ctx, testPost("fresh", 1)))
	assert.Len(t, repo.List(ctx), 1)
}

func TestLocalRepositoryIncompleteQuote(t *testing.T) {
	ctx := context.Background()
	repo := newTestLocalRepository(t)

	require.NoError(t, repo.SaveQuote(ctx, models.DailyQuote{Text: "No author"}))
	assert.Equal(t, models.FallbackQuote, repo.GetQuote(ctx))
}

func TestLocalRepositoryQuoteOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestLocalRepository(t)

	require.NoError(t, repo.SaveQuote(ctx, models.DailyQuote{Text: "One", Author: "A"}))
	require.NoError(t, repo.SaveQuote(ctx, models.DailyQuote{Text: "Two", Author: "B"}))

	var stored models.DailyQuote
	require.NoError(t, unmarshalEntity(rawValue(t, repo.db, QuoteKey), &stored))
	assert.Equal(t, models.DailyQuote{Text: "Two", Author: "B"}, stored)
}

func TestLocalRepositoryDeleteMissingDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	repo := newTestLocalRepository(t)

	require.NoError(t, repo.Delete(ctx, "ghost"))
	err := repo.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(PostsKey))
		return err
	})
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestLocalRepositoryReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := OpenBadger(dir)
	require.NoError(t, err)
	repo := NewLocalRepository(db)
	require.NoError(t, repo.Save(ctx, testPost("durable", 1)))
	require.NoError(t, repo.Close())

	db, err = OpenBadger(dir)
	require.NoError(t, err)
	repo = NewLocalRepository(db)
	t.Cleanup(func() { repo.Close() })

	got, err := repo.GetByID(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, testPost("durable", 1), got)
}

func TestOpen(t *testing.T) {
	repo, err := Open(Options{Backend: BackendLocal})
	require.NoError(t, err)
	assert.IsType(t, &LocalRepository{}, repo)
	require.NoError(t, repo.Close())

	repo, err = Open(Options{Backend: BackendRemote, RemoteURL: "http://localhost:1", RemoteKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteRepository{}, repo)
	require.NoError(t, repo.Close())

	_, err = Open(Options{Backend: "sqlite"})
	assert.Error(t, err)
}
