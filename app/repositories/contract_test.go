package repositories

import (
	"context"
	"testing"
	"time"

	"folio/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost(id string, day int) *models.Post {
	return &models.Post{
		ID:       id,
		Title:    "Post " + id,
		Excerpt:  "Excerpt of " + id,
		Content:  "# Heading\n\nBody of " + id,
		ImageURL: "https://example.com/" + id + ".png",
		Author:   "Nishan Parajuli",
		Date:     time.Date(2024, 5, day, 12, 0, 0, 0, time.UTC),
		Tags:     []string{"General", "Update"},
	}
}

// runContractTests exercises the behaviour every ContentRepository shares.
func runContractTests(t *testing.T, newRepo func(t *testing.T) ContentRepository) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		repo := newRepo(t)
		posts := repo.List(ctx)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("save new post grows list by one", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, testPost("first", 1)))
		assert.Len(t, repo.List(ctx), 1)
		require.NoError(t, repo.Save(ctx, testPost("second", 2)))
		assert.Len(t, repo.List(ctx), 2)
	})

	t.Run("save existing id replaces fields", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, testPost("first", 1)))

		edited := testPost("first", 1)
		edited.Title = "Edited"
		edited.Content = "New body"
		edited.Tags = []string{"Engineering"}
		require.NoError(t, repo.Save(ctx, edited))

		posts := repo.List(ctx)
		require.Len(t, posts, 1)
		assert.Equal(t, edited, posts[0])
	})

	t.Run("round trip", func(t *testing.T) {
		repo := newRepo(t)
		post := testPost("round-trip", 3)
		require.NoError(t, repo.Save(ctx, post))

		got, err := repo.GetByID(ctx, "round-trip")
		require.NoError(t, err)
		assert.Equal(t, post, got)
	})

	t.Run("newest first", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, testPost("middle", 2)))
		require.NoError(t, repo.Save(ctx, testPost("newest", 3)))
		require.NoError(t, repo.Save(ctx, testPost("oldest", 1)))

		var ids []string
		for _, p := range repo.List(ctx) {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"newest", "middle", "oldest"}, ids)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.GetByID(ctx, "missing")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, testPost("keep", 1)))
		require.NoError(t, repo.Save(ctx, testPost("drop", 2)))

		require.NoError(t, repo.Delete(ctx, "drop"))
		posts := repo.List(ctx)
		require.Len(t, posts, 1)
		assert.Equal(t, "keep", posts[0].ID)

		// Deleting a missing id is a no-op.
		require.NoError(t, repo.Delete(ctx, "drop"))
		assert.Len(t, repo.List(ctx), 1)
	})

	t.Run("quote fallback", func(t *testing.T) {
		repo := newRepo(t)
		quote := repo.GetQuote(ctx)
		assert.Equal(t, models.FallbackQuote, quote)
		assert.Contains(t, quote.Text, "Success is not final")
		assert.Equal(t, "Winston Churchill", quote.Author)
	})

	t.Run("latest quote wins", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveQuote(ctx, models.DailyQuote{Text: "First", Author: "A"}))
		assert.Equal(t, models.DailyQuote{Text: "First", Author: "A"}, repo.GetQuote(ctx))

		require.NoError(t, repo.SaveQuote(ctx, models.DailyQuote{Text: "Second", Author: "B"}))
		assert.Equal(t, models.DailyQuote{Text: "Second", Author: "B"}, repo.GetQuote(ctx))
	})
}
