package repositories

import (
	"encoding/json"
	"fmt"
	"sort"

	"folio/app/models"
)

const (
	// PostsKey holds the whole post collection of the local store.
	PostsKey = "folio_blog_posts"
	// QuoteKey holds the single current quote of the local store.
	QuoteKey = "folio_daily_quote"
)

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// sortNewestFirst orders posts by date, newest first. Posts with the same
// date keep their stored order.
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}

// currentQuote falls back when a stored quote is missing a field.
func currentQuote(q models.DailyQuote) models.DailyQuote {
	if q.Validate() != nil {
		return models.FallbackQuote
	}
	return q
}
