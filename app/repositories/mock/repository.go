// Package mock provides an in-memory ContentRepository with failure
// injection for service and controller tests.
package mock

import (
	"context"
	"errors"
	"sort"
	"sync"

	"folio/app/models"
	"folio/app/repositories"
)

// ErrBackend is returned by writes while FailWrites is set.
var ErrBackend = errors.New("mock backend unavailable")

// ContentRepository keeps posts in a map and the quote in a field.
type ContentRepository struct {
	mutex sync.RWMutex
	posts map[string]*models.Post
	quote *models.DailyQuote

	// FailReads makes reads degrade as a broken backend would.
	FailReads bool
	// FailWrites makes Save, Delete and SaveQuote return ErrBackend.
	FailWrites bool

	SaveCalls   int
	DeleteCalls int
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{
		posts: make(map[string]*models.Post),
	}
}

func (m *ContentRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.quote = nil
}

func (m *ContentRepository) List(_ context.Context) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	if m.FailReads {
		return posts
	}
	for _, post := range m.posts {
		cp := *post
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts
}

func (m *ContentRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.FailReads {
		return nil, repositories.ErrNotFound
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (m *ContentRepository) Save(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.SaveCalls++
	if m.FailWrites {
		return ErrBackend
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *ContentRepository) Delete(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.DeleteCalls++
	if m.FailWrites {
		return ErrBackend
	}
	delete(m.posts, id)
	return nil
}

func (m *ContentRepository) GetQuote(_ context.Context) models.DailyQuote {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.FailReads || m.quote == nil {
		return models.FallbackQuote
	}
	return *m.quote
}

func (m *ContentRepository) SaveQuote(_ context.Context, quote models.DailyQuote) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.FailWrites {
		return ErrBackend
	}
	m.quote = &quote
	return nil
}

func (m *ContentRepository) Close() error {
	return nil
}

var _ repositories.ContentRepository = (*ContentRepository)(nil)
