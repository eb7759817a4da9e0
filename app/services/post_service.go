package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"folio/app/models"
	"folio/app/repositories"
)

// WelcomePostID is the id of the post seeded into an empty blog.
const WelcomePostID = "welcome-to-my-blog"

const welcomeContent = `
# Welcome!

This is the first post on my new blog. I'll be sharing updates about my projects, thoughts on engineering, and more.

Stay tuned!
`

// PostInput is what an admin submits when creating or editing a post.
type PostInput struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
}

// PostService handles business logic for blog posts
type PostService struct {
	repo   repositories.ContentRepository
	author string
	now    func() time.Time
}

// NewPostService creates a new PostService. Every post is attributed to author.
func NewPostService(repo repositories.ContentRepository, author string) *PostService {
	return &PostService{
		repo:   repo,
		author: author,
		now:    time.Now,
	}
}

// SetClock replaces time.Now for creation dates.
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

// Author returns the identity all posts are attributed to.
func (s *PostService) Author() string {
	return s.author
}

// ListPosts returns every post, newest first.
func (s *PostService) ListPosts(ctx context.Context) []*models.Post {
	return s.repo.List(ctx)
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// CreatePost builds a post from input and saves it. The id is the slug of
// the title; an existing post with that id is replaced.
func (s *PostService) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	post := in.post()
	post.BeforeCreate(s.author, s.now())

	if err := validatePost(post); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("saving post: %w", err)
	}
	return post, nil
}

// UpdatePost replaces the editable fields of an existing post. The id and
// creation date never change.
func (s *PostService) UpdatePost(ctx context.Context, id string, in PostInput) (*models.Post, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post := in.post()
	post.ID = existing.ID
	post.Date = existing.Date
	post.Author = s.author

	if err := validatePost(post); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("saving post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post. Deleting an unknown id succeeds.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// SeedInitialData saves the welcome post when the blog has no posts. It is a
// no-op otherwise. Two concurrent seeds may both write; they write the same
// id so the result is still one post.
func (s *PostService) SeedInitialData(ctx context.Context) error {
	if len(s.repo.List(ctx)) > 0 {
		return nil
	}

	post := &models.Post{
		ID:      WelcomePostID,
		Title:   "Welcome to My Blog",
		Excerpt: "Introduction to my new blog section.",
		Content: welcomeContent,
		Tags:    []string{"General", "Update"},
	}
	post.BeforeCreate(s.author, s.now())

	if err := s.repo.Save(ctx, post); err != nil {
		return fmt.Errorf("seeding welcome post: %w", err)
	}
	return nil
}

func (in PostInput) post() *models.Post {
	return &models.Post{
		Title:    strings.TrimSpace(in.Title),
		Excerpt:  strings.TrimSpace(in.Excerpt),
		Content:  in.Content,
		ImageURL: strings.TrimSpace(in.ImageURL),
		Tags:     cleanTags(in.Tags),
	}
}

func cleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// validatePost validates a post's fields
func validatePost(post *models.Post) error {
	if strings.TrimSpace(post.Content) == "" {
		post.Content = ""
	}
	if err := post.Validate(); err != nil {
		return invalid(err)
	}
	return nil
}
