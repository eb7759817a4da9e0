package services

import (
	"context"
	"fmt"
	"strings"

	"folio/app/models"
	"folio/app/repositories"
)

// QuoteService manages the quote of the day.
type QuoteService struct {
	repo repositories.ContentRepository
}

func NewQuoteService(repo repositories.ContentRepository) *QuoteService {
	return &QuoteService{repo: repo}
}

// GetQuote returns the current quote; it never fails.
func (s *QuoteService) GetQuote(ctx context.Context) models.DailyQuote {
	return s.repo.GetQuote(ctx)
}

// SaveQuote validates and stores a new current quote.
func (s *QuoteService) SaveQuote(ctx context.Context, quote models.DailyQuote) (models.DailyQuote, error) {
	quote.Text = strings.TrimSpace(quote.Text)
	quote.Author = strings.TrimSpace(quote.Author)
	if err := quote.Validate(); err != nil {
		return models.DailyQuote{}, invalid(err)
	}
	if err := s.repo.SaveQuote(ctx, quote); err != nil {
		return models.DailyQuote{}, fmt.Errorf("saving quote: %w", err)
	}
	return quote, nil
}
