package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"folio/app/models"
)

const (
	postsTable  = "posts"
	quotesTable = "quotes"
)

// RemoteError is a non-2xx answer of the hosted store.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote store: status %d", e.Status)
	}
	return fmt.Sprintf("remote store: status %d: %s", e.Status, e.Message)
}

// RemoteRepository talks to a hosted tabular store that speaks the PostgREST
// dialect (Supabase). Posts live in the posts table keyed by id. Quotes are
// appended to the quotes table and the newest row by created_at is current.
type RemoteRepository struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRemoteRepository creates a RemoteRepository. A zero timeout leaves
// requests bounded only by the caller's context.
func NewRemoteRepository(baseURL, apiKey string, timeout time.Duration) *RemoteRepository {
	return &RemoteRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Close drops idle keep-alive connections.
func (r *RemoteRepository) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

// do sends one request to table and decodes a JSON answer into out when out
// is not nil.
func (r *RemoteRepository) do(ctx context.Context, method, table string, query url.Values, body any, prefer string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := marshalEntity(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	endpoint := r.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, table, err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeRemoteError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", table, err)
	}
	return nil
}

func decodeRemoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}

// List retrieves all posts ordered by date, newest first
func (r *RemoteRepository) List(ctx context.Context) []*models.Post {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "date.desc")

	var posts []*models.Post
	if err := r.do(ctx, http.MethodGet, postsTable, query, nil, "", &posts); err != nil {
		slog.Warn("listing posts failed", "backend", BackendRemote, "error", err)
		return []*models.Post{}
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts
}

// GetByID retrieves a post by ID. Backend failures are reported as
// ErrNotFound too; the wrapped message keeps the cause.
func (r *RemoteRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)

	var posts []*models.Post
	if err := r.do(ctx, http.MethodGet, postsTable, query, nil, "", &posts); err != nil {
		slog.Warn("fetching post failed", "backend", BackendRemote, "id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return posts[0], nil
}

// Save upserts the post on its primary key.
func (r *RemoteRepository) Save(ctx context.Context, post *models.Post) error {
	if err := r.do(ctx, http.MethodPost, postsTable, nil, post, "resolution=merge-duplicates,return=minimal", nil); err != nil {
		return fmt.Errorf("saving post %q: %w", post.ID, err)
	}
	return nil
}

// Delete removes the post by ID. Deleting a missing id matches no rows and
// succeeds.
func (r *RemoteRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	if err := r.do(ctx, http.MethodDelete, postsTable, query, nil, "return=minimal", nil); err != nil {
		return fmt.Errorf("deleting post %q: %w", id, err)
	}
	return nil
}

// GetQuote returns the newest quote row or the fallback.
func (r *RemoteRepository) GetQuote(ctx context.Context) models.DailyQuote {
	query := url.Values{}
	query.Set("select", "text,author")
	query.Set("order", "created_at.desc")
	query.Set("limit", "1")

	var quotes []models.DailyQuote
	if err := r.do(ctx, http.MethodGet, quotesTable, query, nil, "", &quotes); err != nil {
		slog.Warn("reading quote failed", "backend", BackendRemote, "error", err)
		return models.FallbackQuote
	}
	if len(quotes) == 0 {
		return models.FallbackQuote
	}
	return currentQuote(quotes[0])
}

// SaveQuote appends a new quote row; it becomes current by recency.
func (r *RemoteRepository) SaveQuote(ctx context.Context, quote models.DailyQuote) error {
	if err := r.do(ctx, http.MethodPost, quotesTable, nil, quote, "return=minimal", nil); err != nil {
		return fmt.Errorf("saving quote: %w", err)
	}
	return nil
}
