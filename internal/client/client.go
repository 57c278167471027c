// Package client is a Go client for the prompthub HTTP API plus the small
// pieces of view state the feed needs (upvote toggle, view formatting,
// debounced search).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prompthub/prompthub/internal/export"
	"github.com/prompthub/prompthub/internal/models"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }
func IsConflict(err error) bool { return statusOf(err) == http.StatusConflict }

// NewPrompt is the body of a create request. IsPublic nil means public.
type NewPrompt struct {
	UserID   string   `json:"userId"`
	Author   string   `json:"author,omitempty"`
	Username string   `json:"username,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`
	Models   []string `json:"models,omitempty"`
	IsPublic *bool    `json:"isPublic,omitempty"`
}

// Client talks to a prompthub API server.
type Client struct {
	base string
	hc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListPrompts lists prompts newest first. userID and filter ("public",
// "private" or "") are optional.
func (c *Client) ListPrompts(ctx context.Context, userID, filter string) ([]*models.Prompt, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("userId", userID)
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	var out []*models.Prompt
	err := c.do(ctx, http.MethodGet, withQuery("/api/prompts", q), nil, &out)
	return out, err
}

func (c *Client) ListUserPrompts(ctx context.Context, userID, filter string) ([]*models.Prompt, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	var out []*models.Prompt
	err := c.do(ctx, http.MethodGet, withQuery("/api/prompts/user/"+url.PathEscape(userID), q), nil, &out)
	return out, err
}

// GetPrompt fetches one prompt; the server counts this as a view.
func (c *Client) GetPrompt(ctx context.Context, id string) (*models.Prompt, error) {
	var p models.Prompt
	if err := c.do(ctx, http.MethodGet, "/api/prompts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePrompt(ctx context.Context, in NewPrompt) (*models.Prompt, error) {
	var p models.Prompt
	if err := c.do(ctx, http.MethodPost, "/api/prompts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upvote sends action ("upvote" or "remove") and returns the server's counter.
func (c *Client) Upvote(ctx context.Context, id, action string) (int64, error) {
	var out struct {
		Upvotes int64 `json:"upvotes"`
	}
	err := c.do(ctx, http.MethodPut, "/api/prompts/"+url.PathEscape(id)+"/upvote", map[string]string{"action": action}, &out)
	return out.Upvotes, err
}

func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/prompts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetUser(ctx context.Context, externalID string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(externalID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUsername returns an error satisfying IsConflict when the name is taken.
func (c *Client) UpdateUsername(ctx context.Context, externalID, username string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(externalID), map[string]string{"username": username}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ExportPrompts(ctx context.Context, externalID string) (*export.Result, error) {
	var res export.Result
	if err := c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(externalID)+"/export", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(b, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(b))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
