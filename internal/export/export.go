// Package export writes a user's prompt library to object storage and hands
// back a time-limited download link.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/prompts"
)

var ErrValidation = errors.New("validation failed")

// ObjectStore is satisfied by *storage.MinIOStorage.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Lister is satisfied by the prompt service.
type Lister interface {
	List(ctx context.Context, f prompts.Filter) ([]*models.Prompt, error)
}

// Result describes a finished export.
type Result struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Document is the exported file body.
type Document struct {
	UserID     string           `json:"userId"`
	ExportedAt time.Time        `json:"exportedAt"`
	Prompts    []*models.Prompt `json:"prompts"`
}

type Service struct {
	store  ObjectStore
	lister Lister
	expiry time.Duration
	now    func() time.Time
}

func NewService(store ObjectStore, lister Lister, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Service{store: store, lister: lister, expiry: expiry, now: time.Now}
}

// Export stores every prompt of userID, public and private, newest first.
func (s *Service) Export(ctx context.Context, userID string) (*Result, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	list, err := s.lister.List(ctx, prompts.Filter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	at := s.now().UTC()
	body, err := json.MarshalIndent(Document{UserID: userID, ExportedAt: at, Prompts: list}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	key := Key(userID, at)
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.store.PresignedURL(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	return &Result{Key: key, URL: url, Count: len(list)}, nil
}

// Key returns the object key for an export taken at t.
func Key(userID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", userID, t.UTC().Format("20060102T150405Z"))
}
