package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/prompts"
)

var (
	ErrNotFound     = errors.New("prompt not found")
	ErrInvalidField = errors.New("field is not a counter")
)

// Counter fields that may be incremented.
const (
	FieldViews   = "views"
	FieldUpvotes = "upvotes"
)

// Repository persists prompts. Counters change only through Increment, which
// must be atomic per document.
type Repository interface {
	Create(ctx context.Context, p *models.Prompt) (*models.Prompt, error)
	List(ctx context.Context, f prompts.Filter) ([]*models.Prompt, error)
	Get(ctx context.Context, id string) (*models.Prompt, error)
	Increment(ctx context.Context, id, field string, delta int64) (*models.Prompt, error)
	Delete(ctx context.Context, id string) error
}

func checkField(field string) error {
	if field != FieldViews && field != FieldUpvotes {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}
