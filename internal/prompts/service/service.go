package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prompthub/prompthub/internal/events"
	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/prompts"
	"github.com/prompthub/prompthub/internal/prompts/repository"
	"github.com/prompthub/prompthub/pkg/logger"
	"github.com/prompthub/prompthub/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Upvote actions.
const (
	ActionUpvote = "upvote"
	ActionRemove = "remove"
)

// CreateInput is the accepted shape for a new prompt. IsPublic defaults to true.
type CreateInput struct {
	UserID   string
	Author   string
	Username string
	Title    string
	Content  string
	Tags     []string
	Category string
	Models   []string
	IsPublic *bool
}

// Validate checks the required fields; blank after trimming counts as missing.
func (in CreateInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Service defines the prompt operations used by the handler layer.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*models.Prompt, error)
	List(ctx context.Context, f prompts.Filter) ([]*models.Prompt, error)
	Get(ctx context.Context, id string) (*models.Prompt, error)
	Delete(ctx context.Context, id string) error
	Upvote(ctx context.Context, id, action string) (int64, error)
}

// FeedCache caches listings; see cache.FeedCache.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]*models.Prompt, int64, error)
	Set(ctx context.Context, key string, gen int64, list []*models.Prompt) error
	Invalidate(ctx context.Context) error
}

type Option func(*promptService)

// WithCache serves listings through c. Every counter change or mutation
// invalidates it, so cached listings never show stale counters.
func WithCache(c FeedCache) Option {
	return func(s *promptService) { s.cache = c }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *promptService) { s.pub = p }
}

// New returns a Service over repo.
func New(repo repository.Repository, opts ...Option) Service {
	s := &promptService{repo: repo, pub: events.NopPublisher{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return New(repository.NewMemoryRepo(), opts...)
}

// NewMongoService returns a Service backed by a MongoDB collection.
func NewMongoService(col *mongo.Collection, opts ...Option) Service {
	return New(repository.NewMongoRepo(col), opts...)
}

type promptService struct {
	repo  repository.Repository
	cache FeedCache
	pub   events.Publisher
}

func (s *promptService) Create(ctx context.Context, in CreateInput) (*models.Prompt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	p := &models.Prompt{
		UserID:   in.UserID,
		Author:   in.Author,
		Username: in.Username,
		Title:    in.Title,
		Content:  in.Content,
		Tags:     in.Tags,
		Category: in.Category,
		Models:   in.Models,
		IsPublic: isPublic,
	}
	created, err := s.repo.Create(ctx, p.Normalize())
	if err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}
	metrics.PromptsCreated.Inc()
	s.invalidate(ctx)
	s.publish(ctx, events.Event{Type: events.PromptCreated, PromptID: created.ID, UserID: created.UserID})
	return created, nil
}

func (s *promptService) List(ctx context.Context, f prompts.Filter) ([]*models.Prompt, error) {
	if s.cache == nil {
		return s.list(ctx, f)
	}
	key := f.Key()
	cached, gen, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.FeedCacheLookups.WithLabelValues("error").Inc()
		logger.Warnf("feed cache get %s: %v", key, err)
		return s.list(ctx, f)
	case cached != nil:
		metrics.FeedCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.FeedCacheLookups.WithLabelValues("miss").Inc()
	list, err := s.list(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, gen, list); err != nil {
		logger.Warnf("feed cache set %s: %v", key, err)
	}
	return list, nil
}

func (s *promptService) list(ctx context.Context, f prompts.Filter) ([]*models.Prompt, error) {
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return list, nil
}

// Get increments the view counter and returns the updated prompt.
func (s *promptService) Get(ctx context.Context, id string) (*models.Prompt, error) {
	p, err := s.repo.Increment(ctx, id, repository.FieldViews, 1)
	if err != nil {
		return nil, s.wrap("get prompt", err)
	}
	metrics.PromptViews.Inc()
	s.invalidate(ctx)
	return p, nil
}

// Delete removes a prompt. No ownership check is performed.
func (s *promptService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap("delete prompt", err)
	}
	metrics.PromptsDeleted.Inc()
	s.invalidate(ctx)
	s.publish(ctx, events.Event{Type: events.PromptDeleted, PromptID: id})
	return nil
}

// Upvote applies +1 for "upvote" and -1 for "remove" and returns the stored counter.
// Repeated calls are not deduplicated.
func (s *promptService) Upvote(ctx context.Context, id, action string) (int64, error) {
	var delta int64
	switch action {
	case ActionUpvote:
		delta = 1
	case ActionRemove:
		delta = -1
	default:
		return 0, fmt.Errorf("%w: action must be %q or %q", ErrValidation, ActionUpvote, ActionRemove)
	}
	p, err := s.repo.Increment(ctx, id, repository.FieldUpvotes, delta)
	if err != nil {
		return 0, s.wrap("update upvotes", err)
	}
	metrics.UpvoteActions.WithLabelValues(action).Inc()
	s.invalidate(ctx)
	s.publish(ctx, events.Event{Type: events.PromptUpvoted, PromptID: p.ID, UserID: p.UserID, Upvotes: p.Upvotes})
	return p.Upvotes, nil
}

func (s *promptService) wrap(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *promptService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warnf("feed cache invalidate: %v", err)
	}
}

func (s *promptService) publish(ctx context.Context, e events.Event) {
	if err := s.pub.Publish(ctx, e); err != nil {
		logger.Warnf("publish %s for %s: %v", e.Type, e.PromptID, err)
	}
}
