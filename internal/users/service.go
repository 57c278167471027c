package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prompthub/prompthub/internal/models"
)

// ProfileInput is the profile snapshot pushed on sign-in.
type ProfileInput struct {
	ExternalID string
	Email      string
	FullName   string
	ImageURL   string
}

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpdateUsername sets the username of an existing user. The pre-check gives a
// clean conflict for the common case; the repository closes the race.
func (s *Service) UpdateUsername(ctx context.Context, externalID, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	holder, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil && holder.ExternalID != externalID:
		return nil, ErrUsernameTaken
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	u, err := s.repo.SetUsername(ctx, externalID, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("set username: %w", err)
	}
	return u, nil
}

// SyncProfile creates the user on first sign-in and refreshes the profile
// snapshot afterwards.
func (s *Service) SyncProfile(ctx context.Context, in ProfileInput) (*models.User, error) {
	id := strings.TrimSpace(in.ExternalID)
	if id == "" {
		return nil, fmt.Errorf("%w: externalId is required", ErrValidation)
	}
	u, err := s.repo.UpsertByExternalID(ctx, &models.User{
		ExternalID: id,
		Email:      strings.TrimSpace(in.Email),
		FullName:   strings.TrimSpace(in.FullName),
		ImageURL:   strings.TrimSpace(in.ImageURL),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// UpsertFromClaims creates or updates a user using OIDC claims map
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	return s.SyncProfile(ctx, ProfileInput{ExternalID: sub, Email: email, FullName: name, ImageURL: picture})
}

func (s *Service) Get(ctx context.Context, externalID string) (*models.User, error) {
	u, err := s.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
