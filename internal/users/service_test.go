package users

import (
	"context"
	"errors"
	"testing"

	"github.com/prompthub/prompthub/internal/models"
)

// lookupFailRepo fails username lookups with a store error.
type lookupFailRepo struct {
	*MemoryRepo
}

func (lookupFailRepo) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestUpsertFromClaims(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	claims := map[string]interface{}{
		"sub":     "sub-123",
		"email":   "x@example.com",
		"name":    "X User",
		"picture": "https://img.example.com/x.png",
	}

	u, err := svc.UpsertFromClaims(ctx, claims)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ExternalID != "sub-123" {
		t.Fatalf("unexpected externalId: %s", u.ExternalID)
	}
	if u.Email != "x@example.com" || u.FullName != "X User" || u.ImageURL != "https://img.example.com/x.png" {
		t.Fatalf("unexpected profile: %+v", u)
	}
	if u.ID == "" {
		t.Fatalf("expected returned user to have an ID set by repo")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set: created=%v updated=%v", u.CreatedAt, u.UpdatedAt)
	}

	// second sign-in refreshes the snapshot but keeps id and username
	if _, err := svc.UpdateUsername(ctx, "sub-123", "xuser"); err != nil {
		t.Fatalf("set username: %v", err)
	}
	claims["email"] = "new@example.com"
	u2, err := svc.UpsertFromClaims(ctx, claims)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u2.ID != u.ID {
		t.Fatalf("id changed on re-sync: %s != %s", u2.ID, u.ID)
	}
	if u2.Email != "new@example.com" || u2.Username != "xuser" {
		t.Fatalf("unexpected user after re-sync: %+v", u2)
	}
	if u2.CreatedAt.After(u2.UpdatedAt) {
		t.Fatalf("createdAt after updatedAt: %v > %v", u2.CreatedAt, u2.UpdatedAt)
	}

	// missing sub is a validation error
	if _, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "y@e.com"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation on missing sub, got %v", err)
	}
}

func TestUpdateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	for _, id := range []string{"user_A", "user_B"} {
		if _, err := svc.SyncProfile(ctx, ProfileInput{ExternalID: id}); err != nil {
			t.Fatalf("sync %s: %v", id, err)
		}
	}

	u, err := svc.UpdateUsername(ctx, "user_A", "  alice ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", u.Username)
	}

	// same user, same name
	if _, err := svc.UpdateUsername(ctx, "user_A", "alice"); err != nil {
		t.Fatalf("re-setting own username: %v", err)
	}

	if _, err := svc.UpdateUsername(ctx, "user_B", "alice"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	b, _ := svc.Get(ctx, "user_B")
	if b.Username != "" {
		t.Fatalf("conflicting update must not change user_B, got %q", b.Username)
	}

	if _, err := svc.UpdateUsername(ctx, "user_B", "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateUsername(ctx, "user_C", "carol"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent user, got %v", err)
	}
	if _, err := svc.Get(ctx, "user_C"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("absent user must not be created, got %v", err)
	}
}

func TestUpdateUsername_LookupFailure(t *testing.T) {
	repo := lookupFailRepo{NewMemoryRepo()}
	svc := NewService(repo)
	ctx := context.Background()
	if _, err := svc.SyncProfile(ctx, ProfileInput{ExternalID: "user_A"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.UpdateUsername(ctx, "user_A", "alice")
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected an unclassified store error, got %v", err)
	}
}

func TestSyncProfile_RequiresExternalID(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.SyncProfile(context.Background(), ProfileInput{Email: "a@b.c"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
