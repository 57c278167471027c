package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prompthub/prompthub/internal/models"
)

var ErrInvalidVisibility = errors.New("invalid visibility filter")

// Visibility narrows a listing by the isPublic flag.
type Visibility int

const (
	VisibilityAny Visibility = iota
	VisibilityPublic
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	}
	return "all"
}

// ParseVisibility accepts "", "all", "public" and "private" (case-insensitive).
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return VisibilityAny, nil
	case "public":
		return VisibilityPublic, nil
	case "private":
		return VisibilityPrivate, nil
	}
	return VisibilityAny, fmt.Errorf("%w: %q", ErrInvalidVisibility, s)
}

// Filter selects prompts for a listing. The zero value selects everything.
type Filter struct {
	UserID     string
	Visibility Visibility
}

// Matches reports whether p passes the filter.
func (f Filter) Matches(p *models.Prompt) bool {
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	switch f.Visibility {
	case VisibilityPublic:
		return p.IsPublic
	case VisibilityPrivate:
		return !p.IsPublic
	}
	return true
}

// Key identifies the filter in cache keys.
func (f Filter) Key() string {
	return "user=" + f.UserID + ":vis=" + f.Visibility.String()
}
