package users

import (
	"context"
	"sync"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory UserRepository for development and tests.
// Username uniqueness is enforced under the same lock as the write.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*models.User // by externalId
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]*models.User), now: time.Now}
}

func (m *MemoryRepo) UpsertByExternalID(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	cur, ok := m.users[u.ExternalID]
	if !ok {
		cur = &models.User{
			ID:         primitive.NewObjectID().Hex(),
			ExternalID: u.ExternalID,
			CreatedAt:  now,
		}
		m.users[u.ExternalID] = cur
	}
	cur.Email = u.Email
	cur.FullName = u.FullName
	cur.ImageURL = u.ImageURL
	cur.UpdatedAt = now
	cp := *cur
	return &cp, nil
}

func (m *MemoryRepo) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[externalID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u := m.byUsername(username); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) byUsername(username string) *models.User {
	if username == "" {
		return nil
	}
	for _, u := range m.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (m *MemoryRepo) SetUsername(_ context.Context, externalID, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[externalID]
	if !ok {
		return nil, ErrNotFound
	}
	if other := m.byUsername(username); other != nil && other.ExternalID != externalID {
		return nil, ErrUsernameTaken
	}
	u.Username = username
	u.UpdatedAt = m.now().UTC()
	cp := *u
	return &cp, nil
}
