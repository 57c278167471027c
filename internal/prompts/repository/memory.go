package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/prompts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memEntry struct {
	p   *models.Prompt
	seq uint64
}

// MemoryRepo is an in-memory repository used for development without MongoDB
// and for unit tests. Returned prompts are copies.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*memEntry
	seq   uint64
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*memEntry), now: func() time.Time { return time.Now().UTC() }}
}

func (m *MemoryRepo) Create(_ context.Context, p *models.Prompt) (*models.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := p.Clone()
	stored.ID = primitive.NewObjectID().Hex()
	stored.CreatedAt = m.now()
	stored.Upvotes = 0
	stored.Views = 0
	m.seq++
	m.store[stored.ID] = &memEntry{p: stored, seq: m.seq}
	return stored.Clone(), nil
}

func (m *MemoryRepo) List(_ context.Context, f prompts.Filter) ([]*models.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*memEntry, 0, len(m.store))
	for _, e := range m.store {
		if f.Matches(e.p) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.p.CreatedAt.Equal(b.p.CreatedAt) {
			return a.p.CreatedAt.After(b.p.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*models.Prompt, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.p.Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*models.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.store[id]; ok {
		return e.p.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Increment(_ context.Context, id, field string, delta int64) (*models.Prompt, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	switch field {
	case FieldViews:
		e.p.Views += delta
	case FieldUpvotes:
		e.p.Upvotes += delta
	}
	return e.p.Clone(), nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
