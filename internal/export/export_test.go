package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prompthub/prompthub/internal/prompts/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) PresignedURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://minio.local/prompthub/" + key + "?expires=" + expires.String(), nil
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMemoryService()
	private := false
	for _, in := range []service.CreateInput{
		{UserID: "u1", Title: "a", Content: "a"},
		{UserID: "u1", Title: "b", Content: "b", IsPublic: &private},
		{UserID: "u2", Title: "c", Content: "c"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	store := &fakeStore{}
	exp := NewService(store, svc, 10*time.Minute)
	exp.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	res, err := exp.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "exports/u1/20240301T123000Z.json", res.Key)
	assert.Equal(t, 2, res.Count)
	assert.Contains(t, res.URL, res.Key)

	var doc Document
	require.NoError(t, json.Unmarshal(store.objects[res.Key], &doc))
	assert.Equal(t, "u1", doc.UserID)
	require.Len(t, doc.Prompts, 2)
	assert.Equal(t, "b", doc.Prompts[0].Title)
}

func TestExport_Errors(t *testing.T) {
	ctx := context.Background()
	exp := NewService(&fakeStore{}, service.NewMemoryService(), 0)
	_, err := exp.Export(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)

	boom := errors.New("bucket unavailable")
	exp = NewService(&fakeStore{putErr: boom}, service.NewMemoryService(), 0)
	_, err = exp.Export(ctx, "u1")
	require.ErrorIs(t, err, boom)
}
