package storage

import (
	"context"
	"testing"

	"github.com/prompthub/prompthub/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), config.MinIOConfig{Bucket: "b"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewMinIOStorage_RequiresBucket(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), config.MinIOConfig{Endpoint: "localhost:9000"})
	require.Error(t, err)
}
