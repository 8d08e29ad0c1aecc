package storage

import (
	"context"
	"testing"

	"github.com/organize/tasktracker/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfigured(t *testing.T) {
	require.False(t, Configured(config.StorageConfig{}))
	require.True(t, Configured(config.StorageConfig{Endpoint: "localhost:9000"}))
}

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), config.StorageConfig{Bucket: "tasktracker"})
	require.Error(t, err)
}
