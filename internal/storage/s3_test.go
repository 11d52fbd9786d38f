package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/pkg/config"
)

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(&config.StorageConfig{Type: "s3"})
	assert.Error(t, err)
}

func TestNewS3Storage(t *testing.T) {
	storage, err := NewS3Storage(&config.StorageConfig{
		Type:      "s3",
		Bucket:    "docvault-test",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	assert.Equal(t, "docvault-test", storage.bucket)
	assert.NotNil(t, storage.presign)
}

func TestFactory(t *testing.T) {
	local, err := NewStorageFactory(&config.StorageConfig{
		Type:      "local",
		LocalPath: t.TempDir(),
		PublicURL: "http://localhost:8080",
	}).CreateStorage()
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, local)

	_, err = NewStorageFactory(&config.StorageConfig{Type: "gcs"}).CreateStorage()
	assert.Error(t, err)
}
