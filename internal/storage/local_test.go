package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *LocalStorage {
	storage, err := NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return storage
}

func createTempFile(t *testing.T) string {
	file, err := os.CreateTemp(t.TempDir(), "blocking-*")
	require.NoError(t, err)
	require.NoError(t, file.Close())
	return file.Name()
}

func TestNewLocalStorage(t *testing.T) {
	tests := []struct {
		name        string
		basePath    string
		shouldError bool
	}{
		{
			name:        "valid path",
			basePath:    t.TempDir(),
			shouldError: false,
		},
		{
			name:        "non-existent path",
			basePath:    filepath.Join(t.TempDir(), "nested", "path"),
			shouldError: false,
		},
		{
			name:        "invalid path (file instead of directory)",
			basePath:    createTempFile(t),
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, err := NewLocalStorage(tt.basePath, "http://localhost:8080")

			if tt.shouldError {
				assert.Error(t, err)
				assert.Nil(t, storage)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, storage)
				assert.Equal(t, tt.basePath, storage.basePath)

				info, err := os.Stat(tt.basePath)
				assert.NoError(t, err)
				assert.True(t, info.IsDir())
			}
		})
	}
}

func TestLocalStorage_StoreAndRetrieve(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		content string
	}{
		{
			name:    "simple key",
			key:     "report.pdf",
			content: "%PDF-1.4 hello",
		},
		{
			name:    "nested key",
			key:     "docs/2024/06/abc123.pdf",
			content: "nested content",
		},
		{
			name:    "binary content",
			key:     "binary.pdf",
			content: string([]byte{0x00, 0x01, 0x02, 0xFF}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storage.Store(ctx, tt.key, strings.NewReader(tt.content), "application/pdf")
			require.NoError(t, err)

			reader, err := storage.Retrieve(ctx, tt.key)
			require.NoError(t, err)
			defer reader.Close()

			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))
		})
	}
}

func TestLocalStorage_StoreLeavesNoTempFiles(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Store(ctx, "report.pdf", strings.NewReader("content"), "application/pdf"))

	entries, err := os.ReadDir(storage.basePath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.pdf", entries[0].Name())
}

func TestLocalStorage_RetrieveMissing(t *testing.T) {
	storage := setupTestStorage(t)

	_, err := storage.Retrieve(context.Background(), "missing.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLocalStorage_Delete(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Store(ctx, "report.pdf", strings.NewReader("content"), "application/pdf"))
	require.NoError(t, storage.Delete(ctx, "report.pdf"))

	exists, err := storage.Exists(ctx, "report.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an already-deleted key is not an error
	assert.NoError(t, storage.Delete(ctx, "report.pdf"))
}

func TestLocalStorage_ExistsAndGetSize(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()
	content := "sized content"

	require.NoError(t, storage.Store(ctx, "report.pdf", strings.NewReader(content), "application/pdf"))

	exists, err := storage.Exists(ctx, "report.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := storage.GetSize(ctx, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	_, err = storage.GetSize(ctx, "missing.pdf")
	assert.Error(t, err)
}

func TestLocalStorage_ShareLink(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Store(ctx, "docs/2024/06/abc.pdf", strings.NewReader("content"), "application/pdf"))

	link, err := storage.ShareLink(ctx, "docs/2024/06/abc.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/docs/2024/06/abc.pdf", link)

	_, err = storage.ShareLink(ctx, "missing.pdf", 15*time.Minute)
	assert.Error(t, err)
}

func TestLocalStorage_ContextCancellation(t *testing.T) {
	storage := setupTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := storage.Store(ctx, "report.pdf", strings.NewReader("content"), "application/pdf")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = storage.Retrieve(ctx, "report.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}
