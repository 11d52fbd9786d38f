package documents

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageUpload(t *testing.T) {
	dir := t.TempDir()
	payload := "%PDF-1.4 staged payload"

	staged, err := stageUpload(dir, "report.pdf", strings.NewReader(payload), 0)
	require.NoError(t, err)
	defer staged.Release()

	assert.Equal(t, int64(len(payload)), staged.size)
	assert.NotEmpty(t, staged.sha256)
	assert.True(t, strings.HasSuffix(staged.path, ".pdf"))

	// The staged copy can be read back in full
	reader, err := staged.Reader()
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, string(content))

	// And rewound for a second read
	reader, err = staged.Reader()
	require.NoError(t, err)
	content, err = io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, string(content))
}

func TestStageUpload_MaxSize(t *testing.T) {
	dir := t.TempDir()

	_, err := stageUpload(dir, "report.pdf", strings.NewReader("0123456789"), 5)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Nothing left behind when staging is rejected
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestStageUpload_Release(t *testing.T) {
	dir := t.TempDir()

	staged, err := stageUpload(dir, "report.pdf", strings.NewReader("content"), 0)
	require.NoError(t, err)

	staged.Release()

	_, statErr := os.Stat(staged.path)
	assert.True(t, os.IsNotExist(statErr))

	// A second release is harmless
	staged.Release()
}
