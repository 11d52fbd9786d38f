package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 15*time.Minute, cfg.Storage.LinkTTL)
	assert.Equal(t, []string{".pdf"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, int64(50<<20), cfg.Upload.MaxSizeBytes)
	assert.False(t, cfg.Upload.ValidateContent)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("STORAGE_LINK_TTL", "30m")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", ".pdf, .txt")
	t.Setenv("UPLOAD_VALIDATE_CONTENT", "true")

	cfg := LoadFromEnv()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, 30*time.Minute, cfg.Storage.LinkTTL)
	assert.Equal(t, []string{".pdf", ".txt"}, cfg.Upload.AllowedExtensions)
	assert.True(t, cfg.Upload.ValidateContent)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "docvault",
		Password: "secret",
		DBName:   "docvault",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.example.com port=5432 user=docvault password=secret dbname=docvault sslmode=require",
		cfg.DatabaseURL())
}

func TestAllowsExtension(t *testing.T) {
	cfg := &UploadConfig{AllowedExtensions: []string{".pdf"}}

	assert.True(t, cfg.AllowsExtension(".pdf"))
	assert.True(t, cfg.AllowsExtension(".PDF"))
	assert.False(t, cfg.AllowsExtension(".docx"))
	assert.False(t, cfg.AllowsExtension(""))
}
