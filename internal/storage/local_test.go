package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"frendora/internal/storage"
)

func TestLocalBackendStore(t *testing.T) {
	dir := t.TempDir()
	backend, err := storage.NewLocalBackend(filepath.Join(dir, "uploads"))
	assert.NoError(t, err)

	file := makeFileHeader(t, "media", "photo.png", "image/png", []byte("png-bytes"))
	att, err := backend.Store(context.Background(), "media", file)
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(att.StorageKey, "media-"))
	assert.True(t, strings.HasSuffix(att.StorageKey, ".png"))
	assert.Equal(t, storage.PublicUploadPath+"/"+att.StorageKey, att.URL)
	assert.Equal(t, "photo.png", att.OriginalName)
	assert.Equal(t, "image/png", att.MimeType)
	assert.Equal(t, int64(len("png-bytes")), att.SizeBytes)

	written, err := os.ReadFile(filepath.Join(backend.Dir(), att.StorageKey))
	assert.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), written)
}

func TestLocalBackendDistinctKeys(t *testing.T) {
	backend, err := storage.NewLocalBackend(t.TempDir())
	assert.NoError(t, err)

	file := makeFileHeader(t, "media", "same.png", "image/png", []byte("x"))
	first, err := backend.Store(context.Background(), "media", file)
	assert.NoError(t, err)
	second, err := backend.Store(context.Background(), "media", file)
	assert.NoError(t, err)

	assert.NotEqual(t, first.StorageKey, second.StorageKey)
}

func TestNewStorageKey(t *testing.T) {
	key := storage.NewStorageKey("avatar", "Selfie Final.JPEG")
	assert.True(t, strings.HasPrefix(key, "avatar-"))
	assert.True(t, strings.HasSuffix(key, ".jpeg"))

	noExt := storage.NewStorageKey("media", "README")
	assert.True(t, strings.HasPrefix(noExt, "media-"))
	assert.False(t, strings.Contains(noExt, "."))
}
