package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"frendora/internal/models"
)

// PublicUploadPath is the URL prefix under which locally stored files
// are served back.
const PublicUploadPath = "/uploads"

// LocalBackend writes uploaded files to a directory on disk.
type LocalBackend struct {
	dir string
}

// NewLocalBackend creates the upload directory if it does not exist and
// returns a backend writing into it.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalBackend{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (b *LocalBackend) Dir() string {
	return b.dir
}

// Store copies one multipart file to disk under a collision-free name.
func (b *LocalBackend) Store(_ context.Context, field string, file *multipart.FileHeader) (models.Attachment, error) {
	key := NewStorageKey(field, file.Filename)

	src, err := file.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(b.dir, key))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to create %s: %w", key, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return models.Attachment{}, fmt.Errorf("failed to write %s: %w", key, err)
	}

	return models.Attachment{
		StorageKey:   key,
		URL:          PublicUploadPath + "/" + key,
		OriginalName: file.Filename,
		MimeType:     contentType(file),
		SizeBytes:    file.Size,
	}, nil
}
