// Package storage implements the media upload pipeline: part validation,
// a storage backend selected once at startup, collision-free key
// generation, and the retained-plus-new merge used by post updates.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"frendora/internal/models"
)

// Backend persists the bytes of one uploaded file and returns its
// descriptor. Implementations are chosen once at process start, never
// per request.
type Backend interface {
	Store(ctx context.Context, field string, file *multipart.FileHeader) (models.Attachment, error)
}

// NewStorageKey builds a collision-free object name for an uploaded file:
// <fieldName>-<unix millis>-<random>.<ext>. The random component makes
// names unique without any coordination between workers.
func NewStorageKey(field string, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), uuid.New().String(), ext)
}

// contentType reads the MIME type declared for a multipart part.
func contentType(file *multipart.FileHeader) string {
	return file.Header.Get("Content-Type")
}
