package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"frendora/internal/apperrors"
	"frendora/internal/models"
)

// Limits bounds a single upload request.
type Limits struct {
	MaxFileSize int64 // bytes, per file
	MaxFiles    int
}

// Pipeline validates multipart file parts and stores them through the
// configured backend. All parts are validated before any byte is
// written, and all parts are stored before the caller persists a
// resource record, so a failure never leaves a partial commit.
type Pipeline struct {
	backend Backend
	limits  Limits
}

// NewPipeline creates a new Pipeline.
func NewPipeline(backend Backend, limits Limits) *Pipeline {
	return &Pipeline{
		backend: backend,
		limits:  limits,
	}
}

// ValidateFile is the accept/reject predicate over a single part. It is
// pure: only the declared MIME type and size are inspected, nothing is
// read or written. MIME is checked before size.
func ValidateFile(file *multipart.FileHeader, maxSize int64) error {
	mime := contentType(file)
	if !strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "video/") {
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrUnsupportedMediaType, file.Filename, mime)
	}
	if file.Size > maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", apperrors.ErrPayloadTooLarge, file.Filename, file.Size, maxSize)
	}
	return nil
}

// Process validates every part, then stores every part, returning one
// attachment descriptor per file in upload order. Any validation
// failure rejects the whole batch before a single write; any backend
// failure surfaces as ErrStorageUnavailable.
func (p *Pipeline) Process(ctx context.Context, field string, files []*multipart.FileHeader) ([]models.Attachment, error) {
	for _, file := range files {
		if err := ValidateFile(file, p.limits.MaxFileSize); err != nil {
			return nil, err
		}
	}
	if len(files) > p.limits.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit is %d", apperrors.ErrTooManyFiles, len(files), p.limits.MaxFiles)
	}

	attachments := make([]models.Attachment, 0, len(files))
	for _, file := range files {
		att, err := p.backend.Store(ctx, field, file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

// MergeAttachments builds the final media sequence for a post update:
// retained descriptors first, in caller order, then freshly uploaded
// ones in upload order. Nothing is deduplicated or dropped.
func MergeAttachments(retained, fresh []models.Attachment) []models.Attachment {
	merged := make([]models.Attachment, 0, len(retained)+len(fresh))
	merged = append(merged, retained...)
	merged = append(merged, fresh...)
	return merged
}
