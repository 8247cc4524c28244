package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/storage"
)

// makeFileHeader builds a parsed multipart file header the way Fiber
// hands them to the pipeline.
func makeFileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	assert.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field][0]
}

// recordingBackend counts Store calls and optionally fails.
type recordingBackend struct {
	stored []string
	fail   error
}

func (b *recordingBackend) Store(_ context.Context, field string, file *multipart.FileHeader) (models.Attachment, error) {
	if b.fail != nil {
		return models.Attachment{}, b.fail
	}
	key := storage.NewStorageKey(field, file.Filename)
	b.stored = append(b.stored, key)
	return models.Attachment{
		StorageKey:   key,
		OriginalName: file.Filename,
		MimeType:     file.Header.Get("Content-Type"),
		SizeBytes:    file.Size,
	}, nil
}

func TestValidateFile(t *testing.T) {
	maxSize := int64(1024)

	// Acceptable image and video
	img := makeFileHeader(t, "media", "a.png", "image/png", []byte("png-bytes"))
	assert.NoError(t, storage.ValidateFile(img, maxSize))
	vid := makeFileHeader(t, "media", "b.mp4", "video/mp4", []byte("mp4-bytes"))
	assert.NoError(t, storage.ValidateFile(vid, maxSize))

	// Anything else is rejected on type
	pdf := makeFileHeader(t, "media", "doc.pdf", "application/pdf", []byte("pdf-bytes"))
	assert.ErrorIs(t, storage.ValidateFile(pdf, maxSize), apperrors.ErrUnsupportedMediaType)

	// Oversized image is rejected on size
	big := makeFileHeader(t, "media", "big.png", "image/png", bytes.Repeat([]byte("x"), 2048))
	assert.ErrorIs(t, storage.ValidateFile(big, maxSize), apperrors.ErrPayloadTooLarge)

	// Type is checked before size: an oversized PDF fails on type.
	bigPdf := makeFileHeader(t, "media", "big.pdf", "application/pdf", bytes.Repeat([]byte("x"), 2048))
	assert.ErrorIs(t, storage.ValidateFile(bigPdf, maxSize), apperrors.ErrUnsupportedMediaType)
}

func TestPipelineProcess(t *testing.T) {
	limits := storage.Limits{MaxFileSize: 1024, MaxFiles: 5}

	t.Run("StoresAllInUploadOrder", func(t *testing.T) {
		backend := &recordingBackend{}
		pipeline := storage.NewPipeline(backend, limits)

		files := []*multipart.FileHeader{
			makeFileHeader(t, "media", "a.png", "image/png", []byte("aaa")),
			makeFileHeader(t, "media", "b.mp4", "video/mp4", []byte("bbb")),
		}
		attachments, err := pipeline.Process(context.Background(), "media", files)
		assert.NoError(t, err)
		assert.Len(t, attachments, 2)
		assert.Equal(t, "a.png", attachments[0].OriginalName)
		assert.Equal(t, "b.mp4", attachments[1].OriginalName)
	})

	t.Run("TooManyFilesStoresNothing", func(t *testing.T) {
		backend := &recordingBackend{}
		pipeline := storage.NewPipeline(backend, limits)

		files := make([]*multipart.FileHeader, 0, 6)
		for i := 0; i < 6; i++ {
			files = append(files, makeFileHeader(t, "media", fmt.Sprintf("f%d.png", i), "image/png", []byte("x")))
		}
		_, err := pipeline.Process(context.Background(), "media", files)
		assert.ErrorIs(t, err, apperrors.ErrTooManyFiles)
		assert.Empty(t, backend.stored)
	})

	t.Run("BadTypeStoresNothing", func(t *testing.T) {
		backend := &recordingBackend{}
		pipeline := storage.NewPipeline(backend, limits)

		files := []*multipart.FileHeader{
			makeFileHeader(t, "media", "a.png", "image/png", []byte("aaa")),
			makeFileHeader(t, "media", "doc.pdf", "application/pdf", []byte("bbb")),
		}
		_, err := pipeline.Process(context.Background(), "media", files)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedMediaType)
		assert.Empty(t, backend.stored)
	})

	t.Run("BackendFailureIsStorageUnavailable", func(t *testing.T) {
		backend := &recordingBackend{fail: errors.New("disk full")}
		pipeline := storage.NewPipeline(backend, limits)

		files := []*multipart.FileHeader{
			makeFileHeader(t, "media", "a.png", "image/png", []byte("aaa")),
		}
		_, err := pipeline.Process(context.Background(), "media", files)
		assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})

	t.Run("ZeroFilesIsFine", func(t *testing.T) {
		backend := &recordingBackend{}
		pipeline := storage.NewPipeline(backend, limits)

		attachments, err := pipeline.Process(context.Background(), "media", nil)
		assert.NoError(t, err)
		assert.Empty(t, attachments)
	})
}

func TestMergeAttachments(t *testing.T) {
	retained := []models.Attachment{
		{StorageKey: "media-1-a.png"},
		{StorageKey: "media-2-b.png"},
	}
	fresh := []models.Attachment{
		{StorageKey: "media-3-c.png"},
	}

	merged := storage.MergeAttachments(retained, fresh)
	assert.Equal(t, []models.Attachment{
		{StorageKey: "media-1-a.png"},
		{StorageKey: "media-2-b.png"},
		{StorageKey: "media-3-c.png"},
	}, merged)

	// Duplicates are preserved, never silently dropped.
	dup := storage.MergeAttachments(retained, retained)
	assert.Len(t, dup, 4)

	assert.Empty(t, storage.MergeAttachments(nil, nil))
}
