package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/image/draw"

	"frendora/internal/models"
)

// Bounding box applied to images before remote upload. Larger images
// are downscaled preserving aspect ratio so the bucket never holds
// originals bigger than any client will render.
const (
	maxImageWidth  = 1920
	maxImageHeight = 1080
)

// MinioBackend uploads files to a managed object-storage bucket.
type MinioBackend struct {
	client *minio.Client
	bucket string
	folder string
}

// MinioConfig holds the remote storage connection details.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Folder    string
	UseSSL    bool
}

// NewMinioBackend connects to the object store and ensures the bucket exists.
func NewMinioBackend(ctx context.Context, cfg MinioConfig) (*MinioBackend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioBackend{
		client: client,
		bucket: cfg.Bucket,
		folder: cfg.Folder,
	}, nil
}

// Store uploads one multipart file to the bucket. Images beyond the
// bounding box are downscaled and re-encoded as JPEG first.
func (b *MinioBackend) Store(ctx context.Context, field string, file *multipart.FileHeader) (models.Attachment, error) {
	key := NewStorageKey(field, file.Filename)
	if b.folder != "" {
		key = b.folder + "/" + key
	}

	src, err := file.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer src.Close()

	mime := contentType(file)
	var reader io.Reader = src
	size := file.Size

	if strings.HasPrefix(mime, "image/") {
		bounded, boundedMime, ok, err := boundImage(src, mime)
		if err != nil {
			return models.Attachment{}, fmt.Errorf("failed to process image %s: %w", file.Filename, err)
		}
		if ok {
			reader = bytes.NewReader(bounded)
			size = int64(len(bounded))
			mime = boundedMime
		} else {
			// Undecodable or already within bounds with no buffered copy:
			// rewind and upload the original bytes.
			if _, err := src.Seek(0, io.SeekStart); err != nil {
				return models.Attachment{}, fmt.Errorf("failed to rewind %s: %w", file.Filename, err)
			}
			reader = src
		}
	}

	if _, err := b.client.PutObject(ctx, b.bucket, key, reader, size, minio.PutObjectOptions{ContentType: mime}); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return models.Attachment{
		StorageKey:   key,
		URL:          fmt.Sprintf("%s/%s/%s", b.client.EndpointURL(), b.bucket, key),
		OriginalName: file.Filename,
		MimeType:     mime,
		SizeBytes:    size,
	}, nil
}

// boundImage decodes an image and, when it exceeds the bounding box,
// scales it down and re-encodes it as JPEG. It returns ok=false when the
// image is within bounds or cannot be decoded, in which case the caller
// uploads the original bytes untouched.
func boundImage(src io.Reader, mime string) ([]byte, string, bool, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		// Formats we cannot decode (webp, video thumbnails) pass through.
		return nil, mime, false, nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageWidth && h <= maxImageHeight {
		return nil, mime, false, nil
	}

	scale := float64(maxImageWidth) / float64(w)
	if s := float64(maxImageHeight) / float64(h); s < scale {
		scale = s
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, mime, false, fmt.Errorf("failed to encode bounded image: %w", err)
	}
	return buf.Bytes(), "image/jpeg", true, nil
}
