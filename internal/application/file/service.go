package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
)

// MaxUploadSize caps image uploads at 5 MB.
const MaxUploadSize = 5 << 20

const presignTTL = 15 * time.Minute

// allowedContentTypes are the image formats accepted for upload.
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// kindPrefixes maps an upload kind to its S3 key prefix.
var kindPrefixes = map[string]string{
	"website": "website-images",
	"product": "product-images",
	"user":    "user-avatars",
	"general": "uploads",
}

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Kind        string
	UploaderID  string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.File, error)
	UploadBase64(ctx context.Context, filename, base64Data, kind, uploaderID string) (*domain.File, error)
	PresignedURL(ctx context.Context, fileID string) (string, *domain.File, error)
	Delete(ctx context.Context, fileID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type fileStore interface {
	Put(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, fileID string) (*domain.File, error)
	SoftDelete(ctx context.Context, fileID string) error
}

type service struct {
	objects  objectStore
	fileRepo fileStore
}

func NewService(objects objectStore, fileRepo fileStore) Service {
	return &service{objects: objects, fileRepo: fileRepo}
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.File, error) {
	if _, ok := allowedContentTypes[input.ContentType]; !ok {
		return nil, fmt.Errorf("unsupported image type %q, want JPEG, PNG or WebP: %w", input.ContentType, domain.ErrBadRequest)
	}
	if input.Size > MaxUploadSize {
		return nil, fmt.Errorf("file exceeds 5MB limit: %w", domain.ErrBadRequest)
	}
	prefix, ok := kindPrefixes[input.Kind]
	if !ok {
		prefix = kindPrefixes["general"]
		input.Kind = "general"
	}

	safeName := sanitizeFilename(input.Filename)
	key := fmt.Sprintf("%s/%s-%s", prefix, id.New(), safeName)
	url, err := s.objects.Upload(ctx, key, io.LimitReader(input.Reader, MaxUploadSize), input.ContentType)
	if err != nil {
		return nil, err
	}
	f := &domain.File{
		FileID:      id.New(),
		Key:         key,
		URL:         url,
		Filename:    safeName,
		ContentType: input.ContentType,
		Size:        input.Size,
		Kind:        input.Kind,
		UploadedBy:  input.UploaderID,
		Enable:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.fileRepo.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) UploadBase64(ctx context.Context, filename, base64Data, kind, uploaderID string) (*domain.File, error) {
	decoded, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", domain.ErrBadRequest)
	}
	contentType := contentTypeFromName(filename)
	return s.Upload(ctx, UploadInput{
		Reader:      bytes.NewReader(decoded),
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(decoded)),
		Kind:        kind,
		UploaderID:  uploaderID,
	})
}

func (s *service) PresignedURL(ctx context.Context, fileID string) (string, *domain.File, error) {
	f, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return "", nil, err
	}
	if !f.Enable {
		return "", nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	url, err := s.objects.PresignedURL(ctx, f.Key, presignTTL)
	if err != nil {
		return "", nil, err
	}
	return url, f, nil
}

func (s *service) Delete(ctx context.Context, fileID string) error {
	f, err := s.fileRepo.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if !f.Enable {
		return fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	if err := s.objects.Delete(ctx, f.Key); err != nil {
		return err
	}
	return s.fileRepo.SoftDelete(ctx, fileID)
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "-")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func contentTypeFromName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
