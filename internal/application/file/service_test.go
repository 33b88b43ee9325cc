package file

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockFileStore struct{ mock.Mock }

func (m *mockFileStore) Put(ctx context.Context, f *domain.File) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFileStore) Get(ctx context.Context, fileID string) (*domain.File, error) {
	args := m.Called(ctx, fileID)
	if f := args.Get(0); f != nil {
		return f.(*domain.File), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileStore) SoftDelete(ctx context.Context, fileID string) error {
	return m.Called(ctx, fileID).Error(0)
}

func TestUpload(t *testing.T) {
	objects := new(mockObjectStore)
	files := new(mockFileStore)
	svc := NewService(objects, files)

	var uploadedKey string
	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).
		Return("s3://bucket/key", nil)
	files.On("Put", mock.Anything, mock.AnythingOfType("*domain.File")).Return(nil)

	f, err := svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader("png-bytes"),
		Filename:    "banner image.png",
		ContentType: "image/png",
		Size:        9,
		Kind:        "website",
		UploaderID:  "u1",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploadedKey, "website-images/"), "key %q should carry the kind prefix", uploadedKey)
	assert.Equal(t, "banner-image.png", f.Filename)
	assert.Equal(t, "website", f.Kind)
	assert.Equal(t, "s3://bucket/key", f.URL)
	assert.True(t, f.Enable)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	objects := new(mockObjectStore)
	svc := NewService(objects, new(mockFileStore))

	_, err := svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader("%PDF"),
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		Size:        4,
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	objects.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadRejectsOversize(t *testing.T) {
	objects := new(mockObjectStore)
	svc := NewService(objects, new(mockFileStore))

	_, err := svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader("x"),
		Filename:    "big.jpg",
		ContentType: "image/jpeg",
		Size:        MaxUploadSize + 1,
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	objects.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadUnknownKindFallsBackToGeneral(t *testing.T) {
	objects := new(mockObjectStore)
	files := new(mockFileStore)
	svc := NewService(objects, files)

	var uploadedKey string
	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).
		Return("s3://bucket/key", nil)
	files.On("Put", mock.Anything, mock.AnythingOfType("*domain.File")).Return(nil)

	f, err := svc.Upload(context.Background(), UploadInput{
		Reader:      strings.NewReader("jpeg"),
		Filename:    "pic.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Kind:        "mystery",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploadedKey, "uploads/"))
	assert.Equal(t, "general", f.Kind)
}

func TestUploadBase64(t *testing.T) {
	objects := new(mockObjectStore)
	files := new(mockFileStore)
	svc := NewService(objects, files)

	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/webp").
		Return("s3://bucket/key", nil)
	files.On("Put", mock.Anything, mock.AnythingOfType("*domain.File")).Return(nil)

	f, err := svc.UploadBase64(context.Background(), "hero.webp", "d2VicC1ieXRlcw==", "product", "u1")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", f.ContentType)
	assert.Equal(t, int64(10), f.Size)
}

func TestUploadBase64BadData(t *testing.T) {
	svc := NewService(new(mockObjectStore), new(mockFileStore))

	_, err := svc.UploadBase64(context.Background(), "x.png", "!!not-base64!!", "general", "u1")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestPresignedURL(t *testing.T) {
	objects := new(mockObjectStore)
	files := new(mockFileStore)
	svc := NewService(objects, files)

	files.On("Get", mock.Anything, "f1").Return(&domain.File{FileID: "f1", Key: "uploads/x.png", Enable: true}, nil)
	objects.On("PresignedURL", mock.Anything, "uploads/x.png", presignTTL).Return("https://signed", nil)

	url, f, err := svc.PresignedURL(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
	assert.Equal(t, "f1", f.FileID)
}

func TestPresignedURLDisabledFile(t *testing.T) {
	files := new(mockFileStore)
	svc := NewService(new(mockObjectStore), files)

	files.On("Get", mock.Anything, "f1").Return(&domain.File{FileID: "f1", Enable: false}, nil)

	_, _, err := svc.PresignedURL(context.Background(), "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	objects := new(mockObjectStore)
	files := new(mockFileStore)
	svc := NewService(objects, files)

	files.On("Get", mock.Anything, "f1").Return(&domain.File{FileID: "f1", Key: "uploads/x.png", Enable: true}, nil)
	objects.On("Delete", mock.Anything, "uploads/x.png").Return(nil)
	files.On("SoftDelete", mock.Anything, "f1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	objects.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my-pic.png", sanitizeFilename("my pic.png"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file", sanitizeFilename("###"))
}
