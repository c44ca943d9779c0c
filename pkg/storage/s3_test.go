package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogfusion/pkg/storage"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

// pngBytes is a minimal PNG signature, enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTestStorage(t *testing.T, client *mockS3Client) *storage.S3Storage {
	t.Helper()
	s, err := storage.NewS3Storage(context.Background(), storage.Config{
		Bucket:    "media",
		Region:    "us-east-1",
		BaseURL:   "https://cdn.example.com",
		KeyPrefix: "covers",
	}, storage.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3Storage_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := storage.NewS3Storage(context.Background(), storage.Config{Region: "us-east-1"})
	require.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func TestS3Storage_Upload(t *testing.T) {
	t.Parallel()

	t.Run("returns public url under prefix", func(t *testing.T) {
		t.Parallel()

		client := &mockS3Client{}
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "media" &&
				strings.HasPrefix(*in.Key, "covers/") &&
				strings.HasSuffix(*in.Key, ".png") &&
				*in.ContentType == "image/png"
		})).Return(&s3.PutObjectOutput{}, nil)

		s := newTestStorage(t, client)
		url, err := s.Upload(context.Background(), pngBytes, "cover.png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/covers/"))
		assert.True(t, strings.HasSuffix(url, ".png"))
		client.AssertExpectations(t)
	})

	t.Run("rejects empty data", func(t *testing.T) {
		t.Parallel()

		s := newTestStorage(t, &mockS3Client{})
		_, err := s.Upload(context.Background(), nil, "cover.png")
		require.ErrorIs(t, err, storage.ErrEmptyFile)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		t.Parallel()

		s := newTestStorage(t, &mockS3Client{})
		_, err := s.Upload(context.Background(), []byte("plain text payload"), "cover.png")
		require.ErrorIs(t, err, storage.ErrUnsupportedType)
	})

	t.Run("rejects oversized data", func(t *testing.T) {
		t.Parallel()

		s, err := storage.NewS3Storage(context.Background(), storage.Config{
			Bucket:        "media",
			Region:        "us-east-1",
			MaxUploadSize: 4,
		}, storage.WithS3Client(&mockS3Client{}))
		require.NoError(t, err)

		_, err = s.Upload(context.Background(), pngBytes, "cover.png")
		require.ErrorIs(t, err, storage.ErrFileTooLarge)
	})

	t.Run("rejects unusable filename", func(t *testing.T) {
		t.Parallel()

		s := newTestStorage(t, &mockS3Client{})
		_, err := s.Upload(context.Background(), pngBytes, "..")
		require.ErrorIs(t, err, storage.ErrInvalidFilename)
	})
}

func TestS3Storage_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deletes by key", func(t *testing.T) {
		t.Parallel()

		client := &mockS3Client{}
		client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
			return *in.Bucket == "media" && *in.Key == "covers/abc.png"
		})).Return(&s3.DeleteObjectOutput{}, nil)

		s := newTestStorage(t, client)
		require.NoError(t, s.Delete(context.Background(), "covers/abc.png"))
		client.AssertExpectations(t)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()

		s := newTestStorage(t, &mockS3Client{})
		require.Error(t, s.Delete(context.Background(), "../secrets"))
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cover.png", storage.SanitizeFilename("/tmp/uploads/cover.png"))
	assert.Equal(t, "my_photo_1.jpg", storage.SanitizeFilename("my photo 1.jpg"))
	assert.Equal(t, "", storage.SanitizeFilename(".."))
	assert.Equal(t, "", storage.SanitizeFilename("   "))
}
