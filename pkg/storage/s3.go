package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// Config contains S3 storage configuration.
type Config struct {
	Bucket         string        `env:"STORAGE_BUCKET,required"`
	Region         string        `env:"STORAGE_REGION" envDefault:"us-east-1"`
	AccessKeyID    string        `env:"STORAGE_ACCESS_KEY_ID"`
	SecretKey      string        `env:"STORAGE_SECRET_KEY"`
	Endpoint       string        `env:"STORAGE_ENDPOINT"` // Optional: for S3-compatible services
	BaseURL        string        `env:"STORAGE_BASE_URL"` // Public URL base for serving files
	KeyPrefix      string        `env:"STORAGE_KEY_PREFIX" envDefault:"covers"`
	ForcePathStyle bool          `env:"STORAGE_FORCE_PATH_STYLE" envDefault:"false"` // For S3-compatible services like MinIO
	UploadTimeout  time.Duration `env:"STORAGE_UPLOAD_TIMEOUT" envDefault:"30s"`
	MaxUploadSize  int64         `env:"STORAGE_MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MiB
}

// S3Client abstracts the S3 operations used by S3Storage.
// Satisfied by *s3.Client; mockable in tests.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores objects in an S3 bucket.
type S3Storage struct {
	client        S3Client
	bucket        string
	baseURL       string
	keyPrefix     string
	uploadTimeout time.Duration
	maxUploadSize int64
}

// Option configures S3Storage.
type Option func(*options)

type options struct {
	s3Client   S3Client
	httpClient *http.Client
}

// WithS3Client sets a custom pre-configured S3 client.
// Useful for testing with mocks.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// NewS3Storage creates an S3-backed uploader.
func NewS3Storage(ctx context.Context, cfg Config, opts ...Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, awsconfig.WithHTTPClient(o.httpClient))
		}

		awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
		}

		client = s3.NewFromConfig(awsConfig, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		baseURL:       baseURL,
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		uploadTimeout: cfg.UploadTimeout,
		maxUploadSize: cfg.MaxUploadSize,
	}, nil
}

// Upload stores data and returns its public URL. The object key is a
// UUID plus the sanitized file extension, scoped under the key prefix.
func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if s.maxUploadSize > 0 && int64(len(data)) > s.maxUploadSize {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}

	safeName := SanitizeFilename(filename)
	if safeName == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	mimeType, ok := DetectImageType(data)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	key := uuid.New().String() + strings.ToLower(filepath.Ext(safeName))
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}

	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", classifyS3Error(err, "upload")
	}

	return s.baseURL + "/" + key, nil
}

// Delete removes an object by key.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, key)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err, "delete")
	}
	return nil
}

// classifyS3Error converts S3 errors to domain-specific errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s operation", ErrOperationTimeout, operation)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s operation", ErrOperationCanceled, operation)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %s operation", ErrAccessDenied, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s operation", ErrServiceUnavailable, operation)
		case "NoSuchBucket":
			return ErrBucketNotFound
		default:
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}
