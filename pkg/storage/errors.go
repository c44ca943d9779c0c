package storage

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid storage config")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrEmptyFile          = errors.New("file is empty")
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size")
	ErrUnsupportedType    = errors.New("content type is not allowed")
	ErrInvalidFilename    = errors.New("invalid filename")

	ErrAccessDenied       = errors.New("access denied")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrServiceUnavailable = errors.New("storage temporarily unavailable")
	ErrOperationTimeout   = errors.New("storage operation timed out")
	ErrOperationCanceled  = errors.New("storage operation canceled")
)
