package aigen

import "errors"

var (
	ErrAPIKeyRequired   = errors.New("aigen: API key is required")
	ErrBaseURLRequired  = errors.New("aigen: base URL is required")
	ErrEmptyContent     = errors.New("aigen: content is empty")
	ErrEmptyTopic       = errors.New("aigen: topic is empty")
	ErrGenerationFailed = errors.New("aigen: content generation failed")
	ErrHumanizeFailed   = errors.New("aigen: humanization failed")
	ErrRateLimited      = errors.New("aigen: rate limit exceeded")
)
