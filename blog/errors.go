package blog

import "errors"

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrEmptyComment      = errors.New("comment text is empty")
	ErrFailedToSavePost  = errors.New("failed to save post")
	ErrFailedToLoadPosts = errors.New("failed to load posts")
)
