package blog

import "context"

// FeedQuery filters and paginates the public feed.
type FeedQuery struct {
	Category string // empty means all categories
	Limit    int64
	Offset   int64
}

// PostStore persists posts and their social state.
type PostStore interface {
	Insert(ctx context.Context, post *Post) error
	Get(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, q FeedQuery) ([]Post, error)

	// AddLike records a like; adding the same user twice is a no-op.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID string, comment Comment) error
}
