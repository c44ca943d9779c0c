// Package blog implements the publishing workflow: validated manual
// posts, AI-assisted automated posts, and the public feed with likes
// and comments. Publishing is gated by the author's billing plan.
package blog

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/blogfusion/billing"
)

// PostType distinguishes how a post was written.
type PostType string

const (
	TypeManual    PostType = "manual"
	TypeAutomated PostType = "automated"
)

// StatusPublished is the only post status; drafts never reach storage.
const StatusPublished = "published"

// Categories a post can be filed under.
var Categories = []string{"General", "Technology", "Health", "Lifestyle", "Business", "Travel", "Food"}

// Comment is a reader comment embedded in its post.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"user_id"`
	Author    string    `bson:"userDisplayName" json:"author"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// Post is a published blog post.
type Post struct {
	ID              string    `bson:"_id" json:"id"`
	Title           string    `bson:"title" json:"title"`
	MetaDescription string    `bson:"metaDescription,omitempty" json:"meta_description,omitempty"`
	Content         string    `bson:"content" json:"content"`
	RawContent      string    `bson:"rawContent,omitempty" json:"raw_content,omitempty"`
	Category        string    `bson:"category,omitempty" json:"category,omitempty"`
	AuthorID        string    `bson:"userId" json:"author_id"`
	AuthorName      string    `bson:"author" json:"author_name"`
	CoverImage      string    `bson:"coverImage" json:"cover_image"`
	Type            PostType  `bson:"type" json:"type"`
	Status          string    `bson:"status" json:"status"`
	AIScore         int       `bson:"aiScore,omitempty" json:"ai_score,omitempty"`
	IsHumanized     bool      `bson:"isHumanized,omitempty" json:"is_humanized,omitempty"`
	Keywords        []string  `bson:"keywords,omitempty" json:"keywords,omitempty"`
	URLs            []string  `bson:"urls,omitempty" json:"urls,omitempty"`
	Likes           []string  `bson:"likes" json:"likes"`
	Comments        []Comment `bson:"comments" json:"comments"`
	CreatedAt       time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updated_at"`
}

// GateDeniedError signals a plan gate denial; the reason becomes the
// response error code.
type GateDeniedError struct {
	Reason billing.DenialReason
}

func (e GateDeniedError) Error() string {
	return fmt.Sprintf("publishing denied: %s", e.Reason)
}
