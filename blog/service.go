package blog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogfusion/aigen"
	"github.com/dmitrymomot/blogfusion/auth"
	"github.com/dmitrymomot/blogfusion/billing"
	"github.com/dmitrymomot/blogfusion/pkg/logger"
	"github.com/dmitrymomot/blogfusion/pkg/sanitizer"
	"github.com/dmitrymomot/blogfusion/pkg/storage"
)

// Service orchestrates the publishing workflow. Every publish runs the
// same sequence: load the author's plan, validate the input, evaluate
// the gate, store the post, bump the counter.
type Service struct {
	posts     PostStore
	plans     billing.PlanStore
	generator aigen.Generator
	humanizer aigen.Humanizer
	uploader  storage.Uploader
	log       *slog.Logger
	now       func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithClock overrides the time source. Useful in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the publishing service.
func NewService(posts PostStore, plans billing.PlanStore, generator aigen.Generator, humanizer aigen.Humanizer, uploader storage.Uploader, log *slog.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		posts:     posts,
		plans:     plans,
		generator: generator,
		humanizer: humanizer,
		uploader:  uploader,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublishManual validates and publishes a manually written post.
func (s *Service) PublishManual(ctx context.Context, author auth.Principal, in ManualPostInput) (*Post, error) {
	rec, err := s.plans.Get(ctx, author.UserID)
	if err != nil {
		return nil, err
	}

	if err := validateManual(in); err != nil {
		return nil, err
	}

	if decision := billing.Evaluate(rec, billing.ActionPublishManual, s.now()); !decision.Allowed {
		return nil, GateDeniedError{Reason: decision.Reason}
	}

	now := s.now()
	post := &Post{
		ID:              uuid.New().String(),
		Title:           sanitizer.Trim(in.Title),
		MetaDescription: sanitizer.Trim(in.MetaDescription),
		Content:         sanitizer.CleanHTMLContent(in.Content),
		Category:        in.Category,
		AuthorID:        author.UserID,
		AuthorName:      authorName(author),
		CoverImage:      in.CoverImage,
		Type:            TypeManual,
		Status:          StatusPublished,
		Likes:           []string{},
		Comments:        []Comment{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return s.storePost(ctx, post)
}

// PublishAutomated publishes an AI-drafted post. The markdown draft is
// enriched with keyword links and converted to HTML before storage.
func (s *Service) PublishAutomated(ctx context.Context, author auth.Principal, in AutomatedPostInput) (*Post, error) {
	rec, err := s.plans.Get(ctx, author.UserID)
	if err != nil {
		return nil, err
	}

	if err := validateAutomated(in); err != nil {
		return nil, err
	}

	if decision := billing.Evaluate(rec, billing.ActionPublishAutomated, s.now()); !decision.Allowed {
		return nil, GateDeniedError{Reason: decision.Reason}
	}

	processed := aigen.EmbedKeywordLinks(in.Content, in.Keywords, in.URLs)
	title := sanitizer.Trim(in.Title)
	if title == "" {
		title = aigen.ExtractTitle(in.Content)
	}

	now := s.now()
	post := &Post{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     aigen.FormatHTML(processed),
		RawContent:  processed,
		Category:    in.Category,
		AuthorID:    author.UserID,
		AuthorName:  authorName(author),
		CoverImage:  in.CoverImage,
		Type:        TypeAutomated,
		Status:      StatusPublished,
		AIScore:     in.AIScore,
		IsHumanized: in.IsHumanized,
		Keywords:    in.Keywords,
		URLs:        in.URLs,
		Likes:       []string{},
		Comments:    []Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.storePost(ctx, post)
}

func (s *Service) storePost(ctx context.Context, post *Post) (*Post, error) {
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	// The post is already live; a lost counter bump costs one free
	// publish slot, not a lost post.
	if err := s.plans.IncrementPublished(ctx, post.AuthorID); err != nil {
		s.log.ErrorContext(ctx, "failed to increment published counter",
			logger.UserID(post.AuthorID),
			logger.PostID(post.ID),
			logger.Error(err),
		)
	}

	s.log.InfoContext(ctx, "post published",
		logger.UserID(post.AuthorID),
		logger.PostID(post.ID),
		slog.String("type", string(post.Type)),
	)
	return post, nil
}

// Generate drafts a post from a topic brief. Gated on the AI tier.
func (s *Service) Generate(ctx context.Context, author auth.Principal, req aigen.GenerateRequest) (string, error) {
	rec, err := s.plans.Get(ctx, author.UserID)
	if err != nil {
		return "", err
	}
	if decision := billing.Evaluate(rec, billing.ActionGenerateContent, s.now()); !decision.Allowed {
		return "", GateDeniedError{Reason: decision.Reason}
	}
	return s.generator.Generate(ctx, req)
}

// Humanize rewrites a draft to read less machine-written. Gated on the
// AI tier.
func (s *Service) Humanize(ctx context.Context, author auth.Principal, content string, keywords []string) (*aigen.HumanizeResult, error) {
	rec, err := s.plans.Get(ctx, author.UserID)
	if err != nil {
		return nil, err
	}
	if decision := billing.Evaluate(rec, billing.ActionGenerateContent, s.now()); !decision.Allowed {
		return nil, GateDeniedError{Reason: decision.Reason}
	}
	return s.humanizer.Humanize(ctx, content, keywords)
}

// UploadCover stores a cover image and returns its public URL.
func (s *Service) UploadCover(ctx context.Context, data []byte, filename string) (string, error) {
	return s.uploader.Upload(ctx, data, filename)
}

// Feed lists published posts, newest first.
func (s *Service) Feed(ctx context.Context, q FeedQuery) ([]Post, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return s.posts.List(ctx, q)
}

// Get loads a single post.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.posts.Get(ctx, id)
}

// Like records a like from the user. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, postID, userID string) error {
	return s.posts.AddLike(ctx, postID, userID)
}

// Unlike removes the user's like.
func (s *Service) Unlike(ctx context.Context, postID, userID string) error {
	return s.posts.RemoveLike(ctx, postID, userID)
}

// AddComment appends a comment to the post.
func (s *Service) AddComment(ctx context.Context, postID string, author auth.Principal, text string) (*Comment, error) {
	text = sanitizer.Trim(sanitizer.StripHTML(text))
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := Comment{
		ID:        uuid.New().String(),
		UserID:    author.UserID,
		Author:    authorName(author),
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// authorName prefers the display name, falling back to the email.
func authorName(p auth.Principal) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
