package blog_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogfusion/aigen"
	"github.com/dmitrymomot/blogfusion/auth"
	"github.com/dmitrymomot/blogfusion/billing"
	"github.com/dmitrymomot/blogfusion/blog"
	"github.com/dmitrymomot/blogfusion/pkg/validator"
)

type fakePlanStore struct {
	mu      sync.Mutex
	records map[string]billing.PlanRecord
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{records: make(map[string]billing.PlanRecord)}
}

func (s *fakePlanStore) Get(_ context.Context, userID string) (billing.PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[userID]; ok {
		return rec, nil
	}
	return billing.PlanRecord{UserID: userID, Tier: billing.TierBasic}, nil
}

func (s *fakePlanStore) Apply(_ context.Context, userID string, update billing.PlanUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[userID]
	rec.UserID = userID
	rec.Tier = update.Tier
	if update.Expiry != nil {
		rec.Expiry = update.Expiry
	}
	if update.ResetCounter {
		rec.PublishedCount = 0
	}
	s.records[userID] = rec
	return nil
}

func (s *fakePlanStore) IncrementPublished(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[userID]
	rec.UserID = userID
	if rec.Tier == "" {
		rec.Tier = billing.TierBasic
	}
	rec.PublishedCount++
	s.records[userID] = rec
	return nil
}

type fakePostStore struct {
	mu    sync.Mutex
	posts map[string]*blog.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[string]*blog.Post)}
}

func (s *fakePostStore) Insert(_ context.Context, post *blog.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *post
	s.posts[post.ID] = &clone
	return nil
}

func (s *fakePostStore) Get(_ context.Context, id string) (*blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post, ok := s.posts[id]; ok {
		clone := *post
		return &clone, nil
	}
	return nil, blog.ErrPostNotFound
}

func (s *fakePostStore) List(_ context.Context, q blog.FeedQuery) ([]blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []blog.Post{}
	for _, post := range s.posts {
		if q.Category == "" || post.Category == q.Category {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (s *fakePostStore) AddLike(_ context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return blog.ErrPostNotFound
	}
	for _, id := range post.Likes {
		if id == userID {
			return nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return nil
}

func (s *fakePostStore) RemoveLike(_ context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return blog.ErrPostNotFound
	}
	kept := post.Likes[:0]
	for _, id := range post.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	post.Likes = kept
	return nil
}

func (s *fakePostStore) AddComment(_ context.Context, postID string, comment blog.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return blog.ErrPostNotFound
	}
	post.Comments = append(post.Comments, comment)
	return nil
}

type fakeGenerator struct {
	draft string
	err   error
	calls int
}

func (g *fakeGenerator) Generate(_ context.Context, _ aigen.GenerateRequest) (string, error) {
	g.calls++
	return g.draft, g.err
}

type fakeHumanizer struct {
	result *aigen.HumanizeResult
	err    error
}

func (h *fakeHumanizer) Humanize(_ context.Context, _ string, _ []string) (*aigen.HumanizeResult, error) {
	return h.result, h.err
}

type fakeUploader struct {
	url string
}

func (u *fakeUploader) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	return u.url, nil
}

func (u *fakeUploader) Delete(_ context.Context, _ string) error { return nil }

type serviceFixture struct {
	svc   *blog.Service
	posts *fakePostStore
	plans *fakePlanStore
	gen   *fakeGenerator
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	posts := newFakePostStore()
	plans := newFakePlanStore()
	gen := &fakeGenerator{draft: "# Draft Title\n\nGenerated body."}
	humanizer := &fakeHumanizer{result: &aigen.HumanizeResult{Content: "rewritten", OriginalScore: 85, HumanizedScore: 25}}
	uploader := &fakeUploader{url: "https://cdn.example.com/covers/abc.png"}

	svc := blog.NewService(posts, plans, gen, humanizer, uploader, nil)
	return &serviceFixture{svc: svc, posts: posts, plans: plans, gen: gen}
}

var author = auth.Principal{UserID: "user-1", Email: "writer@example.com", Name: "Writer"}

func validManual() blog.ManualPostInput {
	return blog.ManualPostInput{
		Title:           strings.Repeat("t", 55),
		MetaDescription: strings.Repeat("d", 155),
		Content:         "<p>" + strings.Repeat("c", 150) + "</p>",
		Category:        "Technology",
		CoverImage:      "https://cdn.example.com/cover.png",
	}
}

func TestService_PublishManual(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("publishes and counts", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post, err := f.svc.PublishManual(ctx, author, validManual())
		require.NoError(t, err)

		assert.NotEmpty(t, post.ID)
		assert.Equal(t, blog.TypeManual, post.Type)
		assert.Equal(t, blog.StatusPublished, post.Status)
		assert.Equal(t, "user-1", post.AuthorID)
		assert.Equal(t, "Writer", post.AuthorName)
		assert.NotNil(t, post.Likes)
		assert.NotNil(t, post.Comments)

		stored, err := f.posts.Get(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, stored.Title)

		rec, _ := f.plans.Get(ctx, "user-1")
		assert.Equal(t, int64(1), rec.PublishedCount)
	})

	t.Run("strips script tags from content", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		in := validManual()
		in.Content = "<p>" + strings.Repeat("c", 150) + "</p><script>alert(1)</script>"

		post, err := f.svc.PublishManual(ctx, author, in)
		require.NoError(t, err)
		assert.NotContains(t, post.Content, "<script>")
	})

	t.Run("validation error reported before gate", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.plans.records["user-1"] = billing.PlanRecord{UserID: "user-1", Tier: billing.TierBasic, PublishedCount: 3}

		in := validManual()
		in.Title = "too short"
		_, err := f.svc.PublishManual(ctx, author, in)
		require.True(t, validator.IsValidationError(err))
	})

	t.Run("three posts then the limit", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		for range 3 {
			_, err := f.svc.PublishManual(ctx, author, validManual())
			require.NoError(t, err)
		}

		_, err := f.svc.PublishManual(ctx, author, validManual())
		var gateErr blog.GateDeniedError
		require.ErrorAs(t, err, &gateErr)
		assert.Equal(t, billing.ReasonLimitReached, gateErr.Reason)
	})

	t.Run("expired paid plan denied", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		expiry := time.Now().AddDate(0, -1, 0)
		f.plans.records["user-1"] = billing.PlanRecord{UserID: "user-1", Tier: billing.TierMedium, Expiry: &expiry}

		_, err := f.svc.PublishManual(ctx, author, validManual())
		var gateErr blog.GateDeniedError
		require.ErrorAs(t, err, &gateErr)
		assert.Equal(t, billing.ReasonPlanExpired, gateErr.Reason)
	})
}

func TestService_PublishAutomated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	validInput := blog.AutomatedPostInput{
		Content:     "# Remote Work\n\nFocus on productivity every day.",
		Category:    "Business",
		CoverImage:  "https://cdn.example.com/cover.png",
		Keywords:    []string{"productivity"},
		URLs:        []string{"https://example.com/productivity"},
		AIScore:     25,
		IsHumanized: true,
	}

	t.Run("basic tier requires upgrade", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.PublishAutomated(ctx, author, validInput)
		var gateErr blog.GateDeniedError
		require.ErrorAs(t, err, &gateErr)
		assert.Equal(t, billing.ReasonUpgradeRequired, gateErr.Reason)
	})

	t.Run("paid tier publishes formatted html", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.plans.records["user-1"] = billing.PlanRecord{UserID: "user-1", Tier: billing.TierMedium}

		post, err := f.svc.PublishAutomated(ctx, author, validInput)
		require.NoError(t, err)

		assert.Equal(t, blog.TypeAutomated, post.Type)
		assert.Equal(t, "Remote Work", post.Title)
		assert.Contains(t, post.Content, "<h1>Remote Work</h1>")
		assert.Contains(t, post.Content, `<a href="https://example.com/productivity"`)
		assert.Equal(t, 25, post.AIScore)
		assert.True(t, post.IsHumanized)

		rec, _ := f.plans.Get(ctx, "user-1")
		assert.Equal(t, int64(1), rec.PublishedCount)
	})
}

func TestService_Generate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	req := aigen.GenerateRequest{Topic: "Remote work"}

	t.Run("basic tier denied without calling generator", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.Generate(ctx, author, req)
		var gateErr blog.GateDeniedError
		require.ErrorAs(t, err, &gateErr)
		assert.Equal(t, billing.ReasonUpgradeRequired, gateErr.Reason)
		assert.Zero(t, f.gen.calls)
	})

	t.Run("premium tier generates", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.plans.records["user-1"] = billing.PlanRecord{UserID: "user-1", Tier: billing.TierPremium}

		draft, err := f.svc.Generate(ctx, author, req)
		require.NoError(t, err)
		assert.Contains(t, draft, "# Draft Title")
	})
}

func TestService_Comments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("adds sanitized comment", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post, err := f.svc.PublishManual(ctx, author, validManual())
		require.NoError(t, err)

		comment, err := f.svc.AddComment(ctx, post.ID, author, "  <b>Great</b> post!  ")
		require.NoError(t, err)
		assert.Equal(t, "Great post!", comment.Text)
		assert.Equal(t, "Writer", comment.Author)

		stored, _ := f.svc.Get(ctx, post.ID)
		require.Len(t, stored.Comments, 1)
	})

	t.Run("rejects empty comment", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		post, err := f.svc.PublishManual(ctx, author, validManual())
		require.NoError(t, err)

		_, err = f.svc.AddComment(ctx, post.ID, author, "<i></i>")
		require.ErrorIs(t, err, blog.ErrEmptyComment)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.svc.AddComment(ctx, "missing", author, "hello")
		require.ErrorIs(t, err, blog.ErrPostNotFound)
	})
}

func TestService_Likes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	post, err := f.svc.PublishManual(ctx, author, validManual())
	require.NoError(t, err)

	require.NoError(t, f.svc.Like(ctx, post.ID, "reader-1"))
	require.NoError(t, f.svc.Like(ctx, post.ID, "reader-1"), "double like is a no-op")

	stored, _ := f.svc.Get(ctx, post.ID)
	assert.Equal(t, []string{"reader-1"}, stored.Likes)

	require.NoError(t, f.svc.Unlike(ctx, post.ID, "reader-1"))
	stored, _ = f.svc.Get(ctx, post.ID)
	assert.Empty(t, stored.Likes)
}
