package blog

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/blogfusion/aigen"
	"github.com/dmitrymomot/blogfusion/auth"
	"github.com/dmitrymomot/blogfusion/billing"
	"github.com/dmitrymomot/blogfusion/core"
	"github.com/dmitrymomot/blogfusion/pkg/ratelimit"
	"github.com/dmitrymomot/blogfusion/pkg/storage"
)

// maxCoverUpload caps multipart cover image uploads.
const maxCoverUpload = 10 << 20

// NewRouter mounts the post endpoints. The feed and single posts are
// public; everything that writes requires authentication. AI endpoints
// additionally pass through the rate limiter when one is provided.
func NewRouter(svc *Service, authMW func(http.Handler) http.Handler, aiLimiter *ratelimit.Bucket) http.Handler {
	r := chi.NewRouter()

	r.Get("/", handleFeed(svc))
	r.Get("/{postID}", handleGetPost(svc))

	r.Group(func(r chi.Router) {
		r.Use(authMW)

		r.Post("/", handlePublishManual(svc))
		r.Post("/automated", handlePublishAutomated(svc))
		r.Post("/cover-image", handleUploadCover(svc))

		r.Group(func(r chi.Router) {
			r.Use(rateLimitByUser(aiLimiter))
			r.Post("/generate", handleGenerate(svc))
			r.Post("/humanize", handleHumanize(svc))
		})

		r.Post("/{postID}/like", handleLike(svc))
		r.Delete("/{postID}/like", handleUnlike(svc))
		r.Post("/{postID}/comments", handleAddComment(svc))
	})

	return r
}

// rateLimitByUser applies the token bucket per authenticated user.
func rateLimitByUser(bucket *ratelimit.Bucket) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if bucket == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := auth.MustPrincipal(r.Context())
			result, err := bucket.Allow(r.Context(), principal.UserID)
			if err != nil {
				// A broken limiter store must not take the feature down.
				next.ServeHTTP(w, r)
				return
			}
			if !result.Allowed() {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter().Seconds())+1))
				core.Error(w, core.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleFeed(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := FeedQuery{Category: r.URL.Query().Get("category")}
		if limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil {
			q.Limit = limit
		}
		if offset, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64); err == nil {
			q.Offset = offset
		}

		posts, err := svc.Feed(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSONWithMeta(w, http.StatusOK, posts, map[string]int64{
			"limit":  q.Limit,
			"offset": q.Offset,
		})
	}
}

func handleGetPost(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := svc.Get(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusOK, post)
	}
}

func handlePublishManual(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())

		var in ManualPostInput
		if err := core.DecodeJSON(r, &in); err != nil {
			core.Error(w, err)
			return
		}

		post, err := svc.PublishManual(r.Context(), principal, in)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusCreated, post)
	}
}

func handlePublishAutomated(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())

		var in AutomatedPostInput
		if err := core.DecodeJSON(r, &in); err != nil {
			core.Error(w, err)
			return
		}

		post, err := svc.PublishAutomated(r.Context(), principal, in)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusCreated, post)
	}
}

func handleGenerate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())

		var req aigen.GenerateRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Error(w, err)
			return
		}

		draft, err := svc.Generate(r.Context(), principal, req)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusOK, map[string]string{"blog": draft})
	}
}

func handleHumanize(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())

		var in struct {
			Content  string   `json:"content"`
			Keywords []string `json:"keywords"`
		}
		if err := core.DecodeJSON(r, &in); err != nil {
			core.Error(w, err)
			return
		}

		result, err := svc.Humanize(r.Context(), principal, in.Content, in.Keywords)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusOK, map[string]any{
			"content":                result.Content,
			"ai_detection_original":  result.OriginalScore,
			"ai_detection_humanized": result.HumanizedScore,
		})
	}
}

func handleUploadCover(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxCoverUpload); err != nil {
			core.Error(w, core.ErrBadRequest)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			core.Error(w, core.ErrBadRequest)
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, maxCoverUpload))
		if err != nil {
			core.Error(w, core.ErrBadRequest)
			return
		}

		url, err := svc.UploadCover(r.Context(), data, header.Filename)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func handleLike(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())
		if err := svc.Like(r.Context(), chi.URLParam(r, "postID"), principal.UserID); err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusOK, map[string]bool{"liked": true})
	}
}

func handleUnlike(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())
		if err := svc.Unlike(r.Context(), chi.URLParam(r, "postID"), principal.UserID); err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusOK, map[string]bool{"liked": false})
	}
}

func handleAddComment(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := auth.MustPrincipal(r.Context())

		var in struct {
			Text string `json:"text"`
		}
		if err := core.DecodeJSON(r, &in); err != nil {
			core.Error(w, err)
			return
		}

		comment, err := svc.AddComment(r.Context(), chi.URLParam(r, "postID"), principal, in.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		core.JSON(w, http.StatusCreated, comment)
	}
}

// writeError translates domain errors into the response envelope.
func writeError(w http.ResponseWriter, err error) {
	var gateErr GateDeniedError
	switch {
	case errors.As(err, &gateErr):
		core.ErrorWithMessage(w,
			core.NewHTTPError(http.StatusForbidden, string(gateErr.Reason)),
			gateDenialMessage(gateErr.Reason),
		)
	case errors.Is(err, ErrPostNotFound):
		core.Error(w, core.ErrNotFound)
	case errors.Is(err, ErrEmptyComment):
		core.ErrorWithMessage(w, core.ErrUnprocessableEntity, "comment text is required")
	case errors.Is(err, aigen.ErrRateLimited):
		core.Error(w, core.ErrTooManyRequests)
	case errors.Is(err, aigen.ErrEmptyTopic), errors.Is(err, aigen.ErrEmptyContent):
		core.Error(w, core.ErrUnprocessableEntity)
	case errors.Is(err, aigen.ErrGenerationFailed), errors.Is(err, aigen.ErrHumanizeFailed):
		core.Error(w, core.ErrBadGateway)
	case errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrEmptyFile),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidFilename):
		core.ErrorWithMessage(w, core.ErrUnprocessableEntity, err.Error())
	default:
		core.Error(w, err)
	}
}

func gateDenialMessage(reason billing.DenialReason) string {
	switch reason {
	case billing.ReasonUpgradeRequired:
		return "this feature requires a paid plan"
	case billing.ReasonPlanExpired:
		return "your plan has expired, renew to keep publishing"
	case billing.ReasonLimitReached:
		return "you have reached your plan's publishing limit"
	default:
		return fmt.Sprintf("publishing denied: %s", reason)
	}
}
