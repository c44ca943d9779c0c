// Package requestid attaches a correlation identifier to every HTTP request.
//
// A valid client-supplied "X-Request-ID" header is reused, anything else is
// replaced with a fresh UUID. The chosen ID travels in the request context,
// is echoed back in the response header, and can be pulled into structured
// logs via LogAttr so records from the same interaction tie together.
package requestid

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogfusion/pkg/logger"
)

// Header carries the correlation ID between client and server.
const Header = "X-Request-ID"

// Client IDs longer than this are replaced rather than truncated.
const maxLen = 128

type ctxKey struct{}

// WithContext returns a context carrying the request ID.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID, or "" when none was attached.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// LogAttr returns the context's request ID as a log attribute. Empty when
// the context carries none, so it can be passed to slog unconditionally.
func LogAttr(ctx context.Context) slog.Attr {
	return logger.RequestID(FromContext(ctx))
}

// Middleware ensures every request carries a usable correlation ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !usable(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// usable reports whether a client-supplied ID is safe to echo into headers
// and logs: non-empty, bounded, and limited to [A-Za-z0-9_-].
func usable(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
