package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// PostID records the post identifier under the key "post_id".
func PostID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("post_id", id)
}

// Plan records a plan tier name under the key "plan".
func Plan(plan string) slog.Attr {
	if plan == "" {
		return slog.Attr{}
	}
	return slog.String("plan", plan)
}

// RequestID records the HTTP correlation identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Event records a billing event name under the key "event".
func Event(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("event", name)
}
