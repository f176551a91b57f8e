package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	mediaKey     contextKey = "media"
	requestIDKey contextKey = "request_id"
)

// WithSessionID annotates context with the review session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the review session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithMedia annotates context with the stem of the media under review.
func WithMedia(ctx context.Context, stem string) context.Context {
	if stem == "" {
		return ctx
	}
	return context.WithValue(ctx, mediaKey, stem)
}

// MediaFromContext returns the media stem if present.
func MediaFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mediaKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
