package telemetry

import "context"

type ctxKey int

const (
	requestIDCtxKey ctxKey = iota
	sessionIDCtxKey
)

// WithRequestID stores the request ID for code that only sees a context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestID returns the request ID stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// WithSessionID stores the anonymous session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDCtxKey, id)
}

// SessionID returns the session ID stored by WithSessionID.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDCtxKey).(string)
	return id
}

// ContextFields returns the request and session IDs as log fields merged into fields.
func ContextFields(ctx context.Context, fields map[string]any) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 2)
	}
	if id := RequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	if id := SessionID(ctx); id != "" {
		fields["session_id"] = id
	}
	return fields
}
