package context

import "context"

type contextKey string

// CorrelationIDKey is the context key under which the request id travels.
const CorrelationIDKey contextKey = "correlation_id"

// WithCorrelationID tags ctx with the id of the HTTP request being served, so
// probe failures can be matched to the request log line.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// GetCorrelationID returns the request id stored in ctx, or "".
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}
