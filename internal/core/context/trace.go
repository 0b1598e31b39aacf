package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext identifies one request across log lines and response headers.
// Span-level tracing is handled separately by otel instrumentation.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// WithTrace attaches trace identifiers to the context.
func WithTrace(ctx context.Context, tc *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, tc)
}

// GetTrace returns the trace identifiers, or nil when the request
// did not pass through the trace middleware.
func GetTrace(ctx context.Context) *TraceContext {
	tc, _ := ctx.Value(traceKey{}).(*TraceContext)
	return tc
}

// GetRequestID returns the request ID or an empty string.
func GetRequestID(ctx context.Context) string {
	if tc := GetTrace(ctx); tc != nil {
		return tc.RequestID
	}
	return ""
}

// NewTraceContext generates fresh identifiers for a request that
// arrived without any.
func NewTraceContext() *TraceContext {
	return &TraceContext{
		TraceID:   uuid.New().String(),
		RequestID: uuid.New().String(),
	}
}
