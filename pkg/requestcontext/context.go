// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services and handlers read
// them, and tests inject them without pulling in net/http.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	traineeIDKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// TraineeID retrieves the authenticated trainee ID from the context.
// Returns "" if not set.
func TraineeID(ctx context.Context) string {
	if id, ok := ctx.Value(traineeIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithTraineeID attaches the authenticated trainee ID to the context.
func WithTraineeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traineeIDKey{}, id)
}

// RequestID retrieves the request ID from the context. Returns "" if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Now returns the request time from the context, falling back to time.Now.
// Tests use WithTime to pin the clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time in the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
