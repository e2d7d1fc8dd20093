package util

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")

	// RequestIDHeader is the header carrying the request id across services.
	RequestIDHeader = "X-Request-ID"
)

// ContextWithRequestID returns a context with a request id.
// It will generate new request id if the provided id is empty.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generate()
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns request id from context, empty when not present.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestIDMiddleware stores the incoming request id (or a fresh one) in the
// request context and echoes it back in the response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ContextWithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generate returns a uuid-v4 string to use as request id
func generate() string {
	return uuid.NewString()
}
