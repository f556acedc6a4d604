package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type traceIDKey struct{}

// WithTraceID returns a copy of ctx carrying id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the trace id set by TraceID, falling back to
// chi's request id for routers that use middleware.RequestID instead.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return id
	}
	return middleware.GetReqID(ctx)
}

// TraceID assigns every request a trace id: the inbound header value when
// present, otherwise a fresh UUID. The id is echoed on the response.
func TraceID(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = defaultTraceHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(header))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(WithTraceID(r.Context(), id)))
		})
	}
}
