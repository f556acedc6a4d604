package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

type capturedBodyKey struct{}

// capturedBody tees up to limit bytes of everything read from the body.
type capturedBody struct {
	io.ReadCloser
	buf   bytes.Buffer
	limit int64
}

func (c *capturedBody) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	if n > 0 {
		if room := c.limit - int64(c.buf.Len()); room > 0 {
			if int64(n) < room {
				room = int64(n)
			}
			c.buf.Write(p[:room])
		}
	}
	return n, err
}

// BodyCapture keeps a copy of the request body so it can still be logged
// after a downstream handler has consumed it. Mount it before the Interceptor.
// The copy is found through the request context, so middlewares in between
// may wrap r.Body again (http.MaxBytesReader, decompressors) as long as they
// read through to it.
func BodyCapture(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				cb := &capturedBody{ReadCloser: r.Body, limit: limit}
				r = r.WithContext(context.WithValue(r.Context(), capturedBodyKey{}, cb))
				r.Body = cb
			}
			next.ServeHTTP(w, r)
		})
	}
}

// readBody drains what is left of the request body, best effort. Without
// BodyCapture, bytes already consumed downstream are lost.
func readBody(r *http.Request, limit int64) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	rest, _ := io.ReadAll(io.LimitReader(r.Body, limit))
	if cb, ok := r.Context().Value(capturedBodyKey{}).(*capturedBody); ok {
		return cb.buf.String()
	}
	return string(rest)
}
