package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HandlerFunc is a downstream handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Options configures an Interceptor. Zero values fall back to defaults.
type Options struct {
	// UserHeader names the request header holding the caller identity.
	UserHeader string
	// TraceHeader names the inbound trace header consulted when the
	// request context carries no trace id.
	TraceHeader string
	// RedactHeaders lists header names whose values are masked in logs.
	RedactHeaders []string
	// MaxBodyBytes bounds how much of the request body is logged.
	MaxBodyBytes int64
}

const (
	defaultUserHeader   = "X-Blip-User"
	defaultTraceHeader  = "X-Request-ID"
	defaultMaxBodyBytes = 1 << 20
	redactedValue       = "[REDACTED]"
)

// Interceptor turns failures of downstream handlers into logged JSON error
// responses. It is immutable after construction and safe for concurrent use.
type Interceptor struct {
	log         zerolog.Logger
	userHeader  string
	traceHeader string
	redact      map[string]struct{}
	maxBody     int64
}

// NewInterceptor constructs an Interceptor that logs through log.
func NewInterceptor(log zerolog.Logger, opts Options) *Interceptor {
	ic := &Interceptor{
		log:         log,
		userHeader:  opts.UserHeader,
		traceHeader: opts.TraceHeader,
		maxBody:     opts.MaxBodyBytes,
	}
	if ic.userHeader == "" {
		ic.userHeader = defaultUserHeader
	}
	if ic.traceHeader == "" {
		ic.traceHeader = defaultTraceHeader
	}
	if ic.maxBody <= 0 {
		ic.maxBody = defaultMaxBodyBytes
	}
	if len(opts.RedactHeaders) > 0 {
		ic.redact = make(map[string]struct{}, len(opts.RedactHeaders))
		for _, h := range opts.RedactHeaders {
			ic.redact[http.CanonicalHeaderKey(h)] = struct{}{}
		}
	}
	return ic
}

// Wrap adapts an error-returning handler. A nil error passes the response
// through untouched; a returned error or a panic is intercepted.
func (ic *Interceptor) Wrap(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if err := invoke(h, ww, r); err != nil {
			ic.handle(ww, r, err, responseState{
				headerSent:  ww.Status() != 0,
				bodyWritten: ww.BytesWritten() > 0,
			})
		}
	})
}

// Middleware intercepts panics of plain http.Handlers.
func (ic *Interceptor) Middleware(next http.Handler) http.Handler {
	return ic.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		next.ServeHTTP(w, r)
		return nil
	})
}

func invoke(h HandlerFunc, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err = panicError{value: rec}
		}
	}()
	return h(w, r)
}

// responseState records how far the downstream got with the response.
type responseState struct {
	headerSent  bool
	bodyWritten bool
}

// handle logs err twice (short and detailed) and writes the JSON error body
// unless the downstream already wrote one. When only the status line went
// out, the body is written under that status.
func (ic *Interceptor) handle(w http.ResponseWriter, r *http.Request, err error, st responseState) {
	status, kind := classify(err)
	msg := err.Error()
	user := r.Header.Get(ic.userHeader)
	traceID := ic.traceID(r)

	ic.log.Error().
		Str("user", user).
		Err(err).
		Int("status", status).
		Msg("request failed")

	body := readBody(r, ic.maxBody)
	ic.log.Error().
		Str("trace_id", traceID).
		Str("user", user).
		Interface("headers", ic.redactHeaders(r.Header)).
		Interface("query", r.URL.Query()).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("body", body).
		Str("kind", kind).
		Bool("response_started", st.headerSent).
		Msg("request failed details")

	interceptedErrorsTotal.WithLabelValues(kind, itoa(status)).Inc()
	payload := msg + "| traceId: " + traceID
	switch {
	case st.bodyWritten:
	case st.headerSent:
		writeJSONBody(w, payload)
	default:
		if w.Header().Get(ic.traceHeader) == "" {
			w.Header().Set(ic.traceHeader, traceID)
		}
		writeJSONString(w, status, payload)
	}
}

func (ic *Interceptor) traceID(r *http.Request) string {
	if id := TraceIDFromContext(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(ic.traceHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

func (ic *Interceptor) redactHeaders(h http.Header) http.Header {
	if len(ic.redact) == 0 {
		return h
	}
	out := h.Clone()
	for k := range out {
		if _, ok := ic.redact[k]; ok {
			out[k] = []string{redactedValue}
		}
	}
	return out
}
