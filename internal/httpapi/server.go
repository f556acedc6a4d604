package httpapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	// Fetch retrieves path from the dependent API. Non-success upstream
	// statuses are reported as errors implementing HTTPError.
	Fetch(ctx context.Context, path string, query url.Values) ([]byte, error)
	Ready() bool
}

// NewMux assembles the router. Every route runs behind ic; svc may be nil,
// in which case the upstream route is not mounted.
func NewMux(ic *Interceptor, svc Service, opts MuxOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(opts.TraceHeader))
	r.Use(middleware.RealIP)
	if opts.CaptureBody {
		r.Use(BodyCapture(opts.MaxBodyBytes))
	}
	if opts.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORS.AllowedOrigins,
			AllowedMethods: opts.CORS.AllowedMethods,
			AllowedHeaders: opts.CORS.AllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)
	r.Use(ic.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream unreachable"))
	})

	if svc != nil {
		r.Method(http.MethodGet, "/upstream/*", ic.Wrap(func(w http.ResponseWriter, r *http.Request) error {
			b, err := svc.Fetch(r.Context(), chi.URLParam(r, "*"), r.URL.Query())
			if err != nil {
				return err
			}
			w.Header().Set("Content-Type", "application/json")
			_, err = w.Write(b)
			return err
		}))
	}

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}
