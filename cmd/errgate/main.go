package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"errgate/internal/config"
	"errgate/internal/httpapi"
	"errgate/internal/upstream"
)

func main() {
	// Graceful shutdown (Ctrl+C / SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(serve).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve runs the HTTP server until ctx is canceled or listening fails.
func serve(ctx context.Context, cfg config.Config) error {
	logger, err := httpapi.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	ic := httpapi.NewInterceptor(logger, httpapi.Options{
		UserHeader:    cfg.UserHeader,
		TraceHeader:   cfg.TraceHeader,
		RedactHeaders: cfg.RedactHeaders,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	})

	var svc httpapi.Service
	if cfg.UpstreamURL != "" {
		c, err := upstream.New(cfg.UpstreamURL, time.Duration(cfg.UpstreamTimeoutSeconds)*time.Second)
		if err != nil {
			return err
		}
		svc = c
	}

	mux := httpapi.NewMux(ic, svc, httpapi.MuxOptions{
		TraceHeader:  cfg.TraceHeader,
		CaptureBody:  cfg.CaptureBody,
		MaxBodyBytes: cfg.MaxBodyBytes,
		CORS: httpapi.CORSOptions{
			Enabled:        cfg.CORSEnabled,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
		},
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		logger.Info().Str("addr", cfg.Addr).Str("upstream", cfg.UpstreamURL).Msg("errgate listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
