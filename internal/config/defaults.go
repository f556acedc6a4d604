package config

import (
	"os"
	"strconv"
)

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:                   ":8080",
		LogLevel:               "info",
		LogFormat:              "json",
		UserHeader:             "X-Blip-User",
		TraceHeader:            "X-Request-ID",
		MaxBodyBytes:           1 << 20,
		UpstreamTimeoutSeconds: 30,
	}
}

// ApplyDefaults fills zero-valued fields of cfg from Defaults.
func ApplyDefaults(cfg Config) Config {
	d := Defaults()
	if cfg.Addr == "" { cfg.Addr = d.Addr }
	if cfg.LogLevel == "" { cfg.LogLevel = d.LogLevel }
	if cfg.LogFormat == "" { cfg.LogFormat = d.LogFormat }
	if cfg.UserHeader == "" { cfg.UserHeader = d.UserHeader }
	if cfg.TraceHeader == "" { cfg.TraceHeader = d.TraceHeader }
	if cfg.MaxBodyBytes <= 0 { cfg.MaxBodyBytes = d.MaxBodyBytes }
	if cfg.UpstreamTimeoutSeconds <= 0 { cfg.UpstreamTimeoutSeconds = d.UpstreamTimeoutSeconds }
	return cfg
}

// ApplyEnv overrides cfg with ERRGATE_* environment variables when set.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("ERRGATE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ERRGATE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ERRGATE_UPSTREAM_URL"); v != "" {
		cfg.UpstreamURL = v
	}
	if v := os.Getenv("ERRGATE_CAPTURE_BODY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CaptureBody = b
		}
	}
	return cfg
}
