package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"errgate/internal/config"
)

type cliFlags struct {
	configPath  string
	addr        string
	logLevel    string
	logFormat   string
	upstreamURL string
	redact      string
	captureBody bool
}

// newRootCmd builds the errgate command; run receives the resolved config.
func newRootCmd(run func(context.Context, config.Config) error) *cobra.Command {
	var f cliFlags
	root := &cobra.Command{
		Use:           "errgate",
		Short:         "HTTP service whose failures become logged JSON errors",
		Example:       "  errgate --config errgate.yaml\n  errgate --upstream-url http://orders.local --redact-headers Authorization,Cookie",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	fl := root.Flags()
	fl.StringVar(&f.configPath, "config", "", "Config file (.yaml|.yml|.json|.toml)")
	fl.StringVar(&f.addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults ERRGATE_ADDR or :8080)")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults ERRGATE_LOG_LEVEL or info)")
	fl.StringVar(&f.logFormat, "log-format", "", "Log format: json|console")
	fl.StringVar(&f.upstreamURL, "upstream-url", "", "Base URL of the dependent API served under /upstream/")
	fl.StringVar(&f.redact, "redact-headers", "", "Comma-separated header names masked in error logs")
	fl.BoolVar(&f.captureBody, "capture-body", false, "Buffer request bodies so error logs include them")
	return root
}

// resolveConfig layers defaults < file < environment < explicit flags.
func resolveConfig(cmd *cobra.Command, f cliFlags) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		c, err := config.Load(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg = config.ApplyEnv(cfg)

	fl := cmd.Flags()
	if fl.Changed("addr") { cfg.Addr = f.addr }
	if fl.Changed("log-level") { cfg.LogLevel = f.logLevel }
	if fl.Changed("log-format") { cfg.LogFormat = f.logFormat }
	if fl.Changed("upstream-url") { cfg.UpstreamURL = f.upstreamURL }
	if fl.Changed("redact-headers") { cfg.RedactHeaders = splitCSV(f.redact) }
	if fl.Changed("capture-body") { cfg.CaptureBody = f.captureBody }
	return config.ApplyDefaults(cfg), nil
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
