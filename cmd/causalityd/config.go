// config.go — CLI flag definitions and parsing for the causality daemon.
package main

import (
	"flag"
	"strings"
	"time"

	"github.com/netcausal/browsercausality/internal/correlate"
)

// daemonConfig holds the parsed command-line flags.
type daemonConfig struct {
	httpAddr             string
	debugWSURL           string
	maxRequests          int
	maxBodySize          int
	networkQuietPeriod   time.Duration
	metricsNamespace     string
	excludePatterns      []string
	maxCorrelationWindow time.Duration
	minConfidence        float64
}

func parseFlags() daemonConfig {
	cfg := daemonConfig{}
	correlateDefaults := correlate.DefaultConfig()

	var excludePatterns string
	flag.StringVar(&cfg.httpAddr, "http-addr", ":8090", "Address for the daemon's HTTP endpoints (/metrics, /stats, /requests, /requests/stream, /correlate-all)")
	flag.StringVar(&cfg.debugWSURL, "debug-ws-url", "", "Remote-debugging websocket URL to capture from (empty: no live capture, library-only mode)")
	flag.IntVar(&cfg.maxRequests, "max-requests", 1000, "Maximum finalized requests retained in the store")
	flag.IntVar(&cfg.maxBodySize, "max-body-size", 524288, "Maximum captured response body size in characters before truncation")
	flag.DurationVar(&cfg.networkQuietPeriod, "network-quiet-period", 500*time.Millisecond, "Duration the in-flight count must stay at zero for WaitForQuiet to report quiescence")
	flag.StringVar(&cfg.metricsNamespace, "metrics-namespace", "causality", "Prometheus metrics namespace")
	flag.StringVar(&excludePatterns, "exclude-patterns", "", "Comma-separated regular expressions (an invalid one is matched as a case-insensitive substring); requests whose URL matches one are never captured")
	flag.DurationVar(&cfg.maxCorrelationWindow, "max-correlation-window", correlateDefaults.MaxCorrelationWindow, "How far back an action may precede a request and still be a correlation candidate")
	flag.Float64Var(&cfg.minConfidence, "min-confidence", correlateDefaults.MinConfidence, "Confidence floor below which a Layer 2/3 candidate is discarded")
	flag.Parse()

	if excludePatterns != "" {
		cfg.excludePatterns = strings.Split(excludePatterns, ",")
	}
	return cfg
}
