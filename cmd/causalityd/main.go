// main.go — The causality daemon: wires the Event Ingester, Action Log,
// Correlator, and Query Layer behind a small HTTP surface, optionally
// fed by a live debug-protocol websocket source.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netcausal/browsercausality/internal/actionlog"
	"github.com/netcausal/browsercausality/internal/buffers"
	"github.com/netcausal/browsercausality/internal/capture"
	"github.com/netcausal/browsercausality/internal/correlate"
	"github.com/netcausal/browsercausality/internal/obsmetrics"
	"github.com/netcausal/browsercausality/internal/queries"
	"github.com/netcausal/browsercausality/internal/transport"
	"github.com/netcausal/browsercausality/internal/types"
	"github.com/netcausal/browsercausality/internal/util"
)

func main() {
	cfg := parseFlags()

	ingester := capture.NewIngester(capture.Config{
		MaxRequests:        cfg.maxRequests,
		MaxBodySize:        cfg.maxBodySize,
		NetworkQuietPeriod: cfg.networkQuietPeriod,
		ExcludePatterns:    cfg.excludePatterns,
	}, nil)
	actions := actionlog.NewLog()
	correlator := correlate.NewCorrelator(actions, correlate.Config{
		MaxCorrelationWindow: cfg.maxCorrelationWindow,
		MinConfidence:        cfg.minConfidence,
	})
	queryLayer := queries.NewLayer(ingester)
	metricsCfg := obsmetrics.DefaultConfig()
	metricsCfg.Namespace = cfg.metricsNamespace
	metrics := obsmetrics.New(metricsCfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.debugWSURL != "" {
		startCapture(ctx, cfg.debugWSURL, ingester)
	}

	util.SafeGo("stats-loop", func() { observeStatsLoop(ctx, ingester, actions, metrics) })

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/stats", statsHandler(ingester, actions))
	mux.HandleFunc("/requests", requestsHandler(queryLayer))
	mux.HandleFunc("/requests/stream", requestsStreamHandler(ingester, queryLayer))
	mux.HandleFunc("/correlate-all", correlateAllHandler(ingester, correlator, metrics))

	server := &http.Server{Addr: cfg.httpAddr, Handler: mux}
	util.SafeGo("shutdown-watcher", func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(os.Stderr, "[causalityd] listening on %s (session=%s)\n", cfg.httpAddr, ingester.SessionID)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "[causalityd] server error: %v\n", err)
		os.Exit(1)
	}
}

// startCapture dials the debug-protocol source and wires its decoded
// events directly into the ingester.
func startCapture(ctx context.Context, wsURL string, ingester *capture.Ingester) {
	client, err := transport.Dial(ctx, wsURL, transport.Handlers{
		OnRequestSent:      ingester.IngestRequestSent,
		OnResponseReceived: ingester.IngestResponseReceived,
		OnLoadingFinished:  ingester.IngestLoadingFinished,
		OnLoadingFailed:    ingester.IngestLoadingFailed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[causalityd] capture source unavailable: %v\n", err)
		return
	}
	util.SafeGo("capture-readloop", func() { client.ReadLoop(ctx) })
}

func observeStatsLoop(ctx context.Context, ingester *capture.Ingester, actions *actionlog.Log, metrics *obsmetrics.Metrics) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := ingester.GetStats()
			metrics.ObserveStats(stats.TotalRequests, stats.PendingRequests, actions.Count())
		}
	}
}

type statsResponse struct {
	TotalRequests   int `json:"totalRequests"`
	PendingRequests int `json:"pendingRequests"`
	TotalActions    int `json:"totalActions"`
}

func statsHandler(ingester *capture.Ingester, actions *actionlog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := ingester.GetStats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statsResponse{
			TotalRequests:   stats.TotalRequests,
			PendingRequests: stats.PendingRequests,
			TotalActions:    actions.Count(),
		})
	}
}

func requestsHandler(queryLayer *queries.Layer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := queries.Filter{
			URLPattern: q.Get("url"),
			Method:     q.Get("method"),
		}
		if since := q.Get("since"); since != "" {
			if t := util.ParseTimestamp(since); !t.IsZero() {
				filter.MinStartMs = t.UnixMilli()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(queryLayer.GetRequests(filter))
	}
}

type streamResponse struct {
	Records []*types.RequestRecord `json:"records"`
	Cursor  int64                  `json:"cursor"`
}

// requestsStreamHandler serves a long-poll style cursor: a client passes
// back the cursor it last received to get only requests finalized since
// then, instead of re-fetching and re-filtering the whole store on every
// poll. A first call can start from an absolute position (?cursor=) or
// from a point in time (?since=), falling back to the beginning of the
// store if neither is given.
func requestsStreamHandler(ingester *capture.Ingester, queryLayer *queries.Layer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var cursor buffers.BufferCursor
		switch {
		case q.Get("cursor") != "":
			if pos, err := strconv.ParseInt(q.Get("cursor"), 10, 64); err == nil {
				cursor = buffers.BufferCursor{Position: pos}
			}
		case q.Get("since") != "":
			if t := util.ParseTimestamp(q.Get("since")); !t.IsZero() {
				cursor = ingester.CursorAtTime(t)
			}
		}

		filter := queries.Filter{
			URLPattern: q.Get("url"),
			Method:     q.Get("method"),
		}

		records, next := queryLayer.StreamSince(cursor, filter)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(streamResponse{Records: records, Cursor: next.Position})
	}
}

func correlateAllHandler(ingester *capture.Ingester, correlator *correlate.Correlator, metrics *obsmetrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := correlator.CorrelateAll(r.Context(), ingester.Snapshot())
		for _, result := range results {
			kinds := make([]string, len(result.Chains))
			for i, c := range result.Chains {
				kinds[i] = string(c.Kind)
			}
			metrics.RecordCorrelation(kinds)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(results)
	}
}
