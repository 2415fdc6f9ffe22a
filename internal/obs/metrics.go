// Package obs exposes Prometheus metrics and a localhost-only debug server:
// package-level promauto collectors with bounded label sets, plus a
// pprof+metrics mux forced onto localhost.
package obs

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	updateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "refbox_update_duration_seconds",
		Help:    "Time spent in one manager Update call",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "refbox_render_duration_seconds",
		Help:    "Time spent in one draw_panels call",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.02},
	})

	currentPeriod = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refbox_current_period",
		Help: "Current GamePeriod as its ordinal value",
	})

	secsInPeriod = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refbox_secs_in_period",
		Help: "Seconds remaining in the current period",
	})

	activePenalties = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "refbox_active_penalties",
		Help: "Currently active penalties by team color",
	}, []string{"color"}) // bounded: "black", "white"

	eventLogTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refbox_event_log_total",
		Help: "Total stats events logged",
	})

	eventLogDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refbox_event_log_dropped_total",
		Help: "Stats events dropped by the log's rate limiter or full buffer",
	})

	panelClientsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refbox_panel_clients_active",
		Help: "Currently connected panel TCP clients",
	})

	panelFramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refbox_panel_frames_sent_total",
		Help: "Total panel frames broadcast",
	})

	remoteTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refbox_remote_timeouts_total",
		Help: "Total accepted ref-timeout button presses",
	})

	remotePacketsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refbox_remote_packets_rejected_total",
		Help: "Remote packets rejected by CRC, unknown id, or debounce",
	}, []string{"reason"}) // bounded: "crc", "unknown_id", "debounced"

	httpRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refbox_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	httpRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refbox_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refbox_websocket_connections_active",
		Help: "Currently active snapshot-stream WebSocket connections",
	})
)

// Config configures the debug/metrics server.
type Config struct {
	Enabled    bool
	ListenAddr string // should stay on localhost in production
}

// DefaultConfig returns safe defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the metrics/pprof server. Binding is forced to
// localhost unless REFBOX_ALLOW_DEBUG_EXTERNAL=true is set.
func StartDebugServer(cfg Config) error {
	if !cfg.Enabled {
		log.Println("obs: debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("REFBOX_ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("obs: debug server forced to localhost")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	go func() {
		log.Printf("obs: debug server on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("obs: debug server error: %v", err)
		}
	}()

	return nil
}

// RecordUpdate records manager Update timing.
func RecordUpdate(d time.Duration) { updateDuration.Observe(d.Seconds()) }

// RecordRender records DrawPanels timing.
func RecordRender(d time.Duration) { renderDuration.Observe(d.Seconds()) }

// SetGameState updates the period/clock gauges from a fresh snapshot.
func SetGameState(period uint8, secsInPeriod uint32, blackPenalties, whitePenalties int) {
	currentPeriod.Set(float64(period))
	secsInPeriod.Set(float64(secsInPeriod))
	activePenalties.WithLabelValues("black").Set(float64(blackPenalties))
	activePenalties.WithLabelValues("white").Set(float64(whitePenalties))
}

// SetEventLogStats sets the total/dropped event-log gauges from the log's
// own running counters (EventLog.GetTotalCount / GetDroppedCount).
func SetEventLogStats(total, dropped int64) {
	eventLogTotal.Set(float64(total))
	eventLogDropped.Set(float64(dropped))
}

// RecordPanelFrameSent increments the panel frame counter and sets the
// active-client gauge.
func RecordPanelFrameSent(clients int) {
	panelFramesSent.Inc()
	panelClientsActive.Set(float64(clients))
}

// RecordRemoteTimeout increments the accepted ref-timeout counter.
func RecordRemoteTimeout() { remoteTimeoutsTotal.Inc() }

// RecordRemoteRejected increments a bounded-reason rejection counter.
// reason must be one of "crc", "unknown_id", "debounced".
func RecordRemoteRejected(reason string) { remotePacketsRejected.WithLabelValues(reason).Inc() }

// RecordHTTPRequest records one HTTP request's latency and outcome.
func RecordHTTPRequest(method, endpoint string, status int, d time.Duration) {
	httpRequestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
	httpRequestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// SetWSConnections sets the active snapshot-stream WebSocket gauge.
func SetWSConnections(count int) { wsConnectionsActive.Set(float64(count)) }
