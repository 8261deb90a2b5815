// Package metrics provides counters, Prometheus collectors, and HTTP
// handlers for exporting msgrelay dispatch metrics.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Internal state, mirrored into Prometheus collectors.
var (
	mu     sync.Mutex
	sent   = map[string]int64{}
	failed = map[string]int64{}

	lastDispatch int64
)

// Prometheus collectors.
var (
	promSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgrelay_messages_sent_total",
			Help: "Total messages accepted by the provider, per channel",
		},
		[]string{"channel"},
	)
	promFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msgrelay_messages_failed_total",
			Help: "Total dispatch failures, per channel",
		},
		[]string{"channel"},
	)
	promLastDispatch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "msgrelay_last_dispatch_timestamp_seconds",
			Help: "Unix timestamp of the last dispatch attempt",
		},
	)
)

func init() {
	prometheus.MustRegister(promSent, promFailed, promLastDispatch)
}

// IncSent records one provider-accepted message on a channel.
func IncSent(channel string) {
	mu.Lock()
	sent[channel]++
	mu.Unlock()
	promSent.WithLabelValues(channel).Inc()
}

// IncFailed records one dispatch failure on a channel.
func IncFailed(channel string) {
	mu.Lock()
	failed[channel]++
	mu.Unlock()
	promFailed.WithLabelValues(channel).Inc()
}

// SetLastDispatch stores the provided time as the last dispatch attempt
// and updates the corresponding Prometheus gauge.
func SetLastDispatch(t time.Time) {
	atomic.StoreInt64(&lastDispatch, t.Unix())
	promLastDispatch.Set(float64(t.Unix()))
}

// StatsSnapshot is a snapshot of metrics for JSON encoding.
type StatsSnapshot struct {
	Sent             map[string]int64 `json:"sent"`
	Failed           map[string]int64 `json:"failed"`
	LastDispatch     int64            `json:"last_dispatch_timestamp"`
	LastDispatchTime string           `json:"last_dispatch_human"`
}

// GetSnapshot returns a StatsSnapshot with the current values of all
// counters and timestamps.
func GetSnapshot() StatsSnapshot {
	mu.Lock()
	s := make(map[string]int64, len(sent))
	f := make(map[string]int64, len(failed))
	for k, v := range sent {
		s[k] = v
	}
	for k, v := range failed {
		f[k] = v
	}
	mu.Unlock()

	ts := atomic.LoadInt64(&lastDispatch)
	return StatsSnapshot{
		Sent:             s,
		Failed:           f,
		LastDispatch:     ts,
		LastDispatchTime: time.Unix(ts, 0).Format(time.RFC3339),
	}
}

// PromHandler returns an HTTP handler that exposes Prometheus metrics.
func PromHandler() http.Handler { return promhttp.Handler() }

// JSONHandler returns an HTTP handler that serves the current metrics as
// a JSON-encoded StatsSnapshot.
func JSONHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GetSnapshot())
	})
}
