// Package metrics provides observability for the simulation server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Driver metrics
	UpdateCount      int64
	UpdateLatencySum int64 // nanoseconds
	UpdateLatencyMax int64
	DaysSimulated    int64
	LastUpdateTime   time.Time

	// Notification metrics
	NotificationsEmitted int64
	NotificationsDropped int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	// Persistence metrics
	SnapshotSaves      int64
	SnapshotLoads      int64
	SnapshotErrors     int64
	SnapshotLatencySum int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = NewCollector()

// NewCollector returns a zeroed collector. Tests use private instances.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordUpdate records one driver update and how many simulated days it advanced.
func (c *Collector) RecordUpdate(latency time.Duration, days int) {
	atomic.AddInt64(&c.UpdateCount, 1)
	atomic.AddInt64(&c.UpdateLatencySum, int64(latency))
	atomic.AddInt64(&c.DaysSimulated, int64(days))

	// Update max (non-atomic compare but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.UpdateLatencyMax) {
		atomic.StoreInt64(&c.UpdateLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastUpdateTime = time.Now()
	c.mu.Unlock()
}

// RecordNotifications records drained notifications and how many could not be delivered.
func (c *Collector) RecordNotifications(emitted, dropped int) {
	atomic.AddInt64(&c.NotificationsEmitted, int64(emitted))
	atomic.AddInt64(&c.NotificationsDropped, int64(dropped))
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outbound WebSocket frame.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordSnapshot records a save or load through the persistence gateway.
func (c *Collector) RecordSnapshot(save bool, latency time.Duration, err error) {
	if save {
		atomic.AddInt64(&c.SnapshotSaves, 1)
	} else {
		atomic.AddInt64(&c.SnapshotLoads, 1)
	}
	atomic.AddInt64(&c.SnapshotLatencySum, int64(latency))
	if err != nil {
		atomic.AddInt64(&c.SnapshotErrors, 1)
	}
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	updates := atomic.LoadInt64(&c.UpdateCount)
	persisted := atomic.LoadInt64(&c.SnapshotSaves) + atomic.LoadInt64(&c.SnapshotLoads)

	var updateAvg, snapshotAvg float64
	if updates > 0 {
		updateAvg = float64(atomic.LoadInt64(&c.UpdateLatencySum)) / float64(updates) / 1e6 // ms
	}
	if persisted > 0 {
		snapshotAvg = float64(atomic.LoadInt64(&c.SnapshotLatencySum)) / float64(persisted) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"driver": map[string]interface{}{
			"updates":        updates,
			"days_simulated": atomic.LoadInt64(&c.DaysSimulated),
			"avg_latency_ms": updateAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.UpdateLatencyMax)) / 1e6,
			"last_update":    c.LastUpdateTime.Format(time.RFC3339),
		},

		"notifications": map[string]interface{}{
			"emitted": atomic.LoadInt64(&c.NotificationsEmitted),
			"dropped": atomic.LoadInt64(&c.NotificationsDropped),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"snapshots": map[string]interface{}{
			"saves":          atomic.LoadInt64(&c.SnapshotSaves),
			"loads":          atomic.LoadInt64(&c.SnapshotLoads),
			"errors":         atomic.LoadInt64(&c.SnapshotErrors),
			"avg_latency_ms": snapshotAvg,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		fmt.Fprintf(w, "# HELP office_driver_updates_total Driver update cycles\n")
		fmt.Fprintf(w, "# TYPE office_driver_updates_total counter\n")
		fmt.Fprintf(w, "office_driver_updates_total %d\n\n", atomic.LoadInt64(&c.UpdateCount))

		fmt.Fprintf(w, "# HELP office_days_simulated_total Simulated days advanced\n")
		fmt.Fprintf(w, "# TYPE office_days_simulated_total counter\n")
		fmt.Fprintf(w, "office_days_simulated_total %d\n\n", atomic.LoadInt64(&c.DaysSimulated))

		fmt.Fprintf(w, "# HELP office_update_latency_max_ms Maximum update latency\n")
		fmt.Fprintf(w, "# TYPE office_update_latency_max_ms gauge\n")
		fmt.Fprintf(w, "office_update_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.UpdateLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP office_notifications_total Notifications drained from the engine\n")
		fmt.Fprintf(w, "# TYPE office_notifications_total counter\n")
		fmt.Fprintf(w, "office_notifications_total{outcome=\"emitted\"} %d\n", atomic.LoadInt64(&c.NotificationsEmitted))
		fmt.Fprintf(w, "office_notifications_total{outcome=\"dropped\"} %d\n\n", atomic.LoadInt64(&c.NotificationsDropped))

		fmt.Fprintf(w, "# HELP office_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE office_ws_connections gauge\n")
		fmt.Fprintf(w, "office_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP office_ws_messages_total Outbound WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE office_ws_messages_total counter\n")
		fmt.Fprintf(w, "office_ws_messages_total %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		fmt.Fprintf(w, "# HELP office_snapshots_total Persistence gateway operations\n")
		fmt.Fprintf(w, "# TYPE office_snapshots_total counter\n")
		fmt.Fprintf(w, "office_snapshots_total{op=\"save\"} %d\n", atomic.LoadInt64(&c.SnapshotSaves))
		fmt.Fprintf(w, "office_snapshots_total{op=\"load\"} %d\n", atomic.LoadInt64(&c.SnapshotLoads))
		fmt.Fprintf(w, "office_snapshots_total{op=\"error\"} %d\n", atomic.LoadInt64(&c.SnapshotErrors))
	}
}
