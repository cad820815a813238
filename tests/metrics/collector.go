// Package metrics periodically samples a Ring's RingStats and exposes them
// both as an in-process history (for the TUI) and as Prometheus gauges
// (for headless runs), the way the sibling client's test harness samples
// pool stats.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/pior/ringhash"
	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is one point-in-time sample of a ring's composition.
type Snapshot struct {
	Timestamp time.Time
	Stats     ringhash.RingStats
}

// AlivenessChange records a server's effective aliveness flipping, the
// churn-scenario analogue of the client harness's circuit breaker
// transitions.
type AlivenessChange struct {
	Timestamp time.Time
	Server    string
	From      ringhash.Aliveness
	To        ringhash.Aliveness
}

// Collector periodically samples a Ring and keeps a bounded history plus a
// Prometheus registry of gauges for the latest sample.
type Collector struct {
	ring     *ringhash.Ring
	interval time.Duration

	mu        sync.Mutex
	snapshots []Snapshot
	changes   []AlivenessChange
	lastAlive map[string]ringhash.Aliveness

	totalServers prometheus.Gauge
	aliveServers prometheus.Gauge
	downServers  prometheus.Gauge
	deadServers  prometheus.Gauge
	totalPoints  prometheus.Gauge
}

// NewCollector creates a Collector sampling ring every interval. Register
// its gauges with a prometheus.Registerer to expose them over /metrics.
func NewCollector(ring *ringhash.Ring, interval time.Duration) *Collector {
	return &Collector{
		ring:      ring,
		interval:  interval,
		lastAlive: make(map[string]ringhash.Aliveness),

		totalServers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ringhash_servers_total",
			Help: "Number of servers currently in the ring.",
		}),
		aliveServers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ringhash_servers_alive",
			Help: "Number of servers with effective aliveness Alive.",
		}),
		downServers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ringhash_servers_down",
			Help: "Number of servers with effective aliveness Down.",
		}),
		deadServers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ringhash_servers_dead",
			Help: "Number of servers with effective aliveness Dead.",
		}),
		totalPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ringhash_points_total",
			Help: "Total ring points currently contributed by all servers.",
		}),
	}
}

// Collectors returns the Collector's gauges for registration with a
// prometheus.Registerer.
func (c *Collector) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.totalServers, c.aliveServers, c.downServers, c.deadServers, c.totalPoints,
	}
}

// Start samples the ring every interval until ctx is done.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *Collector) collect() {
	stats := c.ring.Stats()

	c.totalServers.Set(float64(stats.TotalServers))
	c.aliveServers.Set(float64(stats.AliveServers))
	c.downServers.Set(float64(stats.DownServers))
	c.deadServers.Set(float64(stats.DeadServers))
	c.totalPoints.Set(float64(stats.TotalPoints))

	c.mu.Lock()
	c.snapshots = append(c.snapshots, Snapshot{Timestamp: time.Now(), Stats: stats})
	if len(c.snapshots) > 3600 {
		c.snapshots = c.snapshots[len(c.snapshots)-3600:]
	}
	c.mu.Unlock()
}

// RecordAlivenessChange appends a churn-scenario transition to the
// collector's history, which Changes returns.
func (c *Collector) RecordAlivenessChange(server string, from, to ringhash.Aliveness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, AlivenessChange{
		Timestamp: time.Now(),
		Server:    server,
		From:      from,
		To:        to,
	})
}

// Snapshots returns a copy of the collector's sample history.
func (c *Collector) Snapshots() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Snapshot{}, c.snapshots...)
}

// Changes returns a copy of the collector's aliveness-change history.
func (c *Collector) Changes() []AlivenessChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]AlivenessChange{}, c.changes...)
}

// Latest returns the most recent snapshot, or the zero value if none has
// been collected yet.
func (c *Collector) Latest() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snapshots) == 0 {
		return Snapshot{}, false
	}
	return c.snapshots[len(c.snapshots)-1], true
}
