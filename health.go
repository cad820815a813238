package ringhash

import (
	"errors"
	"sync"

	"github.com/sony/gobreaker/v2"
)

// HealthTracker maintains one circuit breaker per server name and turns its
// trip/reset transitions into Ring updated-aliveness, the way a caller would
// otherwise have to hand-wire failure counting to RefreshAliveByName (§4.H).
// It adapts the gobreaker settings the teacher's server pools used per
// connection into a per-server-name breaker feeding the ring instead.
type HealthTracker struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
	settings func(serverName string) gobreaker.Settings
}

// NewHealthTracker creates a tracker. settings is called once per
// previously-unseen server name to build its breaker; pass nil for sane
// defaults (3+ requests, 60% failure ratio trips the breaker).
func NewHealthTracker(settings func(serverName string) gobreaker.Settings) *HealthTracker {
	if settings == nil {
		settings = DefaultHealthSettings
	}
	return &HealthTracker{
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
		settings: settings,
	}
}

// DefaultHealthSettings mirrors the ratio the teacher used for connection
// circuit breakers: at least 3 requests observed, 60% of them failures.
func DefaultHealthSettings(serverName string) gobreaker.Settings {
	return gobreaker.Settings{
		Name: serverName,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
}

var errProbeFailed = errors.New("ringhash: health probe reported failure")

// Report records the outcome of one probe or real request against
// serverName, creating its breaker on first use.
func (h *HealthTracker) Report(serverName string, success bool) {
	h.mu.Lock()
	cb, ok := h.breakers[serverName]
	if !ok {
		cb = gobreaker.NewCircuitBreaker[struct{}](h.settings(serverName))
		h.breakers[serverName] = cb
	}
	h.mu.Unlock()

	_, _ = cb.Execute(func() (struct{}, error) {
		if success {
			return struct{}{}, nil
		}
		return struct{}{}, errProbeFailed
	})
}

// Snapshot builds an AliveByName batch from every breaker's current state:
// an open breaker reports Down, closed or half-open reports Default (defer
// to the server's configured aliveness). Feed the result straight to
// Ring.RefreshAliveByName.
func (h *HealthTracker) Snapshot() *AliveByName {
	h.mu.Lock()
	defer h.mu.Unlock()

	batch := NewAliveByName()
	for name, cb := range h.breakers {
		if cb.State() == gobreaker.StateOpen {
			batch.Add(name, Down)
		} else {
			batch.Add(name, Default)
		}
	}
	return batch
}
