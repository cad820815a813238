package ringhash

import "sync"

// UseHandle selects whether a Ring's server lists index servers by an
// opaque uint64 handle in addition to their name (§4.A, §4.D).
type UseHandle int

const (
	// UseHandleDefault resolves to WithHandle, matching the reference's
	// config_set_defaults: an unset UseHandle means handles are indexed.
	UseHandleDefault UseHandle = iota
	// DoNotUseHandle means ServerList.ByHandle always reports not found.
	DoNotUseHandle
	// WithHandle means every ServerList the Ring produces indexes by handle
	// as well as by name.
	WithHandle
)

func (u UseHandle) enabled() bool { return u != DoNotUseHandle }

// Config configures a Ring (§4.A). Defaults are applied by New the way the
// teacher's NewClient fills in a Config's zero fields rather than requiring
// every caller to restate them.
type Config struct {
	// ItemHasher hashes item keys for iteration. Defaults to Murmur3Hasher.
	ItemHasher Hasher
	// PointHasher hashes server names into ring points. Defaults to
	// Murmur3PointHasher.
	PointHasher PointHasher
	// PointsPerServer is the number of ring points a server of median
	// weight receives. Must be positive; defaults to 160.
	PointsPerServer uint32
	// UseHandle controls whether server lists also index by handle.
	UseHandle UseHandle
}

func (c Config) withDefaults() Config {
	if c.ItemHasher == nil {
		c.ItemHasher = Murmur3Hasher{}
	}
	if c.PointHasher == nil {
		c.PointHasher = Murmur3PointHasher{}
	}
	if c.PointsPerServer == 0 {
		c.PointsPerServer = 160
	}
	return c
}

func (c Config) validate() error {
	if c.PointsPerServer == 0 {
		return &ConfigError{Field: "PointsPerServer", Problem: "must be positive"}
	}
	return nil
}

// Ring is a weighted consistent-hash ring over a set of named, optionally
// weighted and aliveness-tracked servers (§3, §4). A Ring owns exactly one
// current ServerList and one continuum built from it; callers build a new
// ServerList and exchange it in to reconfigure (§4.E/§4.G). A Ring is safe
// for concurrent use: lookups take a read lock, reconfiguration and
// aliveness refreshes take a write lock.
type Ring struct {
	config Config

	mu      sync.RWMutex
	current *ServerList
	ring    continuum
}

// New creates a Ring from config, with no servers. Call ExchangeServerList
// with a populated ServerList to make it useful.
func New(config Config) (*Ring, error) {
	config = config.withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	r := &Ring{
		config:  config,
		current: NewServerList(config.UseHandle.enabled()),
	}
	return r, nil
}

// NewServerList creates an empty ServerList compatible with this Ring's
// UseHandle setting, ready to be populated and passed to
// ExchangeServerList.
func (r *Ring) NewServerList() *ServerList {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return NewServerList(r.config.UseHandle.enabled())
}

// ExchangeServerList installs next as the ring's current server list,
// stealing cached points and updated-aliveness from same-named servers in
// the outgoing list (§4.G), rebuilding the continuum, and returning the
// outgoing list so the caller can inspect or Release it.
func (r *Ring) ExchangeServerList(next *ServerList) *ServerList {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.current
	for _, item := range next.Items() {
		if old, ok := prev.ByName(item.Name()); ok {
			item.stealFrom(old)
		}
	}

	r.updateContinuum(next)
	r.current = next
	return prev
}

// updateContinuum recomputes each server's used-points count from its
// weight relative to the median weight of alive-or-down (non-dead)
// servers, then rebuilds the continuum from scratch (§4.F, §4.G).
//
// The median is computed over servers whose effective aliveness is not
// Dead: dead servers contribute no points at all and must not skew the
// scale other servers are measured against.
func (r *Ring) updateContinuum(list *ServerList) {
	r.ring.reset()

	items := list.Items()
	weights := make([]uint32, 0, len(items))
	for _, item := range items {
		if item.Alive() != Dead {
			weights = append(weights, item.Weight())
		} else {
			item.usedPoints = 0
		}
	}

	if len(weights) == 0 {
		return
	}

	median := medianWeight(weights)
	if median == 0 {
		median = 1
	}

	for idx, item := range items {
		if item.Alive() == Dead {
			continue
		}
		used := pointsForWeight(r.config.PointsPerServer, item.Weight(), median)
		item.ensurePoints(r.config.PointHasher, used)
		r.ring.addServer(uint32(idx), item.points[:used])
	}

	r.ring.sort()
}

// pointsForWeight scales pointsPerServer by weight/median, truncating to
// an integer via a float32 intermediate the way the reference does (§4.F),
// which matters for bit-for-bit reproducibility of used-points counts
// across ports, not just their rounded value.
func pointsForWeight(pointsPerServer, weight, median uint32) uint32 {
	scaled := float32(pointsPerServer) * float32(weight) / float32(median)
	return uint32(scaled)
}

// medianWeight returns the median of weights without mutating the caller's
// slice, matching sort_weights' 3-way median-of-4 quicksort in spirit: we
// use a copy plus an index-preserving in-place partition below instead of a
// literal port, since Go's slices package would otherwise pull in a
// dependency the rest of this function doesn't need.
func medianWeight(weights []uint32) uint32 {
	scratch := make([]uint32, len(weights))
	copy(scratch, weights)
	sortWeightsMedian(scratch)
	return scratch[len(scratch)/2]
}

// sortWeightsMedian is a median-of-3 quicksort (insertion sort below four
// elements) distinct from the geometric-pivot sortPoints in continuum.go:
// weights have no known expected distribution to pivot against, so the
// pivot is the median of the first, middle and last elements instead of a
// computed midpoint.
func sortWeightsMedian(weights []uint32) {
	n := len(weights)
	if n < 2 {
		return
	}
	if n <= 3 {
		insertionSortUint32(weights)
		return
	}

	mid := n / 2
	last := n - 1
	medianOf3(weights, 0, mid, last)

	pivot := weights[mid]
	weights[mid], weights[last-1] = weights[last-1], weights[mid]

	i, j := 0, last-1
	for {
		for i++; weights[i] < pivot; i++ {
		}
		for j--; weights[j] > pivot; j-- {
		}
		if i >= j {
			break
		}
		weights[i], weights[j] = weights[j], weights[i]
	}
	weights[i], weights[last-1] = weights[last-1], weights[i]

	sortWeightsMedian(weights[:i])
	sortWeightsMedian(weights[i+1:])
}

func medianOf3(weights []uint32, a, b, c int) {
	if weights[a] > weights[b] {
		weights[a], weights[b] = weights[b], weights[a]
	}
	if weights[a] > weights[c] {
		weights[a], weights[c] = weights[c], weights[a]
	}
	if weights[b] > weights[c] {
		weights[b], weights[c] = weights[c], weights[b]
	}
}

func insertionSortUint32(weights []uint32) {
	for i := 1; i < len(weights); i++ {
		v := weights[i]
		j := i - 1
		for j >= 0 && weights[j] > v {
			weights[j+1] = weights[j]
			j--
		}
		weights[j+1] = v
	}
}

// RefreshAliveByName applies a batch of updated-aliveness values by server
// name (§4.H) and rebuilds the continuum, since aliveness changes which
// servers contribute points.
func (r *Ring) RefreshAliveByName(batch *AliveByName) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, alive := range batch.entries {
		if item, ok := r.current.ByName(name); ok {
			item.aliveAsUpdated = alive
		}
	}
	r.updateContinuum(r.current)
}

// RefreshAliveByHandle is the handle-keyed counterpart of
// RefreshAliveByName, for Rings configured with WithHandle.
func (r *Ring) RefreshAliveByHandle(batch *AliveByHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for handle, alive := range batch.entries {
		if item, ok := r.current.ByHandle(handle); ok {
			item.aliveAsUpdated = alive
		}
	}
	r.updateContinuum(r.current)
}

// Clean resets every server's updated-aliveness back to Default (deferring
// entirely to configured aliveness) and rebuilds the continuum.
func (r *Ring) Clean() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.current.Items() {
		item.aliveAsUpdated = Default
	}
	r.updateContinuum(r.current)
}

// Servers returns the current server list's items in server-index order.
// The returned slice and its elements must not be mutated by the caller;
// it's meant for introspection (listing names, building aliveness batches)
// rather than as a way to bypass ExchangeServerList.
func (r *Ring) Servers() []*ServerItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Items()
}

// RingStats is a point-in-time snapshot of a Ring's composition, meant to
// be read into a metrics system rather than logged (the teacher's core
// client does the same: stats are a pull-based snapshot type, not a push
// to a logger). Map AliveServers/DownServers/DeadServers to gauges and
// TotalPoints to a gauge keyed by server if finer granularity is needed.
type RingStats struct {
	TotalServers int
	AliveServers int
	DownServers  int
	DeadServers  int
	TotalPoints  int
}

// Stats returns a snapshot of the ring's current composition.
func (r *Ring) Stats() RingStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats RingStats
	stats.TotalServers = r.current.Len()
	for _, item := range r.current.Items() {
		switch item.Alive() {
		case Alive:
			stats.AliveServers++
		case Down:
			stats.DownServers++
		case Dead:
			stats.DeadServers++
		}
		stats.TotalPoints += int(item.UsedPoints())
	}
	return stats
}

// find looks up the server index owning target on the current continuum.
// Called by Iterator under the Ring's read lock.
func (r *Ring) find(target uint32) (uint32, bool) {
	return r.ring.find(target)
}
