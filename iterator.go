package ringhash

import "fmt"

// ErrRingCorrupted is panicked by Iterator when the continuum reports a
// server index outside the current server list. This can only happen if a
// Ring's continuum and server list have been allowed to drift out of sync,
// which every exported mutator prevents by rebuilding one from the other
// under the same lock; seeing it means a logic bug, not a runtime
// condition callers should recover from.
type ErrRingCorrupted struct {
	ServerIndex int
	ServerCount int
}

func (e *ErrRingCorrupted) Error() string {
	return fmt.Sprintf("ringhash: continuum referenced server index %d, list has %d", e.ServerIndex, e.ServerCount)
}

// fallbackSeedStart is the initial seed the iterator's fallback search
// decrements from. The reference begins at ~5 (0xFFFFFFFA): an arbitrary
// value chosen so the first few fallback probes aren't adjacent to the
// item's own hash, which tends to be near the primary point.
const fallbackSeedStart = ^uint32(5)

// Iterator walks the servers an item key maps to, starting with the
// continuum's primary choice and then probing a deterministic fallback
// sequence for callers that need more than one candidate (§4.I), e.g. to
// retry against the next-best server when the first is Down.
//
// An Iterator is single-use and is not safe for concurrent use, but
// distinct Iterators over the same Ring may run concurrently.
type Iterator struct {
	ring *Ring
	key  []byte

	seed uint32

	visited    map[uint32]struct{}
	foundAlive int
}

// NewIterator creates an iterator over itemKey's candidate servers. The
// first call to Next returns the continuum's primary server for itemKey;
// subsequent calls probe the fallback sequence.
func (r *Ring) NewIterator(itemKey string) *Iterator {
	return &Iterator{
		ring:    r,
		key:     []byte(itemKey),
		seed:    fallbackSeedStart,
		visited: make(map[uint32]struct{}),
	}
}

// Next advances the iterator and returns the next candidate server. ok is
// false once every non-Dead server has been visited (or, for aliveOnly
// walks, once every Alive server has been found) with no more candidates
// to offer.
func (it *Iterator) next(aliveOnly bool) (*ServerItem, bool) {
	it.ring.mu.RLock()
	defer it.ring.mu.RUnlock()

	items := it.ring.current.Items()
	if len(items) == 0 {
		return nil, false
	}

	nonDead := 0
	for _, item := range items {
		if item.Alive() != Dead {
			nonDead++
		}
	}
	if nonDead == 0 {
		return nil, false
	}

	for {
		if aliveOnly && it.foundAlive >= nonDead {
			return nil, false
		}
		if len(it.visited) >= nonDead {
			return nil, false
		}

		target := it.ring.config.ItemHasher.Hash(it.key, it.seed)
		it.seed--

		idx, ok := it.ring.find(target)
		if !ok {
			return nil, false
		}
		if int(idx) >= len(items) {
			panic(&ErrRingCorrupted{ServerIndex: int(idx), ServerCount: len(items)})
		}

		if _, seen := it.visited[idx]; seen {
			continue
		}
		it.visited[idx] = struct{}{}

		item := items[idx]
		if item.Alive() == Dead {
			continue
		}

		if item.Alive() == Alive {
			it.foundAlive++
		} else if aliveOnly {
			continue
		}

		return item, true
	}
}

// Next returns the next candidate server regardless of its aliveness,
// skipping only Dead servers. Use this when the caller wants to see Down
// servers too (e.g. to report them) rather than silently skip past them.
func (it *Iterator) Next() (*ServerItem, bool) {
	return it.next(false)
}

// NextAlive returns the next candidate server that is Alive, skipping Down
// and Dead servers. Use this for normal request routing.
func (it *Iterator) NextAlive() (*ServerItem, bool) {
	return it.next(true)
}

// Get is a convenience wrapper returning up to n distinct Alive servers for
// itemKey in priority order.
func (r *Ring) Get(itemKey string, n int) []*ServerItem {
	it := r.NewIterator(itemKey)
	result := make([]*ServerItem, 0, n)
	for len(result) < n {
		item, ok := it.NextAlive()
		if !ok {
			break
		}
		result = append(result, item)
	}
	return result
}
