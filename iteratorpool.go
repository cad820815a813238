package ringhash

import (
	"context"

	"github.com/jackc/puddle/v2"
)

// IteratorPool recycles Iterators for callers issuing lookups at a high
// enough rate that the per-call map allocation inside NewIterator shows up
// in profiles. It adapts the puddle pool the teacher used for network
// connections to a much shorter-lived resource: an Iterator reset between
// uses rather than a connection torn down and redialed.
type IteratorPool struct {
	ring *Ring
	pool *puddle.Pool[*Iterator]
}

// NewIteratorPool creates a pool of Iterators bound to ring, capped at
// maxSize concurrently checked out.
func NewIteratorPool(ring *Ring, maxSize int32) (*IteratorPool, error) {
	constructor := func(ctx context.Context) (*Iterator, error) {
		return &Iterator{ring: ring, visited: make(map[uint32]struct{})}, nil
	}
	destructor := func(it *Iterator) {}

	pool, err := puddle.NewPool(&puddle.Config[*Iterator]{
		Constructor: constructor,
		Destructor:  destructor,
		MaxSize:     maxSize,
	})
	if err != nil {
		return nil, err
	}

	return &IteratorPool{ring: ring, pool: pool}, nil
}

// Acquire checks out an Iterator reset for itemKey. Call Release on the
// returned handle when done; it returns the Iterator to the pool rather
// than discarding it.
func (p *IteratorPool) Acquire(ctx context.Context, itemKey string) (*PooledIterator, error) {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	it := res.Value()
	it.key = []byte(itemKey)
	it.seed = fallbackSeedStart
	it.foundAlive = 0
	clear(it.visited)

	return &PooledIterator{Iterator: it, res: res}, nil
}

// Stats exposes the pool's current size for metrics.
func (p *IteratorPool) Stats() puddle.Stat {
	return *p.pool.Stat()
}

// Close destroys every idle Iterator and marks the pool closed.
func (p *IteratorPool) Close() {
	p.pool.Close()
}

// PooledIterator wraps an Iterator checked out from an IteratorPool.
type PooledIterator struct {
	*Iterator
	res *puddle.Resource[*Iterator]
}

// Release returns the Iterator to its pool for reuse.
func (p *PooledIterator) Release() {
	p.res.Release()
}
