package ringhash

// Hasher computes a 32-bit hash of an item key under a given seed. It backs
// the iterator's item hash (Config.ItemHasher); ring points are computed
// separately by a PointHasher.
type Hasher interface {
	Hash(key []byte, seed uint32) uint32
}

// PointHasher computes the four ring points a server's name contributes for
// a given point-block seed. Ring calls it once per block of four points
// (seed 0 for points 0-3, seed 1 for points 4-7, and so on), so it must be
// deterministic in (name, seed).
type PointHasher interface {
	HashPoints(name []byte, seed uint32) [4]uint32
}

// HasherFunc adapts a plain function to Hasher.
type HasherFunc func(key []byte, seed uint32) uint32

// Hash implements Hasher.
func (f HasherFunc) Hash(key []byte, seed uint32) uint32 { return f(key, seed) }
