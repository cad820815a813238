package ringhash

// Murmur3_32, byte-for-byte compatible with the canonical reference
// implementation and with the C library's CH_MurmurHash3 (§4.A). Kept as a
// free function, not just a method, because the point hash below needs to
// call it four times with four different seed transforms.

const (
	murmur3C1  uint32 = 0xcc9e2d51
	murmur3C2  uint32 = 0x1b873593
	murmur3Cm1 uint32 = 0x85ebca6b
	murmur3Cm2 uint32 = 0xc2b2ae35
)

func rotl32(x uint32, r uint8) uint32 {
	return (x << r) | (x >> (32 - r))
}

func murmur3_32(key []byte, seed uint32) uint32 {
	h1 := seed
	nblocks := len(key) / 4

	for i := 0; i < nblocks; i++ {
		k1 := uint32(key[i*4]) | uint32(key[i*4+1])<<8 | uint32(key[i*4+2])<<16 | uint32(key[i*4+3])<<24
		k1 *= murmur3C1
		k1 = rotl32(k1, 15)
		k1 *= murmur3C2
		h1 ^= k1
		h1 = rotl32(h1, 13)
		h1 = h1*5 + 0xe6546b64
	}

	tail := key[nblocks*4:]
	var k1 uint32
	switch len(tail) {
	case 3:
		k1 ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		k1 *= murmur3C1
		k1 = rotl32(k1, 15)
		k1 *= murmur3C2
		h1 ^= k1
	}

	h1 ^= uint32(len(key))
	h1 ^= h1 >> 16
	h1 *= murmur3Cm1
	h1 ^= h1 >> 13
	h1 *= murmur3Cm2
	h1 ^= h1 >> 16
	return h1
}

// Murmur3Hasher is the default item Hasher (§4.A).
type Murmur3Hasher struct{}

// Hash implements Hasher.
func (Murmur3Hasher) Hash(key []byte, seed uint32) uint32 { return murmur3_32(key, seed) }

// Murmur3PointHasher is the default PointHasher: four Murmur3_32 digests of
// the server name, under seeds derived from the point-block index exactly
// as the C reference's simple_points_hash does.
type Murmur3PointHasher struct{}

// HashPoints implements PointHasher.
func (Murmur3PointHasher) HashPoints(name []byte, seed uint32) [4]uint32 {
	i := seed * 4
	return [4]uint32{
		murmur3_32(name, i*murmur3C1),
		murmur3_32(name, (i+1)*murmur3C2),
		murmur3_32(name, (i+2)*murmur3Cm1),
		murmur3_32(name, (i+3)*murmur3Cm2),
	}
}
