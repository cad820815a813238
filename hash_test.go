package ringhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Known-good Murmur3_32 vectors (seed 0) shared by essentially every port
// of the algorithm.
func TestMurmur3_32_KnownVectors(t *testing.T) {
	cases := []struct {
		input string
		seed  uint32
		want  uint32
	}{
		{"", 0, 0},
		{"", 1, 0x514e28b7},
		{"test", 0, 0xba6bd213},
		{"Hello, world!", 0, 0xc0363e43},
		{"Hello, world!", 1, 0x24884cba},
	}

	for _, c := range cases {
		got := murmur3_32([]byte(c.input), c.seed)
		assert.Equalf(t, c.want, got, "murmur3_32(%q, %d)", c.input, c.seed)
	}
}

func TestMurmur3Hasher_Deterministic(t *testing.T) {
	h := Murmur3Hasher{}
	a := h.Hash([]byte("server-1"), 7)
	b := h.Hash([]byte("server-1"), 7)
	assert.Equal(t, a, b)

	c := h.Hash([]byte("server-1"), 8)
	assert.NotEqual(t, a, c, "different seeds should (almost always) diverge")
}

func TestMurmur3PointHasher_FourDistinctPoints(t *testing.T) {
	h := Murmur3PointHasher{}
	points := h.HashPoints([]byte("server-1"), 0)

	seen := map[uint32]bool{}
	for _, p := range points {
		seen[p] = true
	}
	assert.Len(t, seen, 4, "the four points of one block should not collide in practice")
}

func TestMurmur3PointHasher_Deterministic(t *testing.T) {
	h := Murmur3PointHasher{}
	a := h.HashPoints([]byte("server-1"), 3)
	b := h.HashPoints([]byte("server-1"), 3)
	require.Equal(t, a, b)
}

func TestMD5PointHasher_Deterministic(t *testing.T) {
	h := MD5PointHasher{}
	a := h.HashPoints([]byte("server-1"), 3)
	b := h.HashPoints([]byte("server-1"), 3)
	require.Equal(t, a, b)

	c := h.HashPoints([]byte("server-2"), 3)
	assert.NotEqual(t, a, c)
}

func TestXXH3Hasher_Deterministic(t *testing.T) {
	h := XXH3Hasher{}
	a := h.Hash([]byte("item-key"), 5)
	b := h.Hash([]byte("item-key"), 5)
	assert.Equal(t, a, b)

	c := h.Hash([]byte("item-key"), 6)
	assert.NotEqual(t, a, c)
}
