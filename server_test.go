package ringhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerItem_AliveComposition(t *testing.T) {
	s := newServerItem("a", 1, Alive, 0, false)
	assert.Equal(t, Alive, s.Alive())

	s.aliveAsUpdated = Down
	assert.Equal(t, Down, s.Alive())

	s.aliveAsConfigured = Dead
	assert.Equal(t, Dead, s.Alive(), "configured Dead always wins")
}

func TestServerItem_EnsurePointsGrowsOnly(t *testing.T) {
	s := newServerItem("a", 1, Alive, 0, false)
	hasher := Murmur3PointHasher{}

	s.ensurePoints(hasher, 10)
	require.GreaterOrEqual(t, len(s.points), 10)
	firstBuf := s.points

	s.ensurePoints(hasher, 4)
	assert.Equal(t, uint32(4), s.usedPoints)
	assert.Same(t, &firstBuf[0], &s.points[0], "buffer must not shrink or reallocate")

	s.ensurePoints(hasher, 40)
	assert.GreaterOrEqual(t, len(s.points), 40)
}

func TestServerItem_EnsurePointsDeterministic(t *testing.T) {
	a := newServerItem("same-name", 1, Alive, 0, false)
	b := newServerItem("same-name", 1, Alive, 0, false)
	hasher := Murmur3PointHasher{}

	a.ensurePoints(hasher, 8)
	b.ensurePoints(hasher, 8)
	assert.Equal(t, a.points, b.points)
}

func TestServerItem_StealFrom(t *testing.T) {
	prev := newServerItem("a", 1, Alive, 0, false)
	hasher := Murmur3PointHasher{}
	prev.ensurePoints(hasher, 8)
	prev.aliveAsUpdated = Down
	prevPoints := prev.points

	next := newServerItem("a", 1, Alive, 0, false)
	next.stealFrom(prev)

	assert.Equal(t, prevPoints, next.points)
	assert.Equal(t, Down, next.aliveAsUpdated)
	assert.Nil(t, prev.points)
}

func TestAliveness_String(t *testing.T) {
	assert.Equal(t, "dead", Dead.String())
	assert.Equal(t, "alive", Alive.String())
	assert.Equal(t, "down", Down.String())
	assert.Equal(t, "default", Default.String())
}
