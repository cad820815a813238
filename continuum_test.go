package ringhash

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortPoints_ProducesAscendingOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	points := make([]point, 5000)
	for i := range points {
		points[i] = point{value: r.Uint32(), serverIndex: uint32(i % 17)}
	}

	sortPoints(points, 1<<31, 1<<30)

	for i := 1; i < len(points); i++ {
		require.True(t, points[i-1].value <= points[i].value, "out of order at %d", i)
	}
}

func TestSortPoints_StableAgainstStdlibSort(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	points := make([]point, 800)
	for i := range points {
		points[i] = point{value: r.Uint32() % 1000, serverIndex: uint32(i)}
	}

	want := make([]point, len(points))
	copy(want, points)
	sort.Slice(want, func(i, j int) bool { return pointLess(want[i], want[j]) })

	sortPoints(points, 1<<31, 1<<30)

	assert.Equal(t, want, points)
}

func TestContinuum_FindReturnsNearestPoint(t *testing.T) {
	var c continuum
	c.addServer(0, []uint32{100, 5000, 9000})
	c.addServer(1, []uint32{3000, 7000})
	c.sort()

	idx, ok := c.find(100)
	require.True(t, ok)
	assert.Equal(t, uint32(0), idx)

	idx, ok = c.find(3000)
	require.True(t, ok)
	assert.Equal(t, uint32(1), idx)
}

func TestContinuum_FindWrapsAround(t *testing.T) {
	var c continuum
	c.addServer(0, []uint32{10})
	c.addServer(1, []uint32{1 << 31})
	c.sort()

	idx, ok := c.find(^uint32(0) - 2)
	require.True(t, ok)
	assert.Equal(t, uint32(0), idx)
}

func TestContinuum_FindEmpty(t *testing.T) {
	var c continuum
	_, ok := c.find(42)
	assert.False(t, ok)
}

func TestCircularDistance(t *testing.T) {
	assert.Equal(t, uint32(5), circularDistance(10, 5))
	assert.Equal(t, uint32(5), circularDistance(5, 10))
	assert.Equal(t, uint32(10), circularDistance(5, ^uint32(0)-4))
}

func TestFirstGreaterOrEqual(t *testing.T) {
	points := []point{{value: 10}, {value: 20}, {value: 20}, {value: 30}}
	assert.Equal(t, uint32(0), firstGreaterOrEqual(points, 5, 0, 4))
	assert.Equal(t, uint32(1), firstGreaterOrEqual(points, 20, 0, 4))
	assert.Equal(t, uint32(4), firstGreaterOrEqual(points, 31, 0, 4))
}

func TestContinuum_FillHashBucketsMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	var c continuum
	for s := uint32(0); s < 20; s++ {
		pts := make([]uint32, 50)
		for i := range pts {
			pts[i] = r.Uint32()
		}
		c.addServer(s, pts)
	}
	c.sort()

	for i := 1; i < len(c.hash); i++ {
		require.GreaterOrEqual(t, c.hash[i], c.hash[i-1])
	}
	assert.Equal(t, uint32(len(c.points)), c.hash[len(c.hash)-1])
}
