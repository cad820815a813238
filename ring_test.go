package ringhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRing(t *testing.T, servers map[string]uint32) *Ring {
	t.Helper()
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	for name, weight := range servers {
		require.Equal(t, AddOK, list.AddWithoutHandle(name, weight, Alive))
	}
	ring.ExchangeServerList(list)
	return ring
}

func TestNew_AppliesDefaults(t *testing.T) {
	ring, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, uint32(160), ring.config.PointsPerServer)
	assert.NotNil(t, ring.config.ItemHasher)
	assert.NotNil(t, ring.config.PointHasher)
}

func TestNew_ZeroPointsPerServerUsesDefault(t *testing.T) {
	_, err := New(Config{PointsPerServer: 0})
	// zero triggers the default, so this should succeed; explicit rejection
	// only matters if a caller bypasses withDefaults, which New never does.
	require.NoError(t, err)
}

func TestRing_ExchangeServerList_BuildsContinuum(t *testing.T) {
	ring := buildRing(t, map[string]uint32{"a": 1, "b": 1, "c": 1})

	stats := ring.Stats()
	assert.Equal(t, 3, stats.TotalServers)
	assert.Equal(t, 3, stats.AliveServers)
	assert.Greater(t, stats.TotalPoints, 0)
}

func TestRing_ExchangeServerList_DeadServerGetsNoPoints(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	require.Equal(t, AddOK, list.AddWithoutHandle("a", 1, Alive))
	require.Equal(t, AddOK, list.AddWithoutHandle("b", 1, Dead))
	ring.ExchangeServerList(list)

	item, ok := ring.current.ByName("b")
	require.True(t, ok)
	assert.Equal(t, uint32(0), item.UsedPoints())
}

func TestRing_ExchangeServerList_WeightScalesPoints(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	require.Equal(t, AddOK, list.AddWithoutHandle("light", 1, Alive))
	require.Equal(t, AddOK, list.AddWithoutHandle("heavy", 3, Alive))
	ring.ExchangeServerList(list)

	light, _ := ring.current.ByName("light")
	heavy, _ := ring.current.ByName("heavy")
	assert.Greater(t, heavy.UsedPoints(), light.UsedPoints())
}

func TestRing_ExchangeServerList_StealsPointsAcrossReconfigure(t *testing.T) {
	ring := buildRing(t, map[string]uint32{"a": 1, "b": 1})
	first, _ := ring.current.ByName("a")
	firstPoints := first.points

	list2 := ring.NewServerList()
	require.Equal(t, AddOK, list2.AddWithoutHandle("a", 1, Alive))
	require.Equal(t, AddOK, list2.AddWithoutHandle("b", 1, Alive))
	require.Equal(t, AddOK, list2.AddWithoutHandle("c", 1, Alive))
	ring.ExchangeServerList(list2)

	second, _ := ring.current.ByName("a")
	assert.Equal(t, &firstPoints[0], &second.points[0], "points slice should be stolen, not re-hashed")
}

func TestRing_RefreshAliveByName_RebuildsContinuum(t *testing.T) {
	ring := buildRing(t, map[string]uint32{"a": 1, "b": 1})

	batch := NewAliveByName()
	batch.Add("a", Down)
	ring.RefreshAliveByName(batch)

	item, _ := ring.current.ByName("a")
	assert.Equal(t, Down, item.Alive())

	stats := ring.Stats()
	assert.Equal(t, 1, stats.DownServers)
	assert.Equal(t, 1, stats.AliveServers)
}

func TestRing_Clean_ResetsUpdatedAliveness(t *testing.T) {
	ring := buildRing(t, map[string]uint32{"a": 1})

	batch := NewAliveByName()
	batch.Add("a", Down)
	ring.RefreshAliveByName(batch)

	ring.Clean()

	item, _ := ring.current.ByName("a")
	assert.Equal(t, Default, item.AliveAsUpdated())
	assert.Equal(t, Alive, item.Alive())
}

func TestMedianWeight(t *testing.T) {
	assert.Equal(t, uint32(3), medianWeight([]uint32{1, 5, 3, 2, 9}))
	assert.Equal(t, uint32(1), medianWeight([]uint32{1}))
}

func TestSortWeightsMedian(t *testing.T) {
	weights := []uint32{9, 3, 7, 1, 5, 2, 8, 4, 6}
	sortWeightsMedian(weights)
	for i := 1; i < len(weights); i++ {
		require.LessOrEqual(t, weights[i-1], weights[i])
	}
}
