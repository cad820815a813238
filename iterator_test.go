package ringhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterator_NextAlive_SkipsDeadAndDown(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	require.Equal(t, AddOK, list.AddWithoutHandle("dead", 1, Dead))
	require.Equal(t, AddOK, list.AddWithoutHandle("down", 1, Down))
	require.Equal(t, AddOK, list.AddWithoutHandle("alive1", 1, Alive))
	require.Equal(t, AddOK, list.AddWithoutHandle("alive2", 1, Alive))
	ring.ExchangeServerList(list)

	it := ring.NewIterator("some-key")
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		item, ok := it.NextAlive()
		require.True(t, ok)
		assert.NotEqual(t, "dead", item.Name())
		assert.NotEqual(t, "down", item.Name())
		seen[item.Name()] = true
	}
	assert.Len(t, seen, 2)

	_, ok := it.NextAlive()
	assert.False(t, ok, "only two alive servers exist")
}

func TestIterator_Next_IncludesDownButNotDead(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	require.Equal(t, AddOK, list.AddWithoutHandle("dead", 1, Dead))
	require.Equal(t, AddOK, list.AddWithoutHandle("down", 1, Down))
	ring.ExchangeServerList(list)

	it := ring.NewIterator("k")
	item, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "down", item.Name())

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIterator_EmptyRing(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	it := ring.NewIterator("k")
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestRing_Get_ReturnsDistinctServers(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		require.Equal(t, AddOK, list.AddWithoutHandle(name, 1, Alive))
	}
	ring.ExchangeServerList(list)

	got := ring.Get("item-key", 3)
	require.Len(t, got, 3)

	seen := map[string]bool{}
	for _, item := range got {
		assert.False(t, seen[item.Name()], "duplicate server returned")
		seen[item.Name()] = true
	}
}

func TestIterator_DeterministicAcrossRuns(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160})
	require.NoError(t, err)

	list := ring.NewServerList()
	for _, name := range []string{"a", "b", "c", "d"} {
		require.Equal(t, AddOK, list.AddWithoutHandle(name, 1, Alive))
	}
	ring.ExchangeServerList(list)

	first := ring.Get("stable-key", 4)
	second := ring.Get("stable-key", 4)

	require.Len(t, first, 4)
	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, first[i].Name(), second[i].Name())
	}
}
