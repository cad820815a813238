package ringhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliveByName_OverwritesOnDuplicateAdd(t *testing.T) {
	batch := NewAliveByName()
	batch.Add("a", Alive)
	batch.Add("a", Down)

	assert.Equal(t, 1, batch.Len())
	assert.Equal(t, Down, batch.entries["a"])
}

func TestAliveByHandle_OverwritesOnDuplicateAdd(t *testing.T) {
	ring := buildRing(t, map[string]uint32{"a": 1})

	batch, ok := ring.NewAliveByHandle()
	require.True(t, ok)
	batch.Add(1, Alive)
	batch.Add(1, Dead)

	assert.Equal(t, 1, batch.Len())
	assert.Equal(t, Dead, batch.entries[1])
}

func TestAliveByHandle_RejectedWhenRingDoesNotUseHandles(t *testing.T) {
	ring, err := New(Config{PointsPerServer: 160, UseHandle: DoNotUseHandle})
	require.NoError(t, err)

	batch, ok := ring.NewAliveByHandle()
	assert.False(t, ok)
	assert.Nil(t, batch)
}
