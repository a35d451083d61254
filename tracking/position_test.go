package tracking

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPosition(t *testing.T) {
	dest := Position{Lat: 19.1383, Lng: 77.3210}
	seed := SeedPosition(dest)

	assert.InDelta(t, dest.Lat+0.01, seed.Lat, 1e-12)
	assert.InDelta(t, dest.Lng+0.01, seed.Lng, 1e-12)
}

func TestStepTowardExponentialApproach(t *testing.T) {
	dest := Position{Lat: 19.1383, Lng: 77.3210}
	pos := SeedPosition(dest)

	// After n ticks the offset from the destination is 0.01 * 0.9^n per axis.
	for n := 1; n <= 50; n++ {
		pos = StepToward(pos, dest)
		wantOffset := 0.01 * math.Pow(0.9, float64(n))
		assert.InDelta(t, dest.Lat+wantOffset, pos.Lat, 1e-9, "tick %d", n)
		assert.InDelta(t, dest.Lng+wantOffset, pos.Lng, 1e-9, "tick %d", n)
	}

	// The approach never exactly reaches the destination.
	assert.Greater(t, pos.Lat, dest.Lat)
	assert.Greater(t, pos.Lng, dest.Lng)
}

func TestSimulatorTrackSeedsAndBoundsETA(t *testing.T) {
	sim := NewSimulator(time.Hour)
	defer sim.StopAll()

	dest := Position{Lat: 19.0, Lng: 77.0}
	snap := sim.Track("order-1", dest)

	assert.Equal(t, SeedPosition(dest), snap.Position)
	assert.Equal(t, dest, snap.Destination)
	assert.GreaterOrEqual(t, snap.ETAMinutes, 10)
	assert.LessOrEqual(t, snap.ETAMinutes, 30)
}

func TestSimulatorSingleTrackPerOrder(t *testing.T) {
	sim := NewSimulator(time.Hour)
	defer sim.StopAll()

	dest := Position{Lat: 19.0, Lng: 77.0}
	first := sim.Track("order-1", dest)
	second := sim.Track("order-1", dest)

	// The second call reuses the existing track instead of reseeding.
	assert.Equal(t, first.Position, second.Position)

	sim.mu.Lock()
	assert.Len(t, sim.tracks, 1)
	sim.mu.Unlock()
}

func TestSimulatorAdvancesOnTick(t *testing.T) {
	sim := NewSimulator(5 * time.Millisecond)
	defer sim.StopAll()

	dest := Position{Lat: 19.0, Lng: 77.0}
	start := sim.Track("order-1", dest)

	var moved Snapshot
	require.Eventually(t, func() bool {
		snap, ok := sim.Snapshot("order-1")
		if !ok {
			return false
		}
		moved = snap
		return snap.Position != start.Position
	}, 2*time.Second, 5*time.Millisecond)

	// Each tick closes the gap, so the marker sits strictly between the seed
	// and the destination.
	assert.Less(t, moved.Position.Lat, start.Position.Lat)
	assert.Greater(t, moved.Position.Lat, dest.Lat)
}

func TestSimulatorStop(t *testing.T) {
	sim := NewSimulator(time.Hour)

	dest := Position{Lat: 19.0, Lng: 77.0}
	sim.Track("order-1", dest)
	sim.Track("order-2", dest)

	sim.Stop("order-1")
	_, ok := sim.Snapshot("order-1")
	assert.False(t, ok)

	// Stopping an untracked order is a no-op.
	sim.Stop("order-1")
	sim.Stop("never-tracked")

	sim.StopAll()
	_, ok = sim.Snapshot("order-2")
	assert.False(t, ok)
}
