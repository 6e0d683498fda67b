package rvo

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/landmass/avoidance"
)

func TestComputeVelocityNoNeighborsMatchesPreferred(t *testing.T) {
	o := New()
	pos := d3.NewVec3XYZ(0, 0, 0)
	vel := d3.NewVec3XYZ(1, 0, 0)
	preferred := d3.NewVec3XYZ(1, 0, 0)

	got := o.ComputeVelocity(pos, vel, 0.5, 2, preferred, nil, nil, avoidance.Tunables{NeighbourhoodTime: 1})

	assert.InDelta(t, preferred.X(), got.X(), 0.05)
	assert.InDelta(t, preferred.Z(), got.Z(), 0.05)
}

func TestComputeVelocityStaysWithinMaxSpeed(t *testing.T) {
	o := New()
	pos := d3.NewVec3XYZ(0, 0, 0)
	vel := d3.NewVec3XYZ(0, 0, 0)
	preferred := d3.NewVec3XYZ(2, 0, 0)
	maxSpeed := float32(2)

	neighbors := []avoidance.Neighbor{
		{Position: d3.NewVec3XYZ(1, 0, 0), Velocity: d3.NewVec3(), Radius: 0.5},
	}

	got := o.ComputeVelocity(pos, vel, 0.5, maxSpeed, preferred, neighbors, nil, avoidance.Tunables{NeighbourhoodTime: 1})

	speed := got.Len()
	require.True(t, speed <= maxSpeed+0.01, "got speed %v exceeds max %v", speed, maxSpeed)
}

func TestComputeVelocityDeflectsAroundHeadOnNeighbor(t *testing.T) {
	o := New()
	pos := d3.NewVec3XYZ(0, 0, 0)
	vel := d3.NewVec3XYZ(1, 0, 0)
	preferred := d3.NewVec3XYZ(1, 0, 0)

	// A neighbor sitting directly ahead, closing head-on, should push the
	// chosen velocity away from a straight line towards it.
	neighbors := []avoidance.Neighbor{
		{Position: d3.NewVec3XYZ(1, 0, 0), Velocity: d3.NewVec3XYZ(-1, 0, 0), Radius: 0.5},
	}

	got := o.ComputeVelocity(pos, vel, 0.5, 2, preferred, neighbors, nil, avoidance.Tunables{NeighbourhoodTime: 2})

	assert.NotEqual(t, float32(0), got.Z(), "expected deflection off the straight-line heading")
}

func TestComputeVelocityCharactersCountAsNeighborsToo(t *testing.T) {
	o := New()
	pos := d3.NewVec3XYZ(0, 0, 0)
	vel := d3.NewVec3XYZ(1, 0, 0)
	preferred := d3.NewVec3XYZ(1, 0, 0)

	characters := []avoidance.Neighbor{
		{Position: d3.NewVec3XYZ(1, 0, 0), Velocity: d3.NewVec3XYZ(-1, 0, 0), Radius: 0.5},
	}

	got := o.ComputeVelocity(pos, vel, 0.5, 2, preferred, nil, characters, avoidance.Tunables{NeighbourhoodTime: 2})

	assert.NotEqual(t, float32(0), got.Z())
}
