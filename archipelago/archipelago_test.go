package archipelago

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/landmass/avoidance"
	"github.com/arl/landmass/avoidance/rvo"
	"github.com/arl/landmass/navmesh"
)

// singleQuadMesh is one large flat quad big enough to hold a short
// straight-line walk from corner to corner.
func singleQuadMesh(t *testing.T) *navmesh.ValidNavigationMesh {
	t.Helper()
	mesh := &navmesh.NavigationMesh{
		Vertices: []d3.Vec3{
			d3.NewVec3XYZ(0, 0, 0),
			d3.NewVec3XYZ(10, 0, 0),
			d3.NewVec3XYZ(10, 0, 10),
			d3.NewVec3XYZ(0, 0, 10),
		},
		Polygons: [][]int{{0, 1, 2, 3}},
	}
	valid, err := mesh.Validate()
	require.NoError(t, err)
	return valid
}

func newTestArchipelago(t *testing.T) *Archipelago[d3.Vec3] {
	t.Helper()
	arch := New[d3.Vec3](navmesh.YUpCoordinates{}, avoidance.NoAvoidance{})
	island := arch.AddIsland()
	island.SetNavMesh(navmesh.Transform{Translation: d3.NewVec3()}, singleQuadMesh(t), nil)
	return arch
}

func TestArchipelagoUpdate_MovesTowardTarget(t *testing.T) {
	arch := newTestArchipelago(t)

	ag := NewAgent(d3.NewVec3XYZ(1, 0, 1), d3.NewVec3(), 0.5, 2, 2)
	target := d3.NewVec3XYZ(9, 0, 1)
	ag.CurrentTarget = &target
	id := arch.AddAgent(ag)

	arch.Update(0.1)

	got := arch.GetAgent(id)
	require.Equal(t, Moving, got.State)
	assert.Greater(t, got.CurrentDesiredVelocity.X(), float32(0))
	assert.InDelta(t, 0, got.CurrentDesiredVelocity.Z(), 1e-4)
}

func TestArchipelagoUpdate_ReachesTarget(t *testing.T) {
	arch := newTestArchipelago(t)

	target := d3.NewVec3XYZ(5, 0, 5)
	ag := NewAgent(d3.NewVec3XYZ(5.1, 0, 5.1), d3.NewVec3(), 0.5, 2, 2)
	ag.CurrentTarget = &target
	id := arch.AddAgent(ag)

	arch.Update(0.1)

	got := arch.GetAgent(id)
	assert.Equal(t, ReachedTarget, got.State)
	assert.Equal(t, d3.NewVec3(), got.CurrentDesiredVelocity)
}

func TestArchipelagoUpdate_NoopWithoutTarget(t *testing.T) {
	arch := newTestArchipelago(t)
	ag := NewAgent(d3.NewVec3XYZ(1, 0, 1), d3.NewVec3(), 0.5, 2, 2)
	id := arch.AddAgent(ag)

	arch.Update(0.1)

	assert.Equal(t, Idle, arch.GetAgent(id).State)
}

func TestArchipelagoUpdate_AvoidsCharacterInThePath(t *testing.T) {
	arch := New[d3.Vec3](navmesh.YUpCoordinates{}, rvo.New())
	island := arch.AddIsland()
	island.SetNavMesh(navmesh.Transform{Translation: d3.NewVec3()}, singleQuadMesh(t), nil)

	target := d3.NewVec3XYZ(9, 0, 1)
	ag := NewAgent(d3.NewVec3XYZ(1, 0, 1), d3.NewVec3XYZ(1, 0, 0), 0.5, 2, 2)
	ag.CurrentTarget = &target
	id := arch.AddAgent(ag)

	// A character directly ahead, closing head-on, should deflect the
	// agent's chosen velocity off the straight line to the target.
	arch.AddCharacter(NewCharacter(d3.NewVec3XYZ(3, 0, 1), d3.NewVec3XYZ(-1, 0, 0), 0.5))

	arch.Update(0.1)

	got := arch.GetAgent(id)
	require.Equal(t, Moving, got.State)
	assert.NotEqual(t, float32(0), got.CurrentDesiredVelocity.Z())
}

func TestArchipelagoUpdate_AgentOffMeshReportsState(t *testing.T) {
	arch := newTestArchipelago(t)

	target := d3.NewVec3XYZ(5, 0, 5)
	ag := NewAgent(d3.NewVec3XYZ(1000, 0, 1000), d3.NewVec3(), 0.5, 2, 2)
	ag.CurrentTarget = &target
	id := arch.AddAgent(ag)

	arch.Update(0.1)

	assert.Equal(t, AgentNotOnNavMesh, arch.GetAgent(id).State)
}
