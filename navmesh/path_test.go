package navmesh

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zigZagMesh is a 15-polygon corridor that turns right, left, left and then
// right again, used to exercise every branch of the funnel core (tighten-right,
// tighten-left, corner emit), not just the straight single-portal
// corridors the other path/pathfinder tests run over.
func zigZagMesh(t *testing.T) *ValidNavigationMesh {
	t.Helper()
	mesh := &NavigationMesh{
		Vertices: []d3.Vec3{
			d3.NewVec3XYZ(0, 0, 0),
			d3.NewVec3XYZ(1, 0, 0),
			d3.NewVec3XYZ(1, 0, 1),
			d3.NewVec3XYZ(0, 0, 1),
			d3.NewVec3XYZ(1, 0, 2),
			d3.NewVec3XYZ(0, 0, 2),
			d3.NewVec3XYZ(1, 0, 3),
			d3.NewVec3XYZ(0, 0, 3),
			d3.NewVec3XYZ(1, 0, 4),
			d3.NewVec3XYZ(0, 0, 4),
			d3.NewVec3XYZ(1, 0, 5), // Turn right
			d3.NewVec3XYZ(2, 0, 4),
			d3.NewVec3XYZ(2, 0, 5),
			d3.NewVec3XYZ(3, 0, 4),
			d3.NewVec3XYZ(3, 0, 5),
			d3.NewVec3XYZ(4, 0, 4),
			d3.NewVec3XYZ(4, 0, 5),
			d3.NewVec3XYZ(5, 0, 5), // Turn left
			d3.NewVec3XYZ(5, 0, 6),
			d3.NewVec3XYZ(4, 0, 6),
			d3.NewVec3XYZ(5, 0, 7),
			d3.NewVec3XYZ(4, 0, 7),
			d3.NewVec3XYZ(4, 0, 8), // Turn left
			d3.NewVec3XYZ(-3, 0, 8),
			d3.NewVec3XYZ(-3, 0, 7),
			d3.NewVec3XYZ(-4, 0, 8), // Turn right
			d3.NewVec3XYZ(-3, 0, 15),
			d3.NewVec3XYZ(-4, 0, 15),
		},
		Polygons: [][]int{
			{0, 1, 2, 3},
			{3, 2, 4, 5},
			{5, 4, 6, 7},
			{7, 6, 8, 9},
			{9, 8, 10},
			{10, 8, 11, 12},
			{12, 11, 13, 14},
			{14, 13, 15, 16},
			{16, 15, 17},
			{16, 17, 18, 19},
			{19, 18, 20, 21},
			{21, 20, 22},
			{21, 22, 23, 24},
			{24, 23, 25},
			{25, 23, 26, 27},
		},
	}
	valid, err := mesh.Validate()
	require.NoError(t, err)
	require.Len(t, valid.Polygons, 15)
	return valid
}

// collectStraightPath repeatedly calls FindNextPointInStraightPath until it
// reaches endIndex, feeding each returned waypoint back in as the next
// apex so that every call yields the next corner of the straight path,
// collecting every waypoint along the way.
func collectStraightPath(t *testing.T, nd *NavigationData, path *Path, startIndex PathIndex, startPoint d3.Vec3, endIndex PathIndex, endPoint d3.Vec3, iterationLimit int) []struct {
	Step  int
	Point d3.Vec3
} {
	t.Helper()
	var waypoints []struct {
		Step  int
		Point d3.Vec3
	}
	idx, pt := startIndex, startPoint
	for i := 0; i < iterationLimit; i++ {
		idx, pt = path.FindNextPointInStraightPath(nd, idx, pt, endIndex, endPoint)
		waypoints = append(waypoints, struct {
			Step  int
			Point d3.Vec3
		}{idx.CorridorStep, pt})
		if idx == endIndex {
			break
		}
	}
	return waypoints
}

func TestFindNextPointInStraightPathZigZag(t *testing.T) {
	mesh := zigZagMesh(t)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	isl := nd.AddIsland()
	isl.SetNavMesh(Transform{Translation: d3.NewVec3()}, mesh, nil)
	nd.Update()

	path := &Path{
		IslandSegments: []IslandSegment{
			{
				IslandID: isl.ID,
				Corridor: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
				PortalEdgeIndex: []int{2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 2, 2, 1},
			},
		},
	}

	startIndex := PathIndex{SegmentIndex: 0, CorridorStep: 0}
	startPoint := d3.NewVec3XYZ(0.5, 0, 0.5)
	endIndex := PathIndex{SegmentIndex: 0, CorridorStep: 14}
	endPoint := d3.NewVec3XYZ(-3.5, 0, 14)

	waypoints := collectStraightPath(t, nd, path, startIndex, startPoint, endIndex, endPoint, 5)

	require.Len(t, waypoints, 5)

	expected := []struct {
		Step  int
		Point d3.Vec3
	}{
		{4, d3.NewVec3XYZ(1, 0, 4)},
		{8, d3.NewVec3XYZ(4, 0, 5)},
		{11, d3.NewVec3XYZ(4, 0, 7)},
		{13, d3.NewVec3XYZ(-3, 0, 8)},
		{14, d3.NewVec3XYZ(-3.5, 0, 14)},
	}
	for i, want := range expected {
		assert.Equal(t, want.Step, waypoints[i].Step, "waypoint %d step", i)
		assert.InDelta(t, want.Point.X(), waypoints[i].Point.X(), 1e-4, "waypoint %d X", i)
		assert.InDelta(t, want.Point.Y(), waypoints[i].Point.Y(), 1e-4, "waypoint %d Y", i)
		assert.InDelta(t, want.Point.Z(), waypoints[i].Point.Z(), 1e-4, "waypoint %d Z", i)
	}
}

func TestFindNextPointInStraightPathStartsAtEndIndexGoesToEndPoint(t *testing.T) {
	mesh := twoQuadMesh()
	valid, err := mesh.Validate()
	require.NoError(t, err)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	isl := nd.AddIsland()
	isl.SetNavMesh(Transform{Translation: d3.NewVec3()}, valid, nil)
	nd.Update()

	path := &Path{
		IslandSegments: []IslandSegment{
			{
				IslandID:        isl.ID,
				Corridor:        []int{0, 1},
				PortalEdgeIndex: []int{2},
			},
		},
	}

	endIndex := PathIndex{SegmentIndex: 0, CorridorStep: 1}
	gotIndex, gotPoint := path.FindNextPointInStraightPath(
		nd,
		endIndex, d3.NewVec3XYZ(0.25, 0, 1.1),
		endIndex, d3.NewVec3XYZ(0.75, 0, 1.9),
	)

	assert.Equal(t, endIndex, gotIndex)
	assert.Equal(t, d3.NewVec3XYZ(0.75, 0, 1.9), gotPoint)
}
