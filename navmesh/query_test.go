package navmesh

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySamplePointFindsNearestNode(t *testing.T) {
	valid, err := twoQuadMesh().Validate()
	require.NoError(t, err)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	isl := nd.AddIsland()
	isl.SetNavMesh(Transform{Translation: d3.NewVec3()}, valid, nil)
	nd.Update()

	q := NewQuery(nd)
	sampled, err := q.SamplePoint(d3.NewVec3XYZ(1.5, 0.2, 0.5), 1)
	require.NoError(t, err)
	assert.Equal(t, isl.ID, sampled.Node.IslandID)
	assert.InDelta(t, 0, sampled.Point.Y(), 1e-4)
}

func TestQuerySamplePointOutOfRange(t *testing.T) {
	valid, err := twoQuadMesh().Validate()
	require.NoError(t, err)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	isl := nd.AddIsland()
	isl.SetNavMesh(Transform{Translation: d3.NewVec3()}, valid, nil)
	nd.Update()

	q := NewQuery(nd)
	_, err = q.SamplePoint(d3.NewVec3XYZ(1000, 0, 1000), 1)
	require.Error(t, err)
	assert.IsType(t, &OutOfRangeError{}, err)
}

func TestQueryRefusesWhenDirty(t *testing.T) {
	valid, err := twoQuadMesh().Validate()
	require.NoError(t, err)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	isl := nd.AddIsland()
	isl.SetNavMesh(Transform{Translation: d3.NewVec3()}, valid, nil)
	// Deliberately not calling nd.Update(): the island is still dirty.

	q := NewQuery(nd)
	_, err = q.SamplePoint(d3.NewVec3XYZ(0.5, 0, 0.5), 1)
	require.Error(t, err)
	assert.IsType(t, &NavDataDirtyError{}, err)

	_, _, err = q.FindPath(NodeRef{IslandID: isl.ID, PolygonIndex: 0}, NodeRef{IslandID: isl.ID, PolygonIndex: 1}, nil)
	require.Error(t, err)
	assert.IsType(t, &NavDataDirtyError{}, err)
}

func TestQueryFindPath(t *testing.T) {
	valid, err := twoQuadMesh().Validate()
	require.NoError(t, err)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	isl := nd.AddIsland()
	isl.SetNavMesh(Transform{Translation: d3.NewVec3()}, valid, nil)
	nd.Update()

	q := NewQuery(nd)
	path, _, err := q.FindPath(NodeRef{IslandID: isl.ID, PolygonIndex: 0}, NodeRef{IslandID: isl.ID, PolygonIndex: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, path.IslandSegments[0].Corridor)
}
