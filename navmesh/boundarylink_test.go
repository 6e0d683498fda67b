package navmesh

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adjacentQuadIslands returns two validated single-quad meshes sharing the
// seam x=1, each CCW-wound so their touching edges run opposite ways:
//
//	3---2  3---2
//	|   |  |   |   (left quad x in [0,1], right quad x in [1,2])
//	0---1  0---1
func adjacentQuadIslands(t *testing.T) (left, right *ValidNavigationMesh) {
	t.Helper()
	leftMesh := &NavigationMesh{
		Vertices: []d3.Vec3{
			d3.NewVec3XYZ(0, 0, 0),
			d3.NewVec3XYZ(1, 0, 0),
			d3.NewVec3XYZ(1, 0, 1),
			d3.NewVec3XYZ(0, 0, 1),
		},
		Polygons: [][]int{{0, 1, 2, 3}},
	}
	rightMesh := &NavigationMesh{
		Vertices: []d3.Vec3{
			d3.NewVec3XYZ(1, 0, 0),
			d3.NewVec3XYZ(2, 0, 0),
			d3.NewVec3XYZ(2, 0, 1),
			d3.NewVec3XYZ(1, 0, 1),
		},
		Polygons: [][]int{{0, 1, 2, 3}},
	}
	validLeft, err := leftMesh.Validate()
	require.NoError(t, err)
	validRight, err := rightMesh.Validate()
	require.NoError(t, err)
	return validLeft, validRight
}

// unitQuadMesh is a single unit square at the local origin, reused by
// TestBoundaryLinkGraphCostUsesWorldSpaceCenters under two different
// non-identity transforms so that the link cost can only be right if it's
// computed from world-space polygon centers.
func unitQuadMesh(t *testing.T) *ValidNavigationMesh {
	t.Helper()
	mesh := &NavigationMesh{
		Vertices: []d3.Vec3{
			d3.NewVec3XYZ(0, 0, 0),
			d3.NewVec3XYZ(1, 0, 0),
			d3.NewVec3XYZ(1, 0, 1),
			d3.NewVec3XYZ(0, 0, 1),
		},
		Polygons: [][]int{{0, 1, 2, 3}},
	}
	valid, err := mesh.Validate()
	require.NoError(t, err)
	return valid
}

func TestBoundaryLinkGraphCostUsesWorldSpaceCenters(t *testing.T) {
	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)

	// Island A's unit square world-placed at x in [5,6], z in [3,4].
	islA := nd.AddIsland()
	islA.SetNavMesh(Transform{Translation: d3.NewVec3XYZ(5, 0, 3)}, unitQuadMesh(t), nil)
	// Island B's unit square world-placed at x in [6,7], z in [3,4], so
	// its local edge 3 (x=0 in local space) touches A's edge 1 (x=1 local)
	// at the world seam x=6.
	islB := nd.AddIsland()
	islB.SetNavMesh(Transform{Translation: d3.NewVec3XYZ(6, 0, 3)}, unitQuadMesh(t), nil)

	nd.Update()

	nodeA := NodeRef{IslandID: islA.ID, PolygonIndex: 0}
	links := nd.Links.LinksFrom(nodeA)
	require.Len(t, links, 1)

	// World centers are (5.5,0,3.5) and (6.5,0,3.5); the portal midpoint is
	// (6,0,3.5): 0.5 + 0.5 = 1.0. The bug computed this from untransformed
	// local centers (0.5,0,0.5) instead, giving a cost around 2*6.26.
	assert.InDelta(t, 1.0, links[0].Cost, 1e-3)
}

func TestBoundaryLinkGraphStitchesAdjacentIslands(t *testing.T) {
	left, right := adjacentQuadIslands(t)
	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)

	islA := nd.AddIsland()
	islA.SetNavMesh(Transform{Translation: d3.NewVec3()}, left, nil)
	islB := nd.AddIsland()
	islB.SetNavMesh(Transform{Translation: d3.NewVec3()}, right, nil)

	nd.Update()
	require.False(t, nd.Dirty())

	nodeA := NodeRef{IslandID: islA.ID, PolygonIndex: 0}
	nodeB := NodeRef{IslandID: islB.ID, PolygonIndex: 0}
	assert.True(t, nd.AreNodesConnected(nodeA, nodeB))

	links := nd.Links.LinksFrom(nodeA)
	require.Len(t, links, 1)
	assert.Equal(t, nodeB, links[0].DestinationNode)

	reverse, ok := nd.Links.Link(links[0].Reverse)
	require.True(t, ok)
	assert.Equal(t, nodeA, reverse.DestinationNode)
}

func TestBoundaryLinkGraphPurgesOnIslandRemoval(t *testing.T) {
	left, right := adjacentQuadIslands(t)
	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)

	islA := nd.AddIsland()
	islA.SetNavMesh(Transform{Translation: d3.NewVec3()}, left, nil)
	islB := nd.AddIsland()
	islB.SetNavMesh(Transform{Translation: d3.NewVec3()}, right, nil)
	nd.Update()

	nodeA := NodeRef{IslandID: islA.ID, PolygonIndex: 0}
	nodeB := NodeRef{IslandID: islB.ID, PolygonIndex: 0}
	require.True(t, nd.AreNodesConnected(nodeA, nodeB))

	nd.RemoveIsland(islB.ID)
	nd.Update()

	assert.Empty(t, nd.Links.LinksFrom(nodeA))
	assert.False(t, nd.AreNodesConnected(nodeA, nodeB))
}

func TestBoundaryLinkGraphDoesNotLinkFarApartIslands(t *testing.T) {
	left, _ := adjacentQuadIslands(t)
	far := &NavigationMesh{
		Vertices: []d3.Vec3{
			d3.NewVec3XYZ(100, 0, 0),
			d3.NewVec3XYZ(101, 0, 0),
			d3.NewVec3XYZ(101, 0, 1),
			d3.NewVec3XYZ(100, 0, 1),
		},
		Polygons: [][]int{{0, 1, 2, 3}},
	}
	validFar, err := far.Validate()
	require.NoError(t, err)

	nd := NewNavigationData(DefaultXZTolerance, DefaultYTolerance)
	islA := nd.AddIsland()
	islA.SetNavMesh(Transform{Translation: d3.NewVec3()}, left, nil)
	islC := nd.AddIsland()
	islC.SetNavMesh(Transform{Translation: d3.NewVec3()}, validFar, nil)
	nd.Update()

	nodeA := NodeRef{IslandID: islA.ID, PolygonIndex: 0}
	nodeC := NodeRef{IslandID: islC.ID, PolygonIndex: 0}
	assert.False(t, nd.AreNodesConnected(nodeA, nodeC))
	assert.Empty(t, nd.Links.LinksFrom(nodeA))
}
