package navmesh

import "github.com/arl/gogeo/f32/d3"

// NodeRef identifies one polygon-node in the combined graph spanning every
// island in a NavigationData: the island it belongs to and its index
// within that island's ValidNavigationMesh.Polygons.
type NodeRef struct {
	IslandID     IslandID
	PolygonIndex int
}

// BoundaryLinkID identifies one BoundaryLink stored in a
// BoundaryLinkGraph. Every link has a distinct ID from its reverse
// counterpart, even though the two together describe one stitched seam.
type BoundaryLinkID uint64

// BoundaryLink is a stitched connection between a boundary edge of one
// island and the overlapping boundary edge of another (spec §3/§4.3).
// Stored keyed by its source NodeRef in BoundaryLinkGraph; every link has
// a symmetric reverse link stored under BoundaryLink.DestinationNode.
type BoundaryLink struct {
	ID              BoundaryLinkID
	DestinationNode NodeRef
	// Portal is the overlapping sub-segment of the two boundary edges, in
	// world space, ordered (left, right) as seen when walking from the
	// link's source node towards DestinationNode.
	Portal [2]d3.Vec3
	// Cost is the distance from the source polygon's center to the
	// portal's midpoint plus from the midpoint to the destination
	// polygon's center. Unlike intra-island connectivity, this is not
	// scaled by node-type cost: a boundary link crosses a portal, not a
	// walkable interior (spec §4.5).
	Cost float32
	// Reverse is the ID of this link's symmetric counterpart, stored
	// under DestinationNode in the same BoundaryLinkGraph.
	Reverse BoundaryLinkID
}
