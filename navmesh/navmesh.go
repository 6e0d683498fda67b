package navmesh

import (
	"fmt"

	"github.com/arl/gogeo/f32/d3"
)

// NavigationMesh is raw, unvalidated input geometry: a set of vertices and
// the polygons built from them. Call Validate to derive a
// ValidNavigationMesh usable by the rest of the runtime.
//
// Polygons must be convex and wound counter-clockwise when viewed from
// +Y; Validate rejects anything else.
type NavigationMesh struct {
	// MeshBounds is a tight bounding box of Vertices. If the zero value
	// (IsEmpty()), Validate computes it from Vertices.
	MeshBounds BoundingBox
	Vertices   []d3.Vec3
	// Polygons lists, per polygon, the indices into Vertices that make up
	// its boundary, in counter-clockwise order.
	Polygons [][]int
	// TypeIndices optionally tags each polygon with an index into an
	// island's TypeIndexToNode map (see Island). nil means every polygon
	// uses the default node type. When non-nil, must have one entry per
	// polygon.
	TypeIndices []int
}

// ValidationError is returned by Validate when the input mesh violates one
// of the navmesh invariants. Its Kind field identifies which invariant,
// matching the taxonomy in the spec's error design.
type ValidationError struct {
	Kind ValidationErrorKind
	// PolygonIndex is meaningful for every kind except DoublyConnectedEdge.
	PolygonIndex int
	// VertexA, VertexB are meaningful only for DoublyConnectedEdge.
	VertexA, VertexB int
}

// ValidationErrorKind enumerates the ways a NavigationMesh can fail
// validation (spec §4.1).
type ValidationErrorKind int

const (
	NotEnoughVerticesInPolygon ValidationErrorKind = iota
	InvalidVertexIndexInPolygon
	DegenerateEdgeInPolygon
	DoublyConnectedEdge
	ConcavePolygon
)

func (e *ValidationError) Error() string {
	switch e.Kind {
	case NotEnoughVerticesInPolygon:
		return fmt.Sprintf("polygon %d has fewer than 3 vertices", e.PolygonIndex)
	case InvalidVertexIndexInPolygon:
		return fmt.Sprintf("polygon %d references an out-of-range vertex index", e.PolygonIndex)
	case DegenerateEdgeInPolygon:
		return fmt.Sprintf("polygon %d has a degenerate edge (repeated vertex)", e.PolygonIndex)
	case DoublyConnectedEdge:
		return fmt.Sprintf("edge (%d,%d) is shared by more than two polygons", e.VertexA, e.VertexB)
	case ConcavePolygon:
		return fmt.Sprintf("polygon %d is concave or wound clockwise", e.PolygonIndex)
	default:
		return "unknown navigation mesh validation error"
	}
}

// Connectivity describes one edge of a ValidPolygon that leads to another
// polygon in the same mesh.
type Connectivity struct {
	NeighborPolygon int
	// TravelDistances is (distance from this polygon's center to the
	// shared edge's midpoint, distance from the edge midpoint to the
	// neighbor's center), per spec §4.1. Kept as two separate distances
	// (rather than one summed cost) so the pathfinder can apply different
	// per-node-type costs to each half, per spec §4.5.
	TravelDistances [2]float32
}

// MeshEdgeRef identifies one edge of one polygon: the edge between
// vertex[EdgeIndex] and vertex[(EdgeIndex+1)%n].
type MeshEdgeRef struct {
	PolygonIndex int
	EdgeIndex    int
}

// ValidPolygon is one polygon of a ValidNavigationMesh, with derived
// connectivity, bounds and center already computed.
type ValidPolygon struct {
	Vertices     []int
	Connectivity []*Connectivity // len == len(Vertices); nil entry == boundary edge
	Bounds       BoundingBox
	Center       d3.Vec3
	// TypeIndex is this polygon's entry into an island's
	// TypeIndexToNode map, or -1 for the default node type.
	TypeIndex int
}

// EdgeIndices returns the (left, right) vertex indices of the polygon's
// edge-th edge, in counter-clockwise order.
func (p *ValidPolygon) EdgeIndices(edge int) (left, right int) {
	left = p.Vertices[edge]
	right = p.Vertices[(edge+1)%len(p.Vertices)]
	return left, right
}

// ValidNavigationMesh is an immutable, validated navigation mesh: the
// polygons are guaranteed convex, counter-clockwise, and free of
// degenerate or doubly-connected edges. It is shared by reference (plain
// Go pointer; Go's GC plays the role of the teacher's Arc<T>) across every
// Island that uses it, and is never mutated after Validate returns it.
// Island.SetNavMesh marks the island dirty on every call, whether or not
// the mesh pointer changed.
type ValidNavigationMesh struct {
	MeshBounds    BoundingBox
	Vertices      []d3.Vec3
	Polygons      []ValidPolygon
	BoundaryEdges []MeshEdgeRef
}

type connectivityState int

const (
	stateDisconnected connectivityState = iota
	stateBoundary
	stateConnected
)

type edgeKey struct{ a, b int }

func normalizeEdge(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

type edgeState struct {
	state              connectivityState
	poly1, edge1       int
	poly2, edge2       int
}

// Validate checks every invariant in spec §4.1 and, if they all hold,
// derives per-polygon bounds/center/connectivity and the mesh's boundary
// edge list. The algorithm walks each polygon once, maintaining a
// per-undirected-edge state machine (Disconnected -> Boundary ->
// Connected; a second "Connected" transition is the doubly-connected-edge
// error), exactly as the teacher's edge/neighbor bookkeeping in
// detour/mesh.go's tile-connection logic does for tile-local polygons,
// generalized to an un-tiled, arbitrary polygon soup.
func (m *NavigationMesh) Validate() (*ValidNavigationMesh, error) {
	bounds := m.MeshBounds
	if bounds.IsEmpty() {
		for _, v := range m.Vertices {
			bounds = bounds.ExpandToPoint(v)
		}
	}

	edges := make(map[edgeKey]*edgeState)

	for pi, poly := range m.Polygons {
		if len(poly) < 3 {
			return nil, &ValidationError{Kind: NotEnoughVerticesInPolygon, PolygonIndex: pi}
		}
		for _, vi := range poly {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, &ValidationError{Kind: InvalidVertexIndexInPolygon, PolygonIndex: pi}
			}
		}

		n := len(poly)
		for i := 0; i < n; i++ {
			left := poly[(i+n-1)%n]
			center := poly[i]
			right := poly[(i+1)%n]

			key := normalizeEdge(center, right)
			if key.a == key.b {
				return nil, &ValidationError{Kind: DegenerateEdgeInPolygon, PolygonIndex: pi}
			}

			st, ok := edges[key]
			if !ok {
				st = &edgeState{state: stateDisconnected}
				edges[key] = st
			}
			switch st.state {
			case stateDisconnected:
				st.state = stateBoundary
				st.poly1, st.edge1 = pi, i
			case stateBoundary:
				st.state = stateConnected
				st.poly2, st.edge2 = pi, i
			case stateConnected:
				return nil, &ValidationError{Kind: DoublyConnectedEdge, VertexA: key.a, VertexB: key.b}
			}

			if cross2D(m.Vertices[left], m.Vertices[center], m.Vertices[right]) < 0 {
				return nil, &ValidationError{Kind: ConcavePolygon, PolygonIndex: pi}
			}
		}
	}

	polys := make([]ValidPolygon, len(m.Polygons))
	for pi, poly := range m.Polygons {
		pbounds := NewEmptyBoundingBox()
		center := d3.NewVec3()
		for _, vi := range poly {
			pbounds = pbounds.ExpandToPoint(m.Vertices[vi])
			center = center.Add(m.Vertices[vi])
		}
		center = center.Scale(1 / float32(len(poly)))

		typeIndex := -1
		if m.TypeIndices != nil {
			typeIndex = m.TypeIndices[pi]
		}

		polys[pi] = ValidPolygon{
			Vertices:     append([]int(nil), poly...),
			Connectivity: make([]*Connectivity, len(poly)),
			Bounds:       pbounds,
			Center:       center,
			TypeIndex:    typeIndex,
		}
	}

	var boundaryEdges []MeshEdgeRef
	for _, st := range edges {
		switch st.state {
		case stateBoundary:
			boundaryEdges = append(boundaryEdges, MeshEdgeRef{PolygonIndex: st.poly1, EdgeIndex: st.edge1})
		case stateConnected:
			left, right := polys[st.poly1].EdgeIndices(st.edge1)
			mid := m.Vertices[left].Add(m.Vertices[right]).Scale(0.5)
			d1 := polys[st.poly1].Center.Dist(mid)
			d2 := mid.Dist(polys[st.poly2].Center)
			polys[st.poly1].Connectivity[st.edge1] = &Connectivity{
				NeighborPolygon: st.poly2,
				TravelDistances: [2]float32{d1, d2},
			}
			polys[st.poly2].Connectivity[st.edge2] = &Connectivity{
				NeighborPolygon: st.poly1,
				TravelDistances: [2]float32{d2, d1},
			}
		}
	}

	return &ValidNavigationMesh{
		MeshBounds:    bounds,
		Vertices:      append([]d3.Vec3(nil), m.Vertices...),
		Polygons:      polys,
		BoundaryEdges: boundaryEdges,
	}, nil
}

// cross2D is the concavity test of spec §4.1: the cross product of the
// incoming edge (center-left) and outgoing edge (right-center) projected
// onto XZ, >=0 required at every vertex of a CCW-wound convex polygon.
func cross2D(left, center, right d3.Vec3) float32 {
	leftEdge := left.Sub(center)
	rightEdge := right.Sub(center)
	return rightEdge.X()*leftEdge.Z() - rightEdge.Z()*leftEdge.X()
}
