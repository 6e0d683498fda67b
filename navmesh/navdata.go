package navmesh

import (
	"log"

	"github.com/arl/gogeo/f32/d3"
)

// NavigationData is the aggregate owned by an Archipelago: every island,
// the boundary-link graph stitching them together, and the node-type cost
// registry. It exposes the cross-island queries (SamplePoint,
// AreNodesConnected) and owns dirty tracking, per spec §3/§4.2/§4.3.
type NavigationData struct {
	Logger *log.Logger

	islands    map[IslandID]*Island
	nextIsland IslandID

	Links *BoundaryLinkGraph
	Types *NodeTypeRegistry

	// dirty records island additions/removals and MarkDirty calls since
	// the boundary-link graph was last rebuilt; Dirty() also reports
	// islands whose own Dirty flag is set.
	dirty bool
}

// NewNavigationData creates an empty aggregate using the given boundary
// linkage tolerances (spec §6).
func NewNavigationData(xzTolerance, yTolerance float32) *NavigationData {
	nd := &NavigationData{
		islands:    make(map[IslandID]*Island),
		nextIsland: 1,
		Links:      NewBoundaryLinkGraph(xzTolerance, yTolerance),
	}
	nd.Types = NewNodeTypeRegistry(nd.nodeTypeInUse)
	return nd
}

func (nd *NavigationData) nodeTypeInUse(t NodeType) bool {
	for _, isl := range nd.islands {
		if isl.NavData() == nil {
			continue
		}
		for _, nt := range isl.NavData().TypeIndexToNode {
			if nt == t {
				return true
			}
		}
	}
	return false
}

// AddIsland creates and returns a new, empty, reserved island.
func (nd *NavigationData) AddIsland() *Island {
	id := nd.nextIsland
	nd.nextIsland++
	isl := NewIsland(id)
	nd.islands[id] = isl
	nd.dirty = true
	return isl
}

// RemoveIsland removes the island with the given id. Any boundary links
// touching it are purged immediately, and the aggregate is marked dirty so
// the next Update rebuilds connectivity.
func (nd *NavigationData) RemoveIsland(id IslandID) {
	if _, ok := nd.islands[id]; !ok {
		return
	}
	nd.Links.purgeIsland(id)
	delete(nd.islands, id)
	nd.dirty = true
}

// Island returns the island with the given id, or nil.
func (nd *NavigationData) Island(id IslandID) *Island {
	return nd.islands[id]
}

// Islands returns every live island, keyed by ID. Callers must not mutate
// the returned map.
func (nd *NavigationData) Islands() map[IslandID]*Island {
	return nd.islands
}

// MarkDirty lets a caller force a rebuild on the next Update, e.g. after
// directly mutating an Island returned by Island().
func (nd *NavigationData) MarkDirty() {
	nd.dirty = true
}

// Dirty reports whether any island has changed since the boundary-link
// graph was last rebuilt.
func (nd *NavigationData) Dirty() bool {
	if nd.dirty {
		return true
	}
	for _, isl := range nd.islands {
		if isl.Dirty {
			return true
		}
	}
	return false
}

// Update rebuilds the boundary-link graph if any island is dirty (spec
// §4.3/§4.8 step 1). It is a no-op when nothing is dirty.
func (nd *NavigationData) Update() {
	if !nd.Dirty() {
		return
	}
	var dirty []IslandID
	for id, isl := range nd.islands {
		if isl.Dirty {
			dirty = append(dirty, id)
		}
	}
	if nd.Logger != nil && len(dirty) > 0 {
		nd.Logger.Printf("navmesh: rebuilding boundary links for %d dirty island(s)", len(dirty))
	}
	nd.Links.rebuild(nd.islands, dirty)
	nd.dirty = false
}

// AreNodesConnected reports whether start and end are reachable from one
// another through intra-island connectivity and/or boundary links. Must
// only be called when Dirty() is false.
func (nd *NavigationData) AreNodesConnected(start, end NodeRef) bool {
	return nd.Links.AreNodesConnected(start, end)
}

// nodeCost returns the cost multiplier for a polygon's type index on a
// given island, applying the per-agent override (if any) ahead of the
// archipelago-wide cost, and defaulting to DefaultNodeTypeCost for
// untyped polygons (spec §4.5).
func (nd *NavigationData) nodeCost(navData *IslandNavData, typeIndex int, overrides map[NodeType]float32) float32 {
	nodeType, ok := navData.TypeIndexToNode[typeIndex]
	if !ok {
		return DefaultNodeTypeCost
	}
	if overrides != nil {
		if c, ok := overrides[nodeType]; ok {
			return c
		}
	}
	if c, ok := nd.Types.GetNodeTypeCost(nodeType); ok {
		return c
	}
	return DefaultNodeTypeCost
}

// SamplePoint finds the point on the navigation meshes nearest to point,
// restricted to islands whose transformed bounds (expanded by
// distanceToNode) could plausibly contain a closer point, per spec §4.2.
// Returns false if nothing is within distanceToNode.
func (nd *NavigationData) SamplePoint(point d3.Vec3, distanceToNode float32) (d3.Vec3, NodeRef, bool) {
	queryBox := NewEmptyBoundingBox().ExpandToPoint(point).
		ExpandBySize(d3.NewVec3XYZ(distanceToNode*2, distanceToNode*2, distanceToNode*2))

	var (
		best      d3.Vec3
		bestNode  NodeRef
		bestDist  = distanceToNode * distanceToNode
		found     bool
	)

	for id, isl := range nd.islands {
		navData := isl.NavData()
		if navData == nil || !navData.TransformedBounds.Intersects(queryBox) {
			continue
		}
		local := navData.Transform.InverseApply(point)
		mesh := navData.Mesh

		for pi := range mesh.Polygons {
			poly := &mesh.Polygons[pi]
			if !poly.Bounds.ExpandBySize(d3.NewVec3XYZ(distanceToNode*2, distanceToNode*2, distanceToNode*2)).Intersects(
				NewBoundingBox(local, local)) {
				continue
			}
			proj, distSqr, ok := projectOntoPolygon(local, mesh, poly)
			if !ok || distSqr >= bestDist {
				continue
			}
			bestDist = distSqr
			best = navData.Transform.Apply(proj)
			bestNode = NodeRef{IslandID: id, PolygonIndex: pi}
			found = true
		}
	}

	return best, bestNode, found
}

// projectOntoPolygon fan-triangulates poly from its first vertex and
// projects p (in the island's local space) onto the closest triangle, per
// spec §4.2. Ported from the teacher's closestPointOnPoly in
// detour/query.go, generalized from a fixed-size polygon to an arbitrary
// convex polygon.
func projectOntoPolygon(p d3.Vec3, mesh *ValidNavigationMesh, poly *ValidPolygon) (d3.Vec3, float32, bool) {
	verts := poly.Vertices
	if len(verts) < 3 {
		return d3.Vec3{}, 0, false
	}
	var (
		best     d3.Vec3
		bestDist float32
		found    bool
	)
	v0 := mesh.Vertices[verts[0]]
	for i := 1; i+1 < len(verts); i++ {
		v1 := mesh.Vertices[verts[i]]
		v2 := mesh.Vertices[verts[i+1]]
		proj := closestPointOnTriangle(p, v0, v1, v2)
		d := proj.DistSqr(p)
		if !found || d < bestDist {
			found = true
			bestDist = d
			best = proj
		}
	}
	return best, bestDist, found
}

// closestPointOnTriangle projects p onto triangle (a,b,c) in the XZ
// plane, clamping to an edge when p falls outside the triangle and
// otherwise dropping straight down/up onto the triangle's plane,
// matching spec §4.2's "project onto the triangle plane vertically"
// rule.
func closestPointOnTriangle(p, a, b, c d3.Vec3) d3.Vec3 {
	// Barycentric coordinates on XZ.
	v0 := d3.NewVec3XYZ(b.X()-a.X(), 0, b.Z()-a.Z())
	v1 := d3.NewVec3XYZ(c.X()-a.X(), 0, c.Z()-a.Z())
	v2 := d3.NewVec3XYZ(p.X()-a.X(), 0, p.Z()-a.Z())

	d00 := v0.X()*v0.X() + v0.Z()*v0.Z()
	d01 := v0.X()*v1.X() + v0.Z()*v1.Z()
	d11 := v1.X()*v1.X() + v1.Z()*v1.Z()
	d20 := v2.X()*v0.X() + v2.Z()*v0.Z()
	d21 := v2.X()*v1.X() + v2.Z()*v1.Z()

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return clampToSegment(p, a, b)
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1 - v - w

	switch {
	case u >= 0 && v >= 0 && w >= 0:
		y := a.Y()*u + b.Y()*v + c.Y()*w
		return d3.NewVec3XYZ(p.X(), y, p.Z())
	default:
		candidates := [3]d3.Vec3{
			clampToSegment(p, a, b),
			clampToSegment(p, b, c),
			clampToSegment(p, c, a),
		}
		best := candidates[0]
		bestDist := best.DistSqr(p)
		for _, c := range candidates[1:] {
			if d := c.DistSqr(p); d < bestDist {
				bestDist = d
				best = c
			}
		}
		return best
	}
}

func clampToSegment(p, a, b d3.Vec3) d3.Vec3 {
	t := segmentProjection2D(p, a, b)
	return d3.NewVec3XYZ(
		a.X()+(b.X()-a.X())*t,
		a.Y()+(b.Y()-a.Y())*t,
		a.Z()+(b.Z()-a.Z())*t,
	)
}
