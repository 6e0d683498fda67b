package navmesh

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// DefaultXZTolerance and DefaultYTolerance are the boundary-edge linkage
// tolerances used when an Archipelago isn't configured with its own
// (spec §6): ε_xz and ε_y, the maximum horizontal gap and vertical
// separation two boundary edges may have and still be stitched together.
const (
	DefaultXZTolerance float32 = 0.01
	DefaultYTolerance  float32 = 0.01
)

// BoundaryLinkGraph detects and maintains the links between boundary
// edges of different islands that meet within tolerance, and answers
// "are these two nodes connected" queries in amortized-constant time via
// a union-find rebuilt on every rebuild, grounded on the disjoint-set-with-
// path-compression-and-union-by-rank pattern used for MST construction in
// the pack's graph library (katalvlaran/lvlath's prim_kruskal.Kruskal).
type BoundaryLinkGraph struct {
	XZTolerance float32
	YTolerance  float32

	// linksBySource holds every link keyed by its source NodeRef.
	linksBySource map[NodeRef][]*BoundaryLink
	byID          map[BoundaryLinkID]*BoundaryLink
	nextID        BoundaryLinkID

	uf unionFind
}

// NewBoundaryLinkGraph returns an empty graph using the given tolerances.
func NewBoundaryLinkGraph(xzTolerance, yTolerance float32) *BoundaryLinkGraph {
	return &BoundaryLinkGraph{
		XZTolerance:   xzTolerance,
		YTolerance:    yTolerance,
		linksBySource: make(map[NodeRef][]*BoundaryLink),
		byID:          make(map[BoundaryLinkID]*BoundaryLink),
		nextID:        1,
		uf:            newUnionFind(),
	}
}

// LinksFrom returns every boundary link whose source is node.
func (g *BoundaryLinkGraph) LinksFrom(node NodeRef) []*BoundaryLink {
	return g.linksBySource[node]
}

// Link looks up a link by ID.
func (g *BoundaryLinkGraph) Link(id BoundaryLinkID) (*BoundaryLink, bool) {
	l, ok := g.byID[id]
	return l, ok
}

func (g *BoundaryLinkGraph) addLink(from, to NodeRef, portal [2]d3.Vec3, cost float32) *BoundaryLink {
	l := &BoundaryLink{
		ID:              g.nextID,
		DestinationNode: to,
		Portal:          portal,
		Cost:            cost,
	}
	g.nextID++
	g.linksBySource[from] = append(g.linksBySource[from], l)
	g.byID[l.ID] = l
	return l
}

// purgeIsland removes every link touching island (as source or
// destination), along with their reverse counterparts, per spec §4.3 step
// 1. It returns nothing; paths through removed links are caught later by
// Path.IsValid.
func (g *BoundaryLinkGraph) purgeIsland(island IslandID) {
	for node, links := range g.linksBySource {
		if node.IslandID == island {
			for _, l := range links {
				delete(g.byID, l.ID)
			}
			delete(g.linksBySource, node)
			continue
		}
		kept := links[:0]
		for _, l := range links {
			if l.DestinationNode.IslandID == island {
				delete(g.byID, l.ID)
				continue
			}
			kept = append(kept, l)
		}
		if len(kept) == 0 {
			delete(g.linksBySource, node)
		} else {
			g.linksBySource[node] = kept
		}
	}
}

// rebuild runs the full spec §4.3 algorithm:
//  1. purge every link whose endpoint island is dirty or removed
//  2. for every dirty island, detect overlapping boundary edges against
//     every other populated island and insert symmetric link pairs
//  3. clear dirty flags and recompute the connectivity cache
//
// islands is the live set (removed islands must not be present);
// dirtyIslands is the subset that changed since the last rebuild.
func (g *BoundaryLinkGraph) rebuild(islands map[IslandID]*Island, dirtyIslands []IslandID) {
	for _, id := range dirtyIslands {
		g.purgeIsland(id)
	}

	dirtySet := make(map[IslandID]bool, len(dirtyIslands))
	for _, id := range dirtyIslands {
		dirtySet[id] = true
	}

	for _, aID := range dirtyIslands {
		a := islands[aID]
		if a == nil || a.NavData() == nil {
			continue
		}
		for bID, b := range islands {
			if bID == aID || b.NavData() == nil {
				continue
			}
			// Each unordered pair is only processed once per rebuild: if
			// b is also dirty and sorts before a, it will (or already
			// did) process this pair itself.
			if dirtySet[bID] && bID < aID {
				continue
			}
			if !a.NavData().TransformedBounds.Intersects(b.NavData().TransformedBounds) {
				continue
			}
			g.linkIslands(aID, a, bID, b)
		}
	}

	for _, id := range dirtyIslands {
		if isl := islands[id]; isl != nil {
			isl.Dirty = false
		}
	}

	g.rebuildConnectivity(islands)
}

// linkIslands tests every boundary edge of a against every boundary edge
// of b for near-collinear overlap on XZ (within tolerance on Y), per spec
// §4.3 step 2.
func (g *BoundaryLinkGraph) linkIslands(aID IslandID, a *Island, bID IslandID, b *Island) {
	aMesh, bMesh := a.NavData().Mesh, b.NavData().Mesh
	aT, bT := a.NavData().Transform, b.NavData().Transform

	for _, ae := range aMesh.BoundaryEdges {
		al, ar := aMesh.Polygons[ae.PolygonIndex].EdgeIndices(ae.EdgeIndex)
		aLeft := aT.Apply(aMesh.Vertices[al])
		aRight := aT.Apply(aMesh.Vertices[ar])

		for _, be := range bMesh.BoundaryEdges {
			bl, br := bMesh.Polygons[be.PolygonIndex].EdgeIndices(be.EdgeIndex)
			bLeft := bT.Apply(bMesh.Vertices[bl])
			bRight := bT.Apply(bMesh.Vertices[br])

			overlap, ok := overlappingSegment(aLeft, aRight, bLeft, bRight, g.XZTolerance, g.YTolerance)
			if !ok {
				continue
			}

			aNode := NodeRef{IslandID: aID, PolygonIndex: ae.PolygonIndex}
			bNode := NodeRef{IslandID: bID, PolygonIndex: be.PolygonIndex}
			mid := overlap[0].Add(overlap[1]).Scale(0.5)
			cost := aT.Apply(aMesh.Polygons[ae.PolygonIndex].Center).Dist(mid) +
				mid.Dist(bT.Apply(bMesh.Polygons[be.PolygonIndex].Center))

			linkAB := g.addLink(aNode, bNode, overlap, cost)
			linkBA := g.addLink(bNode, aNode, [2]d3.Vec3{overlap[1], overlap[0]}, cost)
			linkAB.Reverse = linkBA.ID
			linkBA.Reverse = linkAB.ID

			g.uf.union(nodeKey(aNode), nodeKey(bNode))
		}
	}
}

// overlappingSegment returns the overlapping sub-segment of two boundary
// edges that run in opposite directions (both being counter-clockwise
// around their respective islands, a matching seam runs opposite ways),
// are near-collinear on XZ within xzTol, and whose Y separation is within
// yTol, ordered (left, right) from a's perspective. ok is false if the
// edges don't overlap at all.
func overlappingSegment(aLeft, aRight, bLeft, bRight d3.Vec3, xzTol, yTol float32) ([2]d3.Vec3, bool) {
	// b must run opposite to a: b's "left" should land near a's "right".
	dir := aRight.Sub(aLeft)
	length := math32.Sqrt(dir.X()*dir.X() + dir.Z()*dir.Z())
	if length < 1e-6 {
		return [2]d3.Vec3{}, false
	}
	ux, uz := dir.X()/length, dir.Z()/length

	project := func(p d3.Vec3) (along, perp, y float32) {
		rel := p.Sub(aLeft)
		return rel.X()*ux + rel.Z()*uz, rel.X()*uz - rel.Z()*ux, p.Y()
	}

	_, perpL, yL := project(bRight)
	_, perpR, yR := project(bLeft)
	if math32.Abs(perpL) > xzTol || math32.Abs(perpR) > xzTol {
		return [2]d3.Vec3{}, false
	}
	if math32.Abs(yL-aLeft.Y()) > yTol || math32.Abs(yR-aRight.Y()) > yTol {
		return [2]d3.Vec3{}, false
	}

	alongBRight, _, _ := project(bRight)
	alongBLeft, _, _ := project(bLeft)

	lo := math32.Max(0, math32.Min(alongBRight, alongBLeft))
	hi := math32.Min(length, math32.Max(alongBRight, alongBLeft))
	if hi-lo <= 0 {
		return [2]d3.Vec3{}, false
	}

	left := aLeft.Add(d3.NewVec3XYZ(ux*lo, 0, uz*lo))
	right := aLeft.Add(d3.NewVec3XYZ(ux*hi, 0, uz*hi))
	left[1] = (aLeft.Y()+yL)/2
	right[1] = (aRight.Y()+yR)/2
	return [2]d3.Vec3{left, right}, true
}

// rebuildConnectivity recomputes the union-find over every node that
// currently appears in the graph plus every polygon reachable from it via
// intra-island connectivity, so AreNodesConnected (spec §4.5's
// reachability fast-path) reflects both link topology and in-mesh
// connectivity.
func (g *BoundaryLinkGraph) rebuildConnectivity(islands map[IslandID]*Island) {
	g.uf = newUnionFind()
	for id, isl := range islands {
		if isl.NavData() == nil {
			continue
		}
		mesh := isl.NavData().Mesh
		for pi, poly := range mesh.Polygons {
			node := NodeRef{IslandID: id, PolygonIndex: pi}
			g.uf.find(nodeKey(node))
			for _, conn := range poly.Connectivity {
				if conn == nil {
					continue
				}
				other := NodeRef{IslandID: id, PolygonIndex: conn.NeighborPolygon}
				g.uf.union(nodeKey(node), nodeKey(other))
			}
		}
	}
	for node, links := range g.linksBySource {
		for _, l := range links {
			g.uf.union(nodeKey(node), nodeKey(l.DestinationNode))
		}
	}
}

// AreNodesConnected reports whether start and end are in the same
// connected component of the combined polygon + boundary-link graph, per
// the cached check spec §4.5 requires the pathfinder fail fast on.
func (g *BoundaryLinkGraph) AreNodesConnected(start, end NodeRef) bool {
	return g.uf.connected(nodeKey(start), nodeKey(end))
}

func nodeKey(n NodeRef) uint64 {
	return uint64(n.IslandID)<<32 ^ uint64(uint32(n.PolygonIndex))
}

// unionFind is a disjoint-set with path compression and union by rank,
// grounded on the teacher's closed/open node-pool reuse idiom in
// detour/node.go and the pack's prim_kruskal.Kruskal union-find.
type unionFind struct {
	parent map[uint64]uint64
	rank   map[uint64]int
}

func newUnionFind() unionFind {
	return unionFind{parent: make(map[uint64]uint64), rank: make(map[uint64]int)}
}

func (u *unionFind) find(x uint64) uint64 {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
		return x
	}
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b uint64) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}

func (u *unionFind) connected(a, b uint64) bool {
	if _, ok := u.parent[a]; !ok {
		return a == b
	}
	if _, ok := u.parent[b]; !ok {
		return a == b
	}
	return u.find(a) == u.find(b)
}
