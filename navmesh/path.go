package navmesh

import (
	"github.com/arl/assertgo"
	"github.com/arl/gogeo/f32/d3"
)

// IslandSegment is the portion of a Path that stays within one island: an
// ordered corridor of polygon indices, plus which edge of each polygon
// (except the last) the path crosses to reach the next one.
type IslandSegment struct {
	IslandID        IslandID
	Corridor        []int
	PortalEdgeIndex []int // len == len(Corridor)-1
}

// BoundaryLinkSegment connects the end of one IslandSegment to the start
// of the next: the node the link departs from, and which link is taken.
type BoundaryLinkSegment struct {
	StartingNode NodeRef
	BoundaryLink BoundaryLinkID
}

// Path is an ordered sequence of IslandSegments interleaved with
// BoundaryLinkSegments such that segment k ends at the source node of
// boundary-link-segment k, which continues at segment k+1 (spec §3).
// Owned by the Agent it belongs to.
type Path struct {
	IslandSegments       []IslandSegment
	BoundaryLinkSegments []BoundaryLinkSegment
}

// PathIndex is a position within a Path: a polygon within an island
// segment. When CorridorStep names the last polygon of a segment that is
// followed by a boundary link, the portal at that position is the
// boundary-link segment departing that polygon. Used as the "index" parameter/return of
// FindNextPointInStraightPath (spec §4.6), which must be able to name a
// position that is a portal crossing rather than only a corridor polygon.
type PathIndex struct {
	SegmentIndex int
	CorridorStep int
}

// portalCount returns the number of portals in the path: every
// intra-island edge crossing plus every boundary-link crossing, i.e. one
// fewer than the total number of "stops" (start point counts as stop 0).
func (p *Path) portalCount() int {
	n := 0
	for i, seg := range p.IslandSegments {
		n += len(seg.PortalEdgeIndex)
		if i < len(p.BoundaryLinkSegments) {
			n++
		}
	}
	return n
}

// flatten flattens a PathIndex into a single 0-based portal
// position used internally by the funnel, where portal i sits between
// stop i and stop i+1.
func (p *Path) flatten(idx PathIndex) int {
	flat := 0
	for s := 0; s < idx.SegmentIndex; s++ {
		flat += len(p.IslandSegments[s].PortalEdgeIndex) + 1
	}
	return flat + idx.CorridorStep
}

// LastIndex returns the PathIndex of the final stop in the path (the
// target polygon).
func (p *Path) LastIndex() PathIndex {
	last := len(p.IslandSegments) - 1
	return PathIndex{SegmentIndex: last, CorridorStep: len(p.IslandSegments[last].Corridor) - 1}
}

// portalEndpoints resolves the PathIndex-th portal to its world-space
// (left, right) endpoints. It is valid to call this for any index that
// isn't the path's last stop.
func (p *Path) portalEndpoints(nd *NavigationData, idx PathIndex) (left, right d3.Vec3) {
	assert.True(idx.SegmentIndex >= 0 && idx.SegmentIndex < len(p.IslandSegments), "PathIndex names a segment outside the path")
	seg := &p.IslandSegments[idx.SegmentIndex]

	if idx.CorridorStep < len(seg.PortalEdgeIndex) {
		isl := nd.Island(seg.IslandID)
		navData := isl.NavData()
		polyIndex := seg.Corridor[idx.CorridorStep]
		edge := seg.PortalEdgeIndex[idx.CorridorStep]
		l, r := navData.Mesh.Polygons[polyIndex].EdgeIndices(edge)
		return navData.Transform.Apply(navData.Mesh.Vertices[l]),
			navData.Transform.Apply(navData.Mesh.Vertices[r])
	}

	// idx names the last polygon of this segment: the portal here is the
	// boundary link departing it.
	linkSeg := p.BoundaryLinkSegments[idx.SegmentIndex]
	link, _ := nd.Links.Link(linkSeg.BoundaryLink)
	return link.Portal[0], link.Portal[1]
}

// next returns the PathIndex immediately after idx.
func (p *Path) next(idx PathIndex) PathIndex {
	seg := &p.IslandSegments[idx.SegmentIndex]
	if idx.CorridorStep+1 < len(seg.Corridor) {
		return PathIndex{SegmentIndex: idx.SegmentIndex, CorridorStep: idx.CorridorStep + 1}
	}
	return PathIndex{SegmentIndex: idx.SegmentIndex + 1, CorridorStep: 0}
}

// FindNextPointInStraightPath implements the Simple Stupid Funnel
// algorithm (spec §4.6): given the current straight-path apex
// (startIndex, startPoint) and the ultimate target (endIndex, endPoint),
// returns the next waypoint the walker should head towards in a straight
// line. Ported from the teacher's FindStraightPath funnel core in
// detour/query.go (TriArea2D + tighten-or-emit loop over apex/left/right),
// following original_source's one-waypoint-per-call contract
// (find_next_point_in_straight_path): each call scans portals from
// startIndex until the next corner and returns only that corner, rather
// than the teacher's run-to-completion variant, since Archipelago.update()
// calls this once per tick per agent, not once per full path.
func (p *Path) FindNextPointInStraightPath(nd *NavigationData, startIndex PathIndex, startPoint d3.Vec3, endIndex PathIndex, endPoint d3.Vec3) (PathIndex, d3.Vec3) {
	if startIndex == endIndex {
		return endIndex, endPoint
	}

	apex := startPoint
	leftIndex, rightIndex := startIndex, startIndex
	currentLeft, currentRight := p.portalEndpoints(nd, startIndex)

	for idx := p.next(startIndex); ; idx = p.next(idx) {
		var portalLeft, portalRight d3.Vec3
		if idx == endIndex {
			portalLeft, portalRight = endPoint, endPoint
		} else {
			portalLeft, portalRight = p.portalEndpoints(nd, idx)
		}

		if TriArea2D(apex, currentRight, portalRight) >= 0 {
			if TriArea2D(apex, currentLeft, portalRight) <= 0 {
				rightIndex, currentRight = idx, portalRight
			} else {
				return leftIndex, currentLeft
			}
		}

		if TriArea2D(apex, currentLeft, portalLeft) <= 0 {
			if TriArea2D(apex, currentRight, portalLeft) >= 0 {
				leftIndex, currentLeft = idx, portalLeft
			} else {
				return rightIndex, currentRight
			}
		}

		if idx == endIndex {
			break
		}
	}

	return endIndex, endPoint
}

// IsValid reports whether the path's referenced islands and boundary
// links all still exist in nd, and whether startNode/endNode still
// appear in its corridor (spec §4.8 step 3): a precondition for trimming
// rather than replanning.
func (p *Path) IsValid(nd *NavigationData, startNode, endNode NodeRef) bool {
	containsStart, containsEnd := false, false

	for _, seg := range p.IslandSegments {
		isl := nd.Island(seg.IslandID)
		if isl == nil || isl.NavData() == nil {
			return false
		}
		for _, polyIndex := range seg.Corridor {
			if polyIndex < 0 || polyIndex >= len(isl.NavData().Mesh.Polygons) {
				return false
			}
			node := NodeRef{IslandID: seg.IslandID, PolygonIndex: polyIndex}
			if node == startNode {
				containsStart = true
			}
			if node == endNode {
				containsEnd = true
			}
		}
	}
	for _, linkSeg := range p.BoundaryLinkSegments {
		if _, ok := nd.Links.Link(linkSeg.BoundaryLink); !ok {
			return false
		}
	}

	return containsStart && containsEnd
}

// TrimPrefix drops every segment/corridor-step before startNode's first
// occurrence, so a still-valid path can be reused across ticks instead of
// being replanned from scratch (spec §4.8 step 3). Returns the PathIndex
// of startNode in the trimmed path.
func (p *Path) TrimPrefix(startNode NodeRef) PathIndex {
	for segIdx, seg := range p.IslandSegments {
		if seg.IslandID != startNode.IslandID {
			continue
		}
		for stepIdx, polyIndex := range seg.Corridor {
			if polyIndex != startNode.PolygonIndex {
				continue
			}

			p.IslandSegments = p.IslandSegments[segIdx:]
			p.BoundaryLinkSegments = trimBoundarySegments(p.BoundaryLinkSegments, segIdx)

			first := &p.IslandSegments[0]
			first.Corridor = first.Corridor[stepIdx:]
			if stepIdx < len(first.PortalEdgeIndex) {
				first.PortalEdgeIndex = first.PortalEdgeIndex[stepIdx:]
			} else {
				first.PortalEdgeIndex = nil
			}

			return PathIndex{SegmentIndex: 0, CorridorStep: 0}
		}
	}
	return PathIndex{}
}

func trimBoundarySegments(segs []BoundaryLinkSegment, fromSegment int) []BoundaryLinkSegment {
	if fromSegment >= len(segs) {
		return nil
	}
	return segs[fromSegment:]
}
