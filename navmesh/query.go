package navmesh

import (
	"fmt"

	"github.com/arl/gogeo/f32/d3"
)

// SampledPoint is the result of sampling a point against the navigation
// meshes (spec §4.10): the nearest point actually on a mesh, and the node
// it lies on.
type SampledPoint struct {
	Point d3.Vec3
	Node  NodeRef
}

// OutOfRangeError is returned by Query.SamplePoint when no polygon lies
// within distanceToNode of the query point.
type OutOfRangeError struct {
	Point          d3.Vec3
	DistanceToNode float32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("no point within %v of %v", e.DistanceToNode, e.Point)
}

// NavDataDirtyError is returned by any Query method when NavigationData
// has islands pending a boundary-link rebuild: results would be computed
// against a stale graph, so queries refuse to run until Update() has been
// called (spec §4.10, originally query.rs's NavDataDirty variant).
type NavDataDirtyError struct{}

func (e *NavDataDirtyError) Error() string {
	return "navigation data has dirty islands pending an update"
}

// Query is a read-only view over a NavigationData, offering
// SamplePoint/FindPath decoupled from any Agent (spec §4.10). Unlike
// Pathfinder, it owns no reusable scratch: it's meant for occasional,
// not per-tick, calls (editor tooling, tests, one-off queries), so a
// fresh Pathfinder is created per call.
type Query struct {
	nd *NavigationData
}

// NewQuery returns a Query bound to nd.
func NewQuery(nd *NavigationData) *Query {
	return &Query{nd: nd}
}

// SamplePoint finds the closest point on the navigation meshes to point,
// within distanceToNode. Returns NavDataDirtyError if nd hasn't been
// updated since its last mutation, or OutOfRangeError if nothing is in
// range.
func (q *Query) SamplePoint(point d3.Vec3, distanceToNode float32) (SampledPoint, error) {
	if q.nd.Dirty() {
		return SampledPoint{}, &NavDataDirtyError{}
	}
	p, node, ok := q.nd.SamplePoint(point, distanceToNode)
	if !ok {
		return SampledPoint{}, &OutOfRangeError{Point: point, DistanceToNode: distanceToNode}
	}
	return SampledPoint{Point: p, Node: node}, nil
}

// FindPath finds a Path between start and end, applying the given
// per-node-type cost overrides ahead of the archipelago-wide costs.
// Returns NavDataDirtyError if nd hasn't been updated since its last
// mutation.
func (q *Query) FindPath(start, end NodeRef, overrides map[NodeType]float32) (*Path, PathStats, error) {
	if q.nd.Dirty() {
		return nil, PathStats{}, &NavDataDirtyError{}
	}
	pf := NewPathfinder()
	return pf.FindPath(q.nd, start, end, overrides)
}
