package navmesh

import (
	"fmt"

	"github.com/arl/assertgo"
	"github.com/arl/gogeo/f32/d3"
)

// PathStep is one action taken while traversing the combined graph: either
// crossing a polygon-connectivity edge within an island, or crossing a
// boundary link between islands (spec §4.5).
type PathStep struct {
	Kind          PathStepKind
	EdgeIndex     int            // valid when Kind == NodeConnectionStep
	BoundaryLink  BoundaryLinkID // valid when Kind == BoundaryLinkStep
}

// PathStepKind distinguishes the two PathStep variants.
type PathStepKind int

const (
	NodeConnectionStep PathStepKind = iota
	BoundaryLinkStep
)

// NonPositiveNodeTypeCostError is returned by Pathfinder.FindPath when an
// override cost is not strictly positive (spec §4.5/§7).
type NonPositiveNodeTypeCostError struct {
	NodeType NodeType
	Cost     float32
}

func (e *NonPositiveNodeTypeCostError) Error() string {
	return fmt.Sprintf("node type %v has override cost %v, which is non-positive", e.NodeType, e.Cost)
}

// NoPathFoundError is returned by Pathfinder.FindPath when A* exhausts the
// graph without reaching the goal node.
type NoPathFoundError struct{}

func (e *NoPathFoundError) Error() string { return "no path found" }

// Pathfinder formulates and solves the archipelago path problem: find a
// sequence of polygon-connectivity and boundary-link steps from a start
// NodeRef to an end NodeRef, and assemble the result into a Path. Grounded
// 1:1 on original_source's pathfinding.rs (ArchipelagoPathProblem,
// PathStep, find_path), re-expressed through the teacher's
// QueryFilter.Cost per-edge cost function shape.
type Pathfinder struct {
	scratch *Scratch[NodeRef, PathStep]
}

// NewPathfinder returns a Pathfinder with its own reusable A* scratch
// space (spec §5/§9: reuse open/closed maps across calls within a tick).
func NewPathfinder() *Pathfinder {
	return &Pathfinder{scratch: NewScratch[NodeRef, PathStep]()}
}

type archipelagoPathProblem struct {
	navData   *NavigationData
	start     NodeRef
	end       NodeRef
	endPoint  d3.Vec3
	overrides map[NodeType]float32
}

func (p *archipelagoPathProblem) InitialState() NodeRef { return p.start }

func (p *archipelagoPathProblem) IsGoalState(s NodeRef) bool { return s == p.end }

func (p *archipelagoPathProblem) Heuristic(s NodeRef) float32 {
	isl := p.navData.Island(s.IslandID)
	navData := isl.NavData()
	center := navData.Transform.Apply(navData.Mesh.Polygons[s.PolygonIndex].Center)
	return center.Dist(p.endPoint)
}

func (p *archipelagoPathProblem) Successors(s NodeRef) []Successor[NodeRef, PathStep] {
	isl := p.navData.Island(s.IslandID)
	navData := isl.NavData()
	poly := &navData.Mesh.Polygons[s.PolygonIndex]

	var out []Successor[NodeRef, PathStep]

	currentCost := p.navData.nodeCost(navData, poly.TypeIndex, p.overrides)
	for edgeIndex, conn := range poly.Connectivity {
		if conn == nil {
			continue
		}
		neighborPoly := &navData.Mesh.Polygons[conn.NeighborPolygon]
		neighborCost := p.navData.nodeCost(navData, neighborPoly.TypeIndex, p.overrides)
		cost := conn.TravelDistances[0]*currentCost + conn.TravelDistances[1]*neighborCost
		out = append(out, Successor[NodeRef, PathStep]{
			Cost:   cost,
			Action: PathStep{Kind: NodeConnectionStep, EdgeIndex: edgeIndex},
			Next:   NodeRef{IslandID: s.IslandID, PolygonIndex: conn.NeighborPolygon},
		})
	}

	for _, link := range p.navData.Links.LinksFrom(s) {
		out = append(out, Successor[NodeRef, PathStep]{
			Cost:   link.Cost,
			Action: PathStep{Kind: BoundaryLinkStep, BoundaryLink: link.ID},
			Next:   link.DestinationNode,
		})
	}

	return out
}

// FindPath searches the combined graph from start to end, applying
// overrides (per-agent node-type cost overrides, spec §3) ahead of the
// archipelago-wide node type costs. Fails fast with NoPathFoundError
// without exploring anything if NavigationData.AreNodesConnected already
// says the two nodes aren't reachable (spec §4.5).
func (pf *Pathfinder) FindPath(navData *NavigationData, start, end NodeRef, overrides map[NodeType]float32) (*Path, PathStats, error) {
	for nt, cost := range overrides {
		if cost <= 0 {
			return nil, PathStats{}, &NonPositiveNodeTypeCostError{NodeType: nt, Cost: cost}
		}
	}

	if !navData.AreNodesConnected(start, end) {
		return nil, PathStats{ExploredNodes: 0}, &NoPathFoundError{}
	}

	endIsl := navData.Island(end.IslandID)
	assert.True(endIsl != nil && endIsl.NavData() != nil, "FindPath end node names an island with no nav mesh")
	endPoint := endIsl.NavData().Transform.Apply(endIsl.NavData().Mesh.Polygons[end.PolygonIndex].Center)

	problem := &archipelagoPathProblem{
		navData:   navData,
		start:     start,
		end:       end,
		endPoint:  endPoint,
		overrides: overrides,
	}

	stats, steps, ok := FindPath[NodeRef, PathStep](problem, pf.scratch)
	if !ok {
		return nil, stats, &NoPathFoundError{}
	}

	path := &Path{}
	path.IslandSegments = append(path.IslandSegments, IslandSegment{
		IslandID: start.IslandID,
		Corridor: []int{start.PolygonIndex},
	})

	for _, step := range steps {
		seg := &path.IslandSegments[len(path.IslandSegments)-1]
		previous := seg.Corridor[len(seg.Corridor)-1]

		switch step.Kind {
		case NodeConnectionStep:
			isl := navData.Island(seg.IslandID)
			conn := isl.NavData().Mesh.Polygons[previous].Connectivity[step.EdgeIndex]
			seg.Corridor = append(seg.Corridor, conn.NeighborPolygon)
			seg.PortalEdgeIndex = append(seg.PortalEdgeIndex, step.EdgeIndex)
		case BoundaryLinkStep:
			previousNode := NodeRef{IslandID: seg.IslandID, PolygonIndex: previous}
			link, _ := navData.Links.Link(step.BoundaryLink)
			path.BoundaryLinkSegments = append(path.BoundaryLinkSegments, BoundaryLinkSegment{
				StartingNode: previousNode,
				BoundaryLink: step.BoundaryLink,
			})
			path.IslandSegments = append(path.IslandSegments, IslandSegment{
				IslandID: link.DestinationNode.IslandID,
				Corridor: []int{link.DestinationNode.PolygonIndex},
			})
		}
	}

	return path, stats, nil
}
