// Package archipelago implements the tick driver that owns islands,
// agents, and characters, and turns per-tick inputs into each agent's
// desired velocity (spec §4.8). It corresponds to the teacher's
// crowd.Crowd, generalized from a single flat navmesh to islands stitched
// together at runtime via boundary links.
package archipelago

import (
	"log"

	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/landmass/avoidance"
	"github.com/arl/landmass/navmesh"
)

// AgentOptions are the archipelago-wide avoidance tunables shared by every
// agent's avoidance query (spec §6).
type AgentOptions struct {
	NeighbourhoodTime       float32
	ObstacleAvoidanceTime   float32
	AvoidanceResponsibility float32
}

// DefaultAgentOptions mirrors the teacher's crowd defaults for the
// equivalent knobs.
func DefaultAgentOptions() AgentOptions {
	return AgentOptions{
		NeighbourhoodTime:       1.0,
		ObstacleAvoidanceTime:   1.5,
		AvoidanceResponsibility: 1.0,
	}
}

func (o AgentOptions) tunables() avoidance.Tunables {
	return avoidance.Tunables{
		NeighbourhoodTime:       o.NeighbourhoodTime,
		ObstacleAvoidanceTime:   o.ObstacleAvoidanceTime,
		AvoidanceResponsibility: o.AvoidanceResponsibility,
	}
}

// Archipelago owns every island, agent, and character in one navigation
// world, and drives Update (spec §3). Coordinate is the external
// coordinate type the embedder works in; CS converts between it and the
// internal Y-up representation every navmesh computation uses.
type Archipelago[Coordinate any] struct {
	CoordinateSystem navmesh.CoordinateSystem[Coordinate]
	NavData          *navmesh.NavigationData
	Oracle           avoidance.Oracle
	AgentOptions     AgentOptions
	Logger           *log.Logger
	// NeighborCellSize is the cell size of the per-tick neighbor-lookup
	// grid (see proximitygrid.go); <= 0 falls back to 4.0. Tune it to
	// roughly the typical agent spacing for best query locality.
	NeighborCellSize float32

	agents        map[AgentID]*Agent
	nextAgent     AgentID
	characters    map[CharacterID]*Character
	nextCharacter CharacterID

	pathfinder *navmesh.Pathfinder
}

// New returns an empty Archipelago using cs to convert external
// coordinates, oracle for local avoidance, and the default boundary-link
// tolerances.
func New[Coordinate any](cs navmesh.CoordinateSystem[Coordinate], oracle avoidance.Oracle) *Archipelago[Coordinate] {
	return &Archipelago[Coordinate]{
		CoordinateSystem: cs,
		NavData:          navmesh.NewNavigationData(navmesh.DefaultXZTolerance, navmesh.DefaultYTolerance),
		Oracle:           oracle,
		AgentOptions:     DefaultAgentOptions(),
		agents:           make(map[AgentID]*Agent),
		nextAgent:        1,
		characters:       make(map[CharacterID]*Character),
		nextCharacter:    1,
		pathfinder:       navmesh.NewPathfinder(),
	}
}

// AddIsland creates and returns a new, empty island.
func (a *Archipelago[Coordinate]) AddIsland() *navmesh.Island {
	return a.NavData.AddIsland()
}

// RemoveIsland removes the island with the given id.
func (a *Archipelago[Coordinate]) RemoveIsland(id navmesh.IslandID) {
	a.NavData.RemoveIsland(id)
}

// GetIsland returns the island with the given id, or nil.
func (a *Archipelago[Coordinate]) GetIsland(id navmesh.IslandID) *navmesh.Island {
	return a.NavData.Island(id)
}

// AddAgent adds agent to the archipelago and returns its id.
func (a *Archipelago[Coordinate]) AddAgent(agent *Agent) AgentID {
	id := a.nextAgent
	a.nextAgent++
	a.agents[id] = agent
	return id
}

// RemoveAgent removes the agent with the given id.
func (a *Archipelago[Coordinate]) RemoveAgent(id AgentID) {
	delete(a.agents, id)
}

// GetAgent returns the agent with the given id, or nil.
func (a *Archipelago[Coordinate]) GetAgent(id AgentID) *Agent {
	return a.agents[id]
}

// Agents returns every agent, keyed by id. Callers must not mutate the
// returned map itself (adding/removing keys); mutating an *Agent value is
// fine.
func (a *Archipelago[Coordinate]) Agents() map[AgentID]*Agent {
	return a.agents
}

// AddCharacter adds character to the archipelago and returns its id.
func (a *Archipelago[Coordinate]) AddCharacter(c *Character) CharacterID {
	id := a.nextCharacter
	a.nextCharacter++
	a.characters[id] = c
	return id
}

// RemoveCharacter removes the character with the given id.
func (a *Archipelago[Coordinate]) RemoveCharacter(id CharacterID) {
	delete(a.characters, id)
}

// GetCharacter returns the character with the given id, or nil.
func (a *Archipelago[Coordinate]) GetCharacter(id CharacterID) *Character {
	return a.characters[id]
}

// Characters returns every character, keyed by id.
func (a *Archipelago[Coordinate]) Characters() map[CharacterID]*Character {
	return a.characters
}

// AddNodeType registers a new node type with the given cost multiplier.
func (a *Archipelago[Coordinate]) AddNodeType(cost float32) (navmesh.NodeType, error) {
	return a.NavData.Types.AddNodeType(cost)
}

// SetNodeTypeCost updates nodeType's archipelago-wide cost multiplier.
func (a *Archipelago[Coordinate]) SetNodeTypeCost(nodeType navmesh.NodeType, cost float32) error {
	return a.NavData.Types.SetNodeTypeCost(nodeType, cost)
}

// GetNodeTypeCost returns nodeType's archipelago-wide cost multiplier.
func (a *Archipelago[Coordinate]) GetNodeTypeCost(nodeType navmesh.NodeType) (float32, bool) {
	return a.NavData.Types.GetNodeTypeCost(nodeType)
}

// RemoveNodeType removes nodeType, failing if it is still referenced by
// any island.
func (a *Archipelago[Coordinate]) RemoveNodeType(nodeType navmesh.NodeType) bool {
	return a.NavData.Types.RemoveNodeType(nodeType)
}

// SamplePoint finds the point on the navigation meshes nearest to point
// (in external coordinates), within distance.
func (a *Archipelago[Coordinate]) SamplePoint(point Coordinate, distance float32) (navmesh.SampledPoint, error) {
	internal := a.CoordinateSystem.ToInternal(point)
	q := navmesh.NewQuery(a.NavData)
	return q.SamplePoint(internal, distance)
}

// FindPath finds a straight-line waypoint polyline from start to end
// (spec §4.10), applying the given node-type cost overrides.
func (a *Archipelago[Coordinate]) FindPath(start, end navmesh.SampledPoint, overrides map[navmesh.NodeType]float32) ([]Coordinate, error) {
	q := navmesh.NewQuery(a.NavData)
	path, _, err := q.FindPath(start.Node, end.Node, overrides)
	if err != nil {
		return nil, err
	}

	points := []d3.Vec3{start.Point}
	currentIndex := navmesh.PathIndex{}
	currentPoint := start.Point
	targetIndex := path.LastIndex()

	for currentIndex != targetIndex {
		nextIndex, nextPoint := path.FindNextPointInStraightPath(a.NavData, currentIndex, currentPoint, targetIndex, end.Point)
		points = append(points, nextPoint)
		currentIndex, currentPoint = nextIndex, nextPoint
	}

	out := make([]Coordinate, len(points))
	for i, p := range points {
		out[i] = a.CoordinateSystem.FromInternal(p)
	}
	return out, nil
}

// Update advances every agent by one tick (spec §4.8). deltaTime must be
// >= 0; deltaTime == 0 is a no-op.
func (a *Archipelago[Coordinate]) Update(deltaTime float32) {
	if deltaTime == 0 {
		return
	}

	// Step 1: rebuild boundary links if any island is dirty.
	if a.Logger != nil && a.NavData.Logger == nil {
		a.NavData.Logger = a.Logger
	}
	a.NavData.Update()

	grid := a.buildNeighborGrid()

	for id, ag := range a.agents {
		a.updateAgent(id, ag, grid)
	}
}

// buildNeighborGrid indexes every agent and character by their world AABB
// once per tick, so updateAgent can look up nearby neighbors in roughly
// constant time instead of scanning the whole archipelago per agent.
func (a *Archipelago[Coordinate]) buildNeighborGrid() *proximityGrid {
	cellSize := a.NeighborCellSize
	if cellSize <= 0 {
		cellSize = 4.0
	}
	// Each entity takes one pool slot per grid cell its AABB overlaps.
	n := 0
	for _, ag := range a.agents {
		k := int(2*ag.Radius/cellSize) + 2
		n += k * k
	}
	for _, c := range a.characters {
		k := int(2*c.Radius/cellSize) + 2
		n += k * k
	}
	if n == 0 {
		n = 1
	}
	grid := newProximityGrid(n, cellSize)
	for id, ag := range a.agents {
		p := ag.Position
		r := ag.Radius
		grid.addItem(agentGridID(id), p.X()-r, p.Z()-r, p.X()+r, p.Z()+r)
	}
	for id, c := range a.characters {
		p := c.Position
		r := c.Radius
		grid.addItem(characterGridID(id), p.X()-r, p.Z()-r, p.X()+r, p.Z()+r)
	}
	return grid
}

func agentGridID(id AgentID) uint64         { return uint64(id) << 1 }
func characterGridID(id CharacterID) uint64 { return uint64(id)<<1 | 1 }
func isCharacterGridID(v uint64) bool       { return v&1 == 1 }
func agentIDFromGrid(v uint64) AgentID      { return AgentID(v >> 1) }
func characterIDFromGrid(v uint64) CharacterID { return CharacterID(v >> 1) }

func (a *Archipelago[Coordinate]) updateAgent(selfID AgentID, ag *Agent, grid *proximityGrid) {
	prevState := ag.State

	if ag.CurrentTarget == nil {
		ag.CurrentPath = nil
		ag.CurrentDesiredVelocity = d3.NewVec3()
		ag.State = Idle
		return
	}

	snapDistance := ag.SnapDistance
	if snapDistance <= 0 {
		snapDistance = ag.Radius
	}

	// Step 2: snap start/end nodes.
	startPoint, startNode, startOK := a.NavData.SamplePoint(ag.Position, snapDistance)
	if !startOK {
		ag.CurrentPath = nil
		ag.CurrentDesiredVelocity = d3.NewVec3()
		ag.State = AgentNotOnNavMesh
		a.logStateChange(selfID, prevState, ag.State)
		return
	}
	endPoint, endNode, endOK := a.NavData.SamplePoint(*ag.CurrentTarget, snapDistance)
	if !endOK {
		ag.CurrentPath = nil
		ag.CurrentDesiredVelocity = d3.NewVec3()
		ag.State = TargetNotOnNavMesh
		a.logStateChange(selfID, prevState, ag.State)
		return
	}

	// Step 3: path repair/replan.
	path := ag.CurrentPath
	if path == nil || !path.IsValid(a.NavData, startNode, endNode) {
		newPath, _, err := a.pathfinder.FindPath(a.NavData, startNode, endNode, ag.NodeTypeCostOverrides)
		if err != nil {
			ag.CurrentPath = nil
			ag.CurrentDesiredVelocity = d3.NewVec3()
			ag.State = NoPath
			a.logStateChange(selfID, prevState, ag.State)
			return
		}
		path = newPath
	} else {
		path.TrimPrefix(startNode)
	}
	ag.CurrentPath = path

	// Step 4: waypoint extraction.
	targetIndex := path.LastIndex()
	nextIndex, nextWaypoint := path.FindNextPointInStraightPath(a.NavData, navmesh.PathIndex{}, startPoint, targetIndex, endPoint)
	ag.NextWaypoint = nextWaypoint

	// Step 5: reached check.
	if ag.hasReachedTarget(path, a.NavData, nextIndex, nextWaypoint, targetIndex, endPoint) {
		ag.CurrentDesiredVelocity = d3.NewVec3()
		ag.State = ReachedTarget
		return
	}

	// Step 6: avoidance.
	direction := nextWaypoint.Sub(ag.Position)
	preferred := d3.NewVec3()
	if length := direction.Len(); length > 1e-6 {
		preferred = direction.Scale(ag.DesiredSpeed / length)
	}

	lookahead := a.AgentOptions.NeighbourhoodTime * ag.MaxSpeed
	queryRadius := ag.Radius + lookahead
	p := ag.Position
	ids := grid.queryItems(p.X()-queryRadius, p.Z()-queryRadius, p.X()+queryRadius, p.Z()+queryRadius, nil)

	var neighborAgents []avoidance.Neighbor
	var neighborCharacters []avoidance.Neighbor
	for _, v := range ids {
		if isCharacterGridID(v) {
			c := a.characters[characterIDFromGrid(v)]
			if c == nil {
				continue
			}
			neighborCharacters = append(neighborCharacters, avoidance.Neighbor{
				Position: c.Position,
				Velocity: c.Velocity,
				Radius:   c.Radius,
			})
			continue
		}
		id := agentIDFromGrid(v)
		if id == selfID {
			continue
		}
		other := a.agents[id]
		if other == nil {
			continue
		}
		neighborAgents = append(neighborAgents, avoidance.Neighbor{
			Position: other.Position,
			Velocity: other.Velocity,
			Radius:   other.Radius,
		})
	}

	ag.CurrentDesiredVelocity = a.Oracle.ComputeVelocity(
		ag.Position, ag.Velocity, ag.Radius, ag.MaxSpeed,
		preferred, neighborAgents, neighborCharacters, a.AgentOptions.tunables(),
	)

	// Step 7: publish.
	ag.State = Moving
}

// logStateChange reports an agent entering one of the exceptional states
// (no path found, agent/target off the mesh) the way the teacher logs
// boundary-link rebuilds: a line at the transition, not one per tick.
func (a *Archipelago[Coordinate]) logStateChange(id AgentID, from, to AgentState) {
	if a.Logger == nil || from == to {
		return
	}
	switch to {
	case NoPath, AgentNotOnNavMesh, TargetNotOnNavMesh:
		a.Logger.Printf("archipelago: agent %d entered state %s", id, to)
	}
}
