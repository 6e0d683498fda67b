package archipelago

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/landmass/navmesh"
)

// AgentID identifies an agent owned by an Archipelago.
type AgentID uint64

// AgentState is the outcome of an agent's most recent tick (spec §3).
type AgentState int

const (
	// Idle is the state of an agent before its first update, or one with
	// no current target.
	Idle AgentState = iota
	// ReachedTarget means the agent's target-reached condition is
	// currently satisfied; desired velocity is zero.
	ReachedTarget
	// Moving means the agent has a valid path and a non-zero desired
	// velocity toward it.
	Moving
	// NoPath means no path could be found between the agent's current
	// node and its target's node.
	NoPath
	// AgentNotOnNavMesh means the agent's position didn't snap to any
	// navigation mesh within its snap distance.
	AgentNotOnNavMesh
	// TargetNotOnNavMesh means the agent's target didn't snap to any
	// navigation mesh within its snap distance.
	TargetNotOnNavMesh
)

func (s AgentState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ReachedTarget:
		return "ReachedTarget"
	case Moving:
		return "Moving"
	case NoPath:
		return "NoPath"
	case AgentNotOnNavMesh:
		return "AgentNotOnNavMesh"
	case TargetNotOnNavMesh:
		return "TargetNotOnNavMesh"
	default:
		return "Unknown"
	}
}

// TargetReachedConditionKind selects which of the three reached
// predicates an agent uses (spec §4.7).
type TargetReachedConditionKind int

const (
	// Distance is reached when the agent is within Distance of the
	// target point.
	Distance TargetReachedConditionKind = iota
	// VisibleAtDistance is reached when the agent can see the target
	// (next waypoint is the target waypoint) and is within Distance of
	// it.
	VisibleAtDistance
	// StraightPathDistance is reached when the walking distance along
	// the straight path to the target is below Distance.
	StraightPathDistance
)

// TargetReachedCondition pairs a predicate kind with its threshold
// distance. Distance == nil means "use the agent's radius" (spec §3).
type TargetReachedCondition struct {
	Kind     TargetReachedConditionKind
	Distance *float32
}

func (c TargetReachedCondition) distance(radius float32) float32 {
	if c.Distance == nil {
		return radius
	}
	return *c.Distance
}

// Agent is a single navigating entity owned by an Archipelago (spec §3).
// Most fields are freely mutable by the embedder between ticks; CurrentPath,
// CurrentDesiredVelocity, and State are written only by Archipelago.Update
// and should be treated as read-only outputs.
type Agent struct {
	Position   d3.Vec3
	Velocity   d3.Vec3
	Radius     float32
	DesiredSpeed float32
	MaxSpeed   float32

	CurrentTarget          *d3.Vec3
	TargetReachedCondition TargetReachedCondition

	// NodeTypeCostOverrides take priority over the archipelago-wide
	// node-type costs when this agent searches for a path.
	NodeTypeCostOverrides map[navmesh.NodeType]float32

	// SnapDistance bounds how far CurrentTarget/Position may be from the
	// nearest navigation mesh point and still be considered "on" it.
	SnapDistance float32

	CurrentPath            *navmesh.Path
	CurrentDesiredVelocity d3.Vec3
	State                  AgentState
	// NextWaypoint is the point the agent is currently steering towards,
	// the next corner of the straight path from Position (spec §4.6/§4.8
	// step 4). Only
	// meaningful when State is Moving or ReachedTarget.
	NextWaypoint d3.Vec3
}

// NewAgent returns an agent at position with the given velocity, radius,
// and speed limits. TargetReachedCondition defaults to Distance(radius)
// (original_source src/agent.rs::Agent::create).
func NewAgent(position, velocity d3.Vec3, radius, desiredSpeed, maxSpeed float32) *Agent {
	return &Agent{
		Position:               position,
		Velocity:               velocity,
		Radius:                 radius,
		DesiredSpeed:           desiredSpeed,
		MaxSpeed:               maxSpeed,
		TargetReachedCondition: TargetReachedCondition{Kind: Distance},
		NodeTypeCostOverrides:  make(map[navmesh.NodeType]float32),
		SnapDistance:           radius,
	}
}

// OverrideNodeTypeCost sets a per-agent cost override for nodeType.
// Returns false if cost is not strictly positive.
func (a *Agent) OverrideNodeTypeCost(nodeType navmesh.NodeType, cost float32) bool {
	if cost <= 0 {
		return false
	}
	a.NodeTypeCostOverrides[nodeType] = cost
	return true
}

// RemoveNodeTypeCostOverride removes nodeType's override, if any.
// Returns whether one was present.
func (a *Agent) RemoveNodeTypeCostOverride(nodeType navmesh.NodeType) bool {
	if _, ok := a.NodeTypeCostOverrides[nodeType]; !ok {
		return false
	}
	delete(a.NodeTypeCostOverrides, nodeType)
	return true
}

// hasReachedTarget implements spec §4.7 / original_source's
// Agent::has_reached_target match arms.
func (a *Agent) hasReachedTarget(
	path *navmesh.Path,
	nd *navmesh.NavigationData,
	nextIndex navmesh.PathIndex, nextPoint d3.Vec3,
	targetIndex navmesh.PathIndex, targetPoint d3.Vec3,
) bool {
	distance := a.TargetReachedCondition.distance(a.Radius)

	switch a.TargetReachedCondition.Kind {
	case Distance:
		return a.Position.DistSqr(targetPoint) < distance*distance

	case VisibleAtDistance:
		return nextIndex == targetIndex && a.Position.DistSqr(nextPoint) < distance*distance

	case StraightPathDistance:
		if a.Position.DistSqr(targetPoint) > distance*distance {
			return false
		}
		if nextIndex == targetIndex {
			return true
		}

		straightLineDistance := a.Position.Dist(nextPoint)
		currentIndex, currentPoint := nextIndex, nextPoint

		for currentIndex != targetIndex && straightLineDistance < distance {
			nextIdx, nextPt := path.FindNextPointInStraightPath(nd, currentIndex, currentPoint, targetIndex, targetPoint)
			straightLineDistance += currentPoint.Dist(nextPt)
			currentIndex, currentPoint = nextIdx, nextPt
		}

		return straightLineDistance < distance

	default:
		return false
	}
}
