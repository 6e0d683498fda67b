// Package avoidance defines the abstract local-avoidance capability the
// navmesh/archipelago core depends on. The core never implements steering
// around other agents or characters itself; it only ever calls an Oracle.
// See package avoidance/rvo for a concrete implementation.
package avoidance

import "github.com/arl/gogeo/f32/d3"

// Neighbor is a moving body the oracle must steer around: either another
// agent or a character, depending on which slice it was placed in.
type Neighbor struct {
	Position d3.Vec3
	Velocity d3.Vec3
	Radius   float32
}

// Tunables are the archipelago-wide avoidance knobs (spec §6
// agent_options): how far ahead neighbor collisions are projected, and
// how much responsibility this agent takes for avoiding others versus
// expecting them to avoid it.
type Tunables struct {
	NeighbourhoodTime      float32
	ObstacleAvoidanceTime  float32
	AvoidanceResponsibility float32
}

// Oracle computes a subject's actual desired velocity given its preferred
// velocity (the direction/speed it would move at absent any neighbors)
// and the neighboring agents/characters it should avoid colliding with.
type Oracle interface {
	ComputeVelocity(
		position d3.Vec3,
		velocity d3.Vec3,
		radius float32,
		maxSpeed float32,
		preferredVelocity d3.Vec3,
		neighborAgents []Neighbor,
		neighborCharacters []Neighbor,
		tunables Tunables,
	) d3.Vec3
}

// NoAvoidance is the trivial Oracle: it returns the preferred velocity
// unchanged, ignoring every neighbor. Useful as a default or in tests
// that don't exercise avoidance.
type NoAvoidance struct{}

func (NoAvoidance) ComputeVelocity(
	_ d3.Vec3, _ d3.Vec3, _ float32, _ float32,
	preferredVelocity d3.Vec3,
	_ []Neighbor, _ []Neighbor, _ Tunables,
) d3.Vec3 {
	return preferredVelocity
}
