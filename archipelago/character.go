package archipelago

import "github.com/arl/gogeo/f32/d3"

// CharacterID identifies a character owned by an Archipelago.
type CharacterID uint64

// Character is a moving obstacle consumed only by the avoidance oracle
// (spec §3): it has no target, no path, and never moves itself — the
// embedder positions it every tick, the same way it positions agents.
// Grounded on the teacher's ObstacleCircle in crowd/obstacle_avoidance.go,
// promoted from an avoidance-internal scratch struct to a first-class
// owned entity.
type Character struct {
	Position d3.Vec3
	Velocity d3.Vec3
	Radius   float32
}

// NewCharacter returns a character at position with the given velocity
// and radius.
func NewCharacter(position, velocity d3.Vec3, radius float32) *Character {
	return &Character{Position: position, Velocity: velocity, Radius: radius}
}
