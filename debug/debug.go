// Package debug implements a read-only visitor over an Archipelago's
// islands and agents, emitting typed points/lines/triangles to a Drawer
// (spec §4.11). It has no direct analogue in the teacher: detour/crowd's
// equivalent debug rendering lived in internal/dbg, tied to the recast
// voxelization demo (deleted, an explicit Non-goal); this package is
// re-derived from the shape of a visitor interface, generalized from
// detour's draw-tagged-primitives idiom seen in internal/dbg.
package debug

import "github.com/arl/gogeo/f32/d3"

// Kind tags a drawn primitive with what it represents, so a Drawer
// implementation can style each differently.
type Kind int

const (
	BoundaryEdge Kind = iota
	ConnectivityEdge
	BoundaryLink
	Node
	AgentPosition
	TargetPosition
	Waypoint
	AgentCorridor
)

func (k Kind) String() string {
	switch k {
	case BoundaryEdge:
		return "BoundaryEdge"
	case ConnectivityEdge:
		return "ConnectivityEdge"
	case BoundaryLink:
		return "BoundaryLink"
	case Node:
		return "Node"
	case AgentPosition:
		return "AgentPosition"
	case TargetPosition:
		return "TargetPosition"
	case Waypoint:
		return "Waypoint"
	case AgentCorridor:
		return "AgentCorridor"
	default:
		return "Unknown"
	}
}

// Drawer receives primitives in world space during a debug traversal.
// Implementations are free to batch, color, or discard by Kind.
type Drawer interface {
	AddPoint(p d3.Vec3, kind Kind)
	AddLine(a, b d3.Vec3, kind Kind)
	AddTriangle(a, b, c d3.Vec3, kind Kind)
}
