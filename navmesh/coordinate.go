package navmesh

import "github.com/arl/gogeo/f32/d3"

// CoordinateSystem converts between an archipelago's external coordinate
// representation and the internal, Y-up Vec3 space every navmesh
// computation happens in. Implemented as a capability interface rather
// than a base class, the way the teacher favors small interfaces
// (detour.QueryFilter) over inheritance.
type CoordinateSystem[Coordinate any] interface {
	ToInternal(c Coordinate) d3.Vec3
	FromInternal(v d3.Vec3) Coordinate
}

// XZCoordinates is a CoordinateSystem for games whose world is laid out on
// the XZ ground plane with a 2D (x, y) external coordinate; the external y
// becomes the internal Z, and the internal Y is always 0.
type XZCoordinates struct{}

// Coordinate2D is the external representation used by XZCoordinates.
type Coordinate2D struct {
	X, Y float32
}

func (XZCoordinates) ToInternal(c Coordinate2D) d3.Vec3 {
	return d3.NewVec3XYZ(c.X, 0, c.Y)
}

func (XZCoordinates) FromInternal(v d3.Vec3) Coordinate2D {
	return Coordinate2D{X: v.X(), Y: v.Z()}
}

// YUpCoordinates is the identity CoordinateSystem for worlds already using
// a Y-up 3D coordinate, i.e. d3.Vec3 itself.
type YUpCoordinates struct{}

func (YUpCoordinates) ToInternal(c d3.Vec3) d3.Vec3   { return c }
func (YUpCoordinates) FromInternal(v d3.Vec3) d3.Vec3 { return v }
