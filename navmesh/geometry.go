package navmesh

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// BoundingBox is an axis-aligned bounding box in internal (Y-up) space, or
// the empty set. The zero value is the empty set, so a NavigationMesh
// built without setting MeshBounds gets the "compute it from Vertices"
// behavior Validate documents, rather than a box with nil Min/Max.
type BoundingBox struct {
	nonEmpty bool
	Min, Max d3.Vec3
}

// NewEmptyBoundingBox returns the empty bounding box, the identity element
// for ExpandToPoint/Union. Equivalent to the zero value; kept for call
// sites where spelling it out reads better than a bare BoundingBox{}.
func NewEmptyBoundingBox() BoundingBox {
	return BoundingBox{}
}

// NewBoundingBox returns the box {min, max}. min must be componentwise <=
// max; callers that can't guarantee this should build up a box with
// ExpandToPoint instead.
func NewBoundingBox(min, max d3.Vec3) BoundingBox {
	return BoundingBox{nonEmpty: true, Min: min, Max: max}
}

// IsEmpty reports whether b is the empty set.
func (b BoundingBox) IsEmpty() bool { return !b.nonEmpty }

// ExpandToPoint returns the smallest box containing both b and p.
func (b BoundingBox) ExpandToPoint(p d3.Vec3) BoundingBox {
	if !b.nonEmpty {
		return BoundingBox{nonEmpty: true, Min: d3.NewVec3From(p), Max: d3.NewVec3From(p)}
	}
	min, max := d3.NewVec3From(b.Min), d3.NewVec3From(b.Max)
	d3.Vec3Min(min, p)
	d3.Vec3Max(max, p)
	return BoundingBox{nonEmpty: true, Min: min, Max: max}
}

// ExpandBySize returns b grown by half of size in every direction (size is
// a full width/height/depth, matching the teacher's "extents" convention in
// detour.NavMeshQuery.FindNearestPoly).
func (b BoundingBox) ExpandBySize(size d3.Vec3) BoundingBox {
	if !b.nonEmpty {
		return b
	}
	half := d3.NewVec3XYZ(size.X()/2, size.Y()/2, size.Z()/2)
	return BoundingBox{
		nonEmpty: true,
		Min:      b.Min.Sub(half),
		Max:      b.Max.Add(half),
	}
}

// Intersects reports whether b and other overlap. Two empty boxes, or an
// empty box and any other box, never intersect.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if !b.nonEmpty || !other.nonEmpty {
		return false
	}
	return !(b.Min.X() > other.Max.X() || b.Max.X() < other.Min.X() ||
		b.Min.Y() > other.Max.Y() || b.Max.Y() < other.Min.Y() ||
		b.Min.Z() > other.Max.Z() || b.Max.Z() < other.Min.Z())
}

// Union returns the smallest box containing both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if !b.nonEmpty {
		return other
	}
	if !other.nonEmpty {
		return b
	}
	return b.ExpandToPoint(other.Min).ExpandToPoint(other.Max)
}

// Transform returns b after being carried through t. Since t only rotates
// around Y and translates, this re-derives the box from its 4
// ground-plane corners rather than assuming axis alignment is preserved.
func (b BoundingBox) Transform(t Transform) BoundingBox {
	if !b.nonEmpty {
		return b
	}
	corners := [4]d3.Vec3{
		d3.NewVec3XYZ(b.Min.X(), 0, b.Min.Z()),
		d3.NewVec3XYZ(b.Max.X(), 0, b.Min.Z()),
		d3.NewVec3XYZ(b.Max.X(), 0, b.Max.Z()),
		d3.NewVec3XYZ(b.Min.X(), 0, b.Max.Z()),
	}
	out := NewEmptyBoundingBox()
	for _, c := range corners {
		p := t.Apply(c)
		out = out.ExpandToPoint(d3.NewVec3XYZ(p.X(), b.Min.Y()+t.Translation.Y(), p.Z()))
		out = out.ExpandToPoint(d3.NewVec3XYZ(p.X(), b.Max.Y()+t.Translation.Y(), p.Z()))
	}
	return out
}

// Transform is a 2D-on-ground rigid transform: a translation plus a
// rotation around the Y axis. Grounded on the teacher's rotate/translate
// free functions in vec3.go, generalized to a single yaw-aware type since
// detour's tiles never rotate but landmass islands do.
type Transform struct {
	Translation d3.Vec3
	RotationY   float32 // radians
}

// Apply carries p from the transform's local frame into world space:
// rotate around Y by RotationY, then translate.
func (t Transform) Apply(p d3.Vec3) d3.Vec3 {
	s, c := math32.Sin(t.RotationY), math32.Cos(t.RotationY)
	rotated := d3.NewVec3XYZ(
		c*p.X()+s*p.Z(),
		p.Y(),
		-s*p.X()+c*p.Z(),
	)
	return rotated.Add(t.Translation)
}

// InverseApply is the inverse of Apply: carries p from world space back
// into the transform's local frame.
func (t Transform) InverseApply(p d3.Vec3) d3.Vec3 {
	local := p.Sub(t.Translation)
	s, c := math32.Sin(-t.RotationY), math32.Cos(-t.RotationY)
	return d3.NewVec3XYZ(
		c*local.X()+s*local.Z(),
		local.Y(),
		-s*local.X()+c*local.Z(),
	)
}

// TriArea2D derives the signed XZ-plane area of the triangle abc. Positive
// when c is to the left of the directed line a->b. Ported verbatim from
// the teacher's detour/common.go.
func TriArea2D(a, b, c d3.Vec3) float32 {
	abx := b.X() - a.X()
	abz := b.Z() - a.Z()
	acx := c.X() - a.X()
	acz := c.Z() - a.Z()
	return acx*abz - abx*acz
}

// segmentProjection2D returns the t in [0,1] of the point on segment p-q
// closest to pt, discarding the distance.
func segmentProjection2D(pt, p, q d3.Vec3) float32 {
	_, t := distancePtSegSqr2D(pt, p, q)
	return t
}

// distancePtSegSqr2D returns the squared distance from pt to the segment
// [p,q], projected on the XZ plane, and the projection parameter t in
// [0,1]. Ported from the teacher's detour/query.go distancePtSegSqr2D.
func distancePtSegSqr2D(pt, p, q d3.Vec3) (distSqr, t float32) {
	pqx := q.X() - p.X()
	pqz := q.Z() - p.Z()
	dx := pt.X() - p.X()
	dz := pt.Z() - p.Z()
	d := pqx*pqx + pqz*pqz
	t = pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	dx = p.X() + t*pqx - pt.X()
	dz = p.Z() + t*pqz - pt.Z()
	return dx*dx + dz*dz, t
}
