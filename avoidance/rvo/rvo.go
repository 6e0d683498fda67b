// Package rvo is a velocity-obstacle based avoidance.Oracle: it samples
// candidate velocities around the preferred velocity and scores each by
// how soon it would collide with a neighboring agent or character,
// picking the lowest-penalty candidate. Ported from the teacher's
// ObstacleAvoidanceQuery (crowd/obstacle_avoidance.go), generalized from
// crowd-local obstacle circles/segments to avoidance.Neighbor, and with
// processSample given a real time-of-impact scoring body (the teacher's
// copy left processSample/prepare as stubs returning zero).
package rvo

import (
	"math"

	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"

	"github.com/arl/landmass/avoidance"
)

const (
	maxPatternDivs  = 32
	maxPatternRings = 4
)

// Params tunes the adaptive sampling pattern, mirroring the teacher's
// ObstacleAvoidanceParams fields that control sampling (bias, weighting,
// ring/division counts) rather than obstacle segment handling, which this
// port doesn't need: neighbors are always circles (agents/characters),
// never static segments.
type Params struct {
	VelBias       float32
	WeightDesVel  float32
	WeightCurVel  float32
	WeightToi     float32
	AdaptiveDivs  uint8
	AdaptiveRings uint8
	AdaptiveDepth uint8
}

// DefaultParams mirrors typical Recast/Detour crowd defaults.
func DefaultParams() Params {
	return Params{
		VelBias:       0.4,
		WeightDesVel:  2.0,
		WeightCurVel:  0.75,
		WeightToi:     2.5,
		AdaptiveDivs:  7,
		AdaptiveRings: 2,
		AdaptiveDepth: 5,
	}
}

// Oracle implements avoidance.Oracle using adaptive velocity sampling.
type Oracle struct {
	Params Params
}

// New returns an Oracle using DefaultParams.
func New() *Oracle {
	return &Oracle{Params: DefaultParams()}
}

func (o *Oracle) ComputeVelocity(
	position d3.Vec3,
	velocity d3.Vec3,
	radius float32,
	maxSpeed float32,
	preferredVelocity d3.Vec3,
	neighborAgents []avoidance.Neighbor,
	neighborCharacters []avoidance.Neighbor,
	tunables avoidance.Tunables,
) d3.Vec3 {
	horizTime := tunables.NeighbourhoodTime
	if horizTime <= 0 {
		horizTime = 1.0
	}

	neighbors := make([]avoidance.Neighbor, 0, len(neighborAgents)+len(neighborCharacters))
	neighbors = append(neighbors, neighborAgents...)
	neighbors = append(neighbors, neighborCharacters...)

	return o.sampleVelocityAdaptive(position, radius, maxSpeed, velocity, preferredVelocity, neighbors, horizTime)
}

func normalize2D(v d3.Vec3) d3.Vec3 {
	d := math32.Sqrt(v.X()*v.X() + v.Z()*v.Z())
	if d == 0 {
		return v
	}
	inv := 1.0 / d
	return d3.NewVec3XYZ(v.X()*inv, v.Y(), v.Z()*inv)
}

func rotate2D(v d3.Vec3, ang float32) d3.Vec3 {
	c := math32.Cos(ang)
	s := math32.Sin(ang)
	return d3.NewVec3XYZ(v.X()*c-v.Z()*s, v.Y(), v.X()*s+v.Z()*c)
}

// sampleVelocityAdaptive builds a sampling pattern aligned with the
// desired velocity direction (a small number of concentric rings of
// candidate directions rather than a full grid), evaluates each
// candidate's collision penalty, and repeatedly refines around the best
// candidate found, halving the search radius each pass. Ported from
// ObstacleAvoidanceQuery.sampleVelocityAdaptive.
func (o *Oracle) sampleVelocityAdaptive(
	pos d3.Vec3, rad, vmax float32, vel, dvel d3.Vec3,
	neighbors []avoidance.Neighbor, horizTime float32,
) d3.Vec3 {
	p := o.Params

	nd := clampInt(int(p.AdaptiveDivs), 1, maxPatternDivs)
	nr := clampInt(int(p.AdaptiveRings), 1, maxPatternRings)
	depth := clampInt(int(p.AdaptiveDepth), 1, 8)

	da := (1.0 / float32(nd)) * 2 * math32.Pi
	ca := math32.Cos(da)
	sa := math32.Sin(da)

	ddir := normalize2D(dvel)
	rotated := rotate2D(ddir, da*0.5)

	type point struct{ x, z float32 }
	pat := make([]point, 0, nr*nd+1)
	pat = append(pat, point{0, 0})

	for j := 0; j < nr; j++ {
		r := float32(nr-j) / float32(nr)
		var base d3.Vec3
		if j%2 == 0 {
			base = ddir
		} else {
			base = rotated
		}
		last1 := point{base.X() * r, base.Z() * r}
		last2 := last1
		pat = append(pat, last1)

		for i := 1; i < nd-1; i += 2 {
			right := point{last1.x*ca + last1.z*sa, -last1.x*sa + last1.z*ca}
			left := point{last2.x*ca - last2.z*sa, last2.x*sa + last2.z*ca}
			pat = append(pat, right, left)
			last1, last2 = right, left
		}
		if nd%2 == 0 {
			pat = append(pat, point{last2.x*ca - last2.z*sa, last2.x*sa + last2.z*ca})
		}
	}

	cr := vmax * (1.0 - p.VelBias)
	res := d3.NewVec3XYZ(dvel.X()*p.VelBias, 0, dvel.Z()*p.VelBias)

	for k := 0; k < depth; k++ {
		minPenalty := float32(math.MaxFloat32)
		best := res

		for _, pt := range pat {
			vcand := d3.NewVec3XYZ(res.X()+pt.x*cr, 0, res.Z()+pt.z*cr)
			if vcand.X()*vcand.X()+vcand.Z()*vcand.Z() > (vmax+0.001)*(vmax+0.001) {
				continue
			}
			penalty := o.processSample(vcand, pos, rad, vel, dvel, neighbors, horizTime, vmax)
			if penalty < minPenalty {
				minPenalty = penalty
				best = vcand
			}
		}

		res = best
		cr *= 0.5
	}

	return d3.NewVec3XYZ(res.X(), vel.Y(), res.Z())
}

// processSample scores a candidate velocity: how closely it matches the
// desired/current velocity, plus a time-of-impact penalty against every
// neighbor computed via sweepCircleCircle, weighted so imminent
// collisions dominate the score.
func (o *Oracle) processSample(vcand, pos d3.Vec3, rad float32, vel, dvel d3.Vec3, neighbors []avoidance.Neighbor, horizTime, vmax float32) float32 {
	p := o.Params
	invVmax := float32(0)
	if vmax > 0 {
		invVmax = 1.0 / vmax
	}

	vpen := p.WeightDesVel * dvel.Sub(vcand).Len() * invVmax
	vcpen := p.WeightCurVel * vel.Sub(vcand).Len() * invVmax

	tmin := horizTime
	for _, n := range neighbors {
		relVel := vcand.Sub(n.Velocity)
		tmn, tmx, moving := sweepCircleCircle(pos, rad, relVel, n.Position, n.Radius)
		if !moving {
			continue
		}
		if tmx < 0 || tmn > horizTime {
			continue
		}
		if tmn < 0 {
			tmn = 0
		}
		if tmn < tmin {
			tmin = tmn
		}
	}

	tpen := p.WeightToi * (horizTime - tmin) / horizTime

	return 1 + vpen + vcpen + tpen
}

func sweepCircleCircle(c0 d3.Vec3, r0 float32, v d3.Vec3, c1 d3.Vec3, r1 float32) (tmin, tmax float32, moving bool) {
	const eps = 0.0001
	s := c1.Sub(c0)
	r := r0 + r1
	c := s.X()*s.X() + s.Z()*s.Z() - r*r
	a := v.X()*v.X() + v.Z()*v.Z()
	if a < eps {
		return 0, 0, false
	}
	b := v.X()*s.X() + v.Z()*s.Z()
	d := b*b - a*c
	if d < 0 {
		return 0, 0, false
	}
	a = 1.0 / a
	rd := math32.Sqrt(d)
	tmin = (b - rd) * a
	tmax = (b + rd) * a
	return tmin, tmax, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
