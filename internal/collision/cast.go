package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

// insideProbe is the direction PointInside counts crossings along. It is kept
// off the axes so rays rarely graze shared edges of axis aligned geometry.
var insideProbe = mgl64.Vec3{1, 0.707, 0.707}.Normalize()

// RayCast returns the nearest triangle hit by the ray within maxDistance.
// Both faces are hit; the reported normal faces the ray origin.
func (s *System) RayCast(origin, direction mgl64.Vec3, maxDistance float64) Info {
	if core.IsZero(direction) || maxDistance <= 0 {
		return Info{}
	}
	ray := core.NewRay(origin, direction)

	var info Info
	for _, tri := range s.rayCandidates(ray, maxDistance) {
		dist, _, _, ok := tri.IntersectRay(ray)
		if !ok || dist > maxDistance {
			continue
		}
		if info.Hit && dist >= info.Distance {
			continue
		}

		normal := tri.Normal()
		if normal.Dot(ray.Direction) > 0 {
			normal = normal.Mul(-1)
		}
		info = Info{
			Hit:      true,
			Point:    ray.At(dist),
			Normal:   normal,
			Distance: dist,
			Triangle: tri,
		}
	}
	return info
}

// RayCastClosest is RayCast; every cast already reports the nearest hit
func (s *System) RayCastClosest(origin, direction mgl64.Vec3, maxDistance float64) Info {
	return s.RayCast(origin, direction, maxDistance)
}

// SphereCast sweeps a sphere of the given radius from origin along direction
// for up to maxDistance and reports the first contact. Distance is how far
// the centre travelled, Point the contact on the surface and Normal points
// from the contact to the centre.
func (s *System) SphereCast(origin, direction mgl64.Vec3, radius, maxDistance float64) Info {
	if core.IsZero(direction) || maxDistance <= 0 || math.IsInf(maxDistance, 0) || radius <= 0 {
		return Info{}
	}
	dir := direction.Normalize()
	scale := mgl64.Vec3{radius, radius, radius}
	eOrigin := origin.Mul(1 / radius)
	eVelocity := dir.Mul(maxDistance / radius)

	var (
		info    Info
		nearest = math.MaxFloat64
	)
	for _, tri := range s.candidates(eOrigin, eVelocity, scale) {
		eTri := tri.DivComponents(scale)
		if eTri.IsDegenerate() {
			continue
		}
		t, point, ok := sweepUnitSphere(eTri, eOrigin, eVelocity)
		if !ok || t >= nearest {
			continue
		}
		nearest = t

		distance := t * maxDistance
		contact := point.Mul(radius)
		centre := origin.Add(dir.Mul(distance))
		normal := centre.Sub(contact)
		if normal.LenSqr() < core.Epsilon*core.Epsilon {
			normal = tri.Normal()
		} else {
			normal = normal.Normalize()
		}

		info = Info{
			Hit:      true,
			Point:    contact,
			Normal:   normal,
			Distance: distance,
			Triangle: tri,
		}
	}
	return info
}

// PointInside reports whether point lies inside closed geometry by counting
// surface crossings of a ray leaving it: an odd count means inside. Open or
// self intersecting meshes give unreliable answers.
func (s *System) PointInside(point mgl64.Vec3) bool {
	ray := core.NewRay(point, insideProbe)

	crossings := 0
	for _, tri := range s.rayCandidates(ray, math.Inf(1)) {
		if _, _, _, ok := tri.IntersectRay(ray); ok {
			crossings++
		}
	}
	return crossings%2 == 1
}
