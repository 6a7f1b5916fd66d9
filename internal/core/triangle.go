package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is an ordered triple of world-space vertices. Front faces wind
// counter-clockwise.
type Triangle struct {
	V0, V1, V2 mgl64.Vec3
}

// NewTriangle creates a triangle from three vertices
func NewTriangle(v0, v1, v2 mgl64.Vec3) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2}
}

// Vertices returns the three vertices in order
func (t Triangle) Vertices() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.V0, t.V1, t.V2}
}

// Normal returns the unit face normal. Degenerate triangles return a
// non-unit (NaN) vector.
func (t Triangle) Normal() mgl64.Vec3 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize()
}

// Plane returns the supporting plane of the triangle
func (t Triangle) Plane() Plane {
	return NewPlaneFromPoints(t.V0, t.V1, t.V2)
}

// Area returns the surface area
func (t Triangle) Area() float64 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Len() / 2
}

// Centroid returns the average of the three vertices
func (t Triangle) Centroid() mgl64.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// Bounds returns the tight axis-aligned box around the triangle
func (t Triangle) Bounds() BoundingBox {
	return BoundingBox{
		Min: minVec(minVec(t.V0, t.V1), t.V2),
		Max: maxVec(maxVec(t.V0, t.V1), t.V2),
	}
}

// IsDegenerate reports whether the triangle has (near) zero area
func (t Triangle) IsDegenerate() bool {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).LenSqr() < Epsilon*Epsilon
}

// DivComponents returns the triangle with every vertex divided component-wise
// by s. This is how triangles enter ellipsoid space.
func (t Triangle) DivComponents(s mgl64.Vec3) Triangle {
	return Triangle{V0: DivComponents(t.V0, s), V1: DivComponents(t.V1, s), V2: DivComponents(t.V2, s)}
}

// Scale returns the triangle with every vertex multiplied component-wise by s
func (t Triangle) Scale(s mgl64.Vec3) Triangle {
	return Triangle{V0: MulComponents(t.V0, s), V1: MulComponents(t.V1, s), V2: MulComponents(t.V2, s)}
}

// Barycentric returns the weights (u, v, w) with p = u*V0 + v*V1 + w*V2 for the
// projection of p onto the triangle plane. A degenerate triangle returns NaNs.
func (t Triangle) Barycentric(p mgl64.Vec3) (u, v, w float64) {
	e0 := t.V1.Sub(t.V0)
	e1 := t.V2.Sub(t.V0)
	e2 := p.Sub(t.V0)

	d00 := e0.Dot(e0)
	d01 := e0.Dot(e1)
	d11 := e1.Dot(e1)
	d20 := e2.Dot(e0)
	d21 := e2.Dot(e1)

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}

	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}

// ContainsPoint reports whether a point lying in the triangle's plane is
// inside the triangle (edges included).
func (t Triangle) ContainsPoint(p mgl64.Vec3) bool {
	u, v, w := t.Barycentric(p)
	return u >= -Epsilon && v >= -Epsilon && w >= -Epsilon
}

// IntersectRay runs the Möller–Trumbore test against both faces. It returns
// the distance t along the ray (in units of the direction's length) and the
// barycentric weights of V1 and V2.
func (t Triangle) IntersectRay(ray Ray) (dist, u, v float64, ok bool) {
	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -Epsilon && a < Epsilon {
		return 0, 0, 0, false // parallel
	}

	f := 1 / a
	s := ray.Origin.Sub(t.V0)
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	dist = f * edge2.Dot(q)
	if dist <= Epsilon {
		// Line hit behind the origin
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

// ClosestPoint returns the point of the triangle closest to p
func (t Triangle) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	projected := t.Plane().Project(p)
	if t.ContainsPoint(projected) {
		return projected
	}

	best := closestPointOnSegment(t.V0, t.V1, p)
	bestDist := best.Sub(p).LenSqr()
	for _, edge := range [2][2]mgl64.Vec3{{t.V1, t.V2}, {t.V2, t.V0}} {
		candidate := closestPointOnSegment(edge[0], edge[1], p)
		if d := candidate.Sub(p).LenSqr(); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func closestPointOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LenSqr()
	if lenSq == 0 {
		return a
	}
	s := mgl64.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mul(s))
}
