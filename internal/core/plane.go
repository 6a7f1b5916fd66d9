package core

import "github.com/go-gl/mathgl/mgl64"

// PlaneClassification represents a point's position relative to a plane
type PlaneClassification int

const (
	PlaneClassificationOnPlane PlaneClassification = iota
	PlaneClassificationFront
	PlaneClassificationBack
)

// Plane is a unit normal plus signed distance: Normal·p + D is the signed
// distance from p to the plane.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlaneFromNormal creates the plane through origin with the given normal.
// The normal is normalized; a zero normal produces an undefined plane.
func NewPlaneFromNormal(normal, origin mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(origin)}
}

// NewPlaneFromPoints creates the plane through a, b and c. Winding is
// counter-clockwise when seen from the front side. Collinear points yield an
// undefined normal.
func NewPlaneFromPoints(a, b, c mgl64.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, D: -n.Dot(a)}
}

// SignedDistance returns the signed distance from point to the plane
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// IsFrontFacingTo reports whether direction points against the plane normal.
func (p Plane) IsFrontFacingTo(direction mgl64.Vec3) bool {
	return p.Normal.Dot(direction) <= 0
}

// Classify determines which side of the plane a point is on
func (p Plane) Classify(point mgl64.Vec3) PlaneClassification {
	distance := p.SignedDistance(point)
	switch {
	case distance > Epsilon:
		return PlaneClassificationFront
	case distance < -Epsilon:
		return PlaneClassificationBack
	default:
		return PlaneClassificationOnPlane
	}
}

// Project returns the orthogonal projection of point onto the plane
func (p Plane) Project(point mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

// Flip returns the same plane facing the opposite way
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Mul(-1), D: -p.D}
}

// Normalize rescales the plane so its normal is unit length. Planes built from
// raw coefficients (frustum extraction) go through here.
func (p Plane) Normalize() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), D: p.D / l}
}
