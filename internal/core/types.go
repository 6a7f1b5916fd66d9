package core

import "github.com/go-gl/mathgl/mgl64"

// Epsilon is the tolerance used by every geometric comparison in the module.
const Epsilon = 1e-6

// SpatialIndex is implemented by the broad-phase trees. Results are
// conservative: a returned triangle only shares a node with the query shape,
// callers still run exact tests on it.
type SpatialIndex interface {
	Insert(tri Triangle)
	InsertAll(tris []Triangle)
	Remove(remove func(Triangle) bool) int
	Clear()
	Rebuild()
	QueryBox(box BoundingBox) []*Triangle
	QueryPoint(point mgl64.Vec3, radius float64) []*Triangle
	QuerySphere(center mgl64.Vec3, radius float64) []*Triangle
	QueryRay(ray Ray, maxDistance float64) []*Triangle
	Triangles() []Triangle
	TriangleCount() int
	NodeCount() int
	Bounds() BoundingBox
}

// MulComponents multiplies two vectors component by component.
func MulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// DivComponents divides a by b component by component. A zero component in b
// yields an infinite or NaN component, exactly like the scalar division.
func DivComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] / b[0], a[1] / b[1], a[2] / b[2]}
}

// SetLength returns v rescaled to the given length. The zero vector stays zero.
func SetLength(v mgl64.Vec3, length float64) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(length / l)
}

// IsZero reports whether every component of v is exactly zero.
func IsZero(v mgl64.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// minVec and maxVec are component-wise min/max.
func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}
