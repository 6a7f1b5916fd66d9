package core

import "github.com/go-gl/mathgl/mgl64"

// Frustum plane indices
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum holds six inward-facing planes: a point is inside when its signed
// distance to every plane is non-negative.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the planes of a column-vector view-projection
// matrix (clip = M * v) with the Gribb/Hartmann method.
func NewFrustumFromMatrix(viewProj mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	rows := [6]mgl64.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}

	var f Frustum
	for i, r := range rows {
		f.Planes[i] = Plane{Normal: mgl64.Vec3{r[0], r[1], r[2]}, D: r[3]}.Normalize()
	}
	return f
}

// NewPerspectiveFrustum builds the frustum of a camera at eye looking at
// center. fovy is in radians.
func NewPerspectiveFrustum(eye, center, up mgl64.Vec3, fovy, aspect, near, far float64) Frustum {
	proj := mgl64.Perspective(fovy, aspect, near, far)
	view := mgl64.LookAtV(eye, center, up)
	return NewFrustumFromMatrix(proj.Mul4(view))
}

// IntersectsAABB returns false only if the box is completely outside one of
// the planes. It tests the corner most aligned with each plane normal.
func (f Frustum) IntersectsAABB(box BoundingBox) bool {
	for _, plane := range f.Planes {
		positive := box.Min
		for axis := 0; axis < 3; axis++ {
			if plane.Normal[axis] >= 0 {
				positive[axis] = box.Max[axis]
			}
		}

		if plane.SignedDistance(positive) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether point is inside all six planes
func (f Frustum) ContainsPoint(point mgl64.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.SignedDistance(point) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of the sphere can be inside
func (f Frustum) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	for _, plane := range f.Planes {
		if plane.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}
