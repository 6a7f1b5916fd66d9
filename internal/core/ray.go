package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line. Direction need not be unit length; distances returned by
// ray tests are in multiples of it.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay creates a ray with a normalized direction
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Bounds returns the box around the segment [0, maxDistance]. Trees use it to
// approximate a ray query.
func (r Ray) Bounds(maxDistance float64) BoundingBox {
	return NewBoundingBoxFromPoints(r.Origin, r.At(maxDistance))
}

// IntersectsBox runs the slab test and returns the entry distance. A ray that
// starts inside the box reports its exit distance.
func (r Ray) IntersectsBox(box BoundingBox, maxDistance float64) (float64, bool) {
	tMin, tMax := 0.0, maxDistance

	for axis := 0; axis < 3; axis++ {
		origin, dir := r.Origin[axis], r.Direction[axis]
		if math.Abs(dir) < 1e-8 {
			// Parallel to the slab
			if origin < box.Min[axis] || origin > box.Max[axis] {
				return -1, false
			}
			continue
		}

		t1 := (box.Min[axis] - origin) / dir
		t2 := (box.Max[axis] - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return -1, false
		}
	}

	if tMin > 0 {
		return tMin, true
	}
	return tMax, tMax >= 0
}
