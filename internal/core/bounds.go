package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned box. The zero value is a point box at the
// origin, not an empty box: expanding it always keeps the origin inside. Use
// NewBoundingBoxFromPoints to start from real geometry.
type BoundingBox struct {
	Min, Max mgl64.Vec3
}

// NewBoundingBox creates a box from its corners
func NewBoundingBox(min, max mgl64.Vec3) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// NewBoundingBoxFromCenter creates a box from its center and full size
func NewBoundingBoxFromCenter(center, size mgl64.Vec3) BoundingBox {
	half := size.Mul(0.5)
	return BoundingBox{Min: center.Sub(half), Max: center.Add(half)}
}

// NewBoundingBoxFromPoints returns the tight box around points. No points
// gives the zero box.
func NewBoundingBoxFromPoints(points ...mgl64.Vec3) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Expand(p)
	}
	return b
}

// NewBoundingBoxFromTriangles returns the tight box around every vertex
func NewBoundingBoxFromTriangles(tris []Triangle) BoundingBox {
	if len(tris) == 0 {
		return BoundingBox{}
	}
	b := tris[0].Bounds()
	for _, t := range tris[1:] {
		b = b.ExpandBox(t.Bounds())
	}
	return b
}

// Expand grows the box to include point
func (b BoundingBox) Expand(point mgl64.Vec3) BoundingBox {
	return BoundingBox{Min: minVec(b.Min, point), Max: maxVec(b.Max, point)}
}

// ExpandBox grows the box to include other
func (b BoundingBox) ExpandBox(other BoundingBox) BoundingBox {
	return BoundingBox{Min: minVec(b.Min, other.Min), Max: maxVec(b.Max, other.Max)}
}

// Grow pads every side of the box by amount
func (b BoundingBox) Grow(amount float64) BoundingBox {
	pad := mgl64.Vec3{amount, amount, amount}
	return BoundingBox{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

func (b BoundingBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BoundingBox) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) HalfExtents() mgl64.Vec3 {
	return b.Size().Mul(0.5)
}

func (b BoundingBox) Volume() float64 {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// IsDegenerate reports whether the box has no extent on every axis it would
// need to subdivide, i.e. all corners coincide.
func (b BoundingBox) IsDegenerate() bool {
	s := b.Size()
	return s[0] <= 0 && s[1] <= 0 && s[2] <= 0
}

// ContainsPoint reports whether point lies inside the box (faces included)
func (b BoundingBox) ContainsPoint(point mgl64.Vec3) bool {
	return point[0] >= b.Min[0] && point[0] <= b.Max[0] &&
		point[1] >= b.Min[1] && point[1] <= b.Max[1] &&
		point[2] >= b.Min[2] && point[2] <= b.Max[2]
}

// ContainsBox reports whether other lies completely inside the box
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	return b.ContainsPoint(other.Min) && b.ContainsPoint(other.Max)
}

// ContainsTriangle reports whether all three vertices lie inside the box.
// Intersection is not enough.
func (b BoundingBox) ContainsTriangle(t Triangle) bool {
	return b.ContainsPoint(t.V0) && b.ContainsPoint(t.V1) && b.ContainsPoint(t.V2)
}

// Intersects checks if two boxes overlap. Touching faces count, so flat boxes
// (a floor triangle's bounds) still intersect the volume they lie in.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.Min[0] <= other.Max[0] && b.Max[0] >= other.Min[0] &&
		b.Min[1] <= other.Max[1] && b.Max[1] >= other.Min[1] &&
		b.Min[2] <= other.Max[2] && b.Max[2] >= other.Min[2]
}

// ClosestPoint clamps point into the box
func (b BoundingBox) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(point[0], b.Min[0], b.Max[0]),
		mgl64.Clamp(point[1], b.Min[1], b.Max[1]),
		mgl64.Clamp(point[2], b.Min[2], b.Max[2]),
	}
}

// IntersectsSphere checks the distance from center to the closest point of the box
func (b BoundingBox) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	return b.ClosestPoint(center).Sub(center).LenSqr() <= radius*radius
}

// DistanceToPoint returns zero for points inside the box
func (b BoundingBox) DistanceToPoint(point mgl64.Vec3) float64 {
	return math.Sqrt(b.ClosestPoint(point).Sub(point).LenSqr())
}

// Octant returns one of the eight equal sub-boxes split at the center. Bit 0
// of i selects the upper X half, bit 1 the upper Y half, bit 2 the upper Z half.
func (b BoundingBox) Octant(i int) BoundingBox {
	c := b.Center()
	child := BoundingBox{Min: b.Min, Max: c}
	for axis := 0; axis < 3; axis++ {
		if i&(1<<axis) != 0 {
			child.Min[axis] = c[axis]
			child.Max[axis] = b.Max[axis]
		}
	}
	return child
}

// Quadrant returns one of the four sub-boxes split at the center over X and Z.
// The Y span is kept whole. Bit 0 selects the upper X half, bit 1 the upper Z half.
func (b BoundingBox) Quadrant(i int) BoundingBox {
	c := b.Center()
	child := b
	if i&1 != 0 {
		child.Min[0] = c[0]
	} else {
		child.Max[0] = c[0]
	}
	if i&2 != 0 {
		child.Min[2] = c[2]
	} else {
		child.Max[2] = c[2]
	}
	return child
}

// Corners returns the eight corners of the box
func (b BoundingBox) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := range corners {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				corners[i][axis] = b.Max[axis]
			} else {
				corners[i][axis] = b.Min[axis]
			}
		}
	}
	return corners
}
