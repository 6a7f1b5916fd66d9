package phoenix

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

// Geometry helpers

// NewBox creates a box from its center and full size
func NewBox(center, size mgl64.Vec3) core.BoundingBox {
	return core.NewBoundingBoxFromCenter(center, size)
}

// QuadTriangles splits the planar quad a b c d into two triangles sharing the
// a-c diagonal. The winding of the quad is kept.
func QuadTriangles(a, b, c, d mgl64.Vec3) []core.Triangle {
	return []core.Triangle{
		core.NewTriangle(a, b, c),
		core.NewTriangle(a, c, d),
	}
}

// boxFaces lists the corners of each box face, indexed as in
// core.BoundingBox.Corners, wound so the face normal points out of the box
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// BoxTriangles returns the 12 outward facing triangles of a closed box
func BoxTriangles(box core.BoundingBox) []core.Triangle {
	corners := box.Corners()
	return lo.FlatMap(boxFaces[:], func(face [4]int, _ int) []core.Triangle {
		return QuadTriangles(corners[face[0]], corners[face[1]], corners[face[2]], corners[face[3]])
	})
}

// GridFloor returns an upward facing square floor of cells x cells quads of
// the given size, centred on center
func GridFloor(center mgl64.Vec3, cells int, cellSize float64) []core.Triangle {
	if cells <= 0 || cellSize <= 0 {
		return nil
	}
	half := float64(cells) * cellSize / 2
	origin := center.Sub(mgl64.Vec3{half, 0, half})

	return lo.FlatMap(lo.Range(cells*cells), func(i int, _ int) []core.Triangle {
		x0 := origin.X() + float64(i%cells)*cellSize
		z0 := origin.Z() + float64(i/cells)*cellSize
		x1, z1 := x0+cellSize, z0+cellSize
		y := center.Y()
		return QuadTriangles(
			mgl64.Vec3{x0, y, z0},
			mgl64.Vec3{x0, y, z1},
			mgl64.Vec3{x1, y, z1},
			mgl64.Vec3{x1, y, z0},
		)
	})
}

// BoxesTriangles flattens several boxes into one triangle list
func BoxesTriangles(boxes []core.BoundingBox) []core.Triangle {
	return lo.FlatMap(boxes, func(box core.BoundingBox, _ int) []core.Triangle {
		return BoxTriangles(box)
	})
}

// PerspectiveFrustum builds a camera frustum looking from eye towards center.
// fovy is in degrees.
func PerspectiveFrustum(eye, center mgl64.Vec3, fovy, aspect, near, far float64) core.Frustum {
	return core.NewPerspectiveFrustum(eye, center, mgl64.Vec3{0, 1, 0}, mgl64.DegToRad(fovy), aspect, near, far)
}
