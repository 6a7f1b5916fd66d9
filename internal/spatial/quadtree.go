package spatial

import "github.com/akadjoker/Phoenix-sub001/internal/core"

// QuadTree partitions triangles over the X/Z plane. Every node keeps the full
// Y span of the tree, which suits terrain and single-storey levels.
type QuadTree struct {
	tree
}

// NewQuadTree creates an empty quadtree covering bounds
func NewQuadTree(bounds core.BoundingBox, opts ...Option) *QuadTree {
	return &QuadTree{
		tree: newTree("quadtree", bounds, 4, core.BoundingBox.Quadrant, opts),
	}
}

var _ core.SpatialIndex = (*QuadTree)(nil)
