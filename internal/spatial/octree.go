package spatial

import "github.com/akadjoker/Phoenix-sub001/internal/core"

// Octree partitions triangles over all three axes into eight equal octants
type Octree struct {
	tree
}

// NewOctree creates an empty octree covering bounds
func NewOctree(bounds core.BoundingBox, opts ...Option) *Octree {
	return &Octree{
		tree: newTree("octree", bounds, 8, core.BoundingBox.Octant, opts),
	}
}

// QueryFrustum returns the triangles of every node the view frustum may see
func (ot *Octree) QueryFrustum(frustum core.Frustum) []*core.Triangle {
	return ot.query(frustum.IntersectsAABB)
}

var _ core.SpatialIndex = (*Octree)(nil)
