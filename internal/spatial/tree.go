package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

const (
	// DefaultMaxDepth is the deepest level a node may split to
	DefaultMaxDepth = 8
	// DefaultMaxTrianglesPerNode defines when to split a node
	DefaultMaxTrianglesPerNode = 10
)

// Option configures a tree
type Option func(*options)

type options struct {
	maxDepth            int
	maxTrianglesPerNode int
	logger              *zap.Logger
}

// WithMaxDepth limits how deep nodes may split
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxTrianglesPerNode sets the leaf capacity that triggers a split
func WithMaxTrianglesPerNode(n int) Option {
	return func(o *options) {
		o.maxTrianglesPerNode = n
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NodeInfo describes one node during Walk
type NodeInfo struct {
	Bounds    core.BoundingBox
	Depth     int
	Triangles int
	Leaf      bool
}

// Stats summarises the shape of a tree
type Stats struct {
	Nodes     int
	Leaves    int
	Triangles int
	MaxDepth  int
}

// node is either a leaf (children == nil) holding triangles directly, or an
// internal node whose children cover its bounds. Internal nodes still hold the
// triangles that straddle their children.
type node struct {
	bounds    core.BoundingBox
	triangles []core.Triangle
	children  []*node
	depth     int
}

// tree holds the machinery shared by QuadTree and Octree. They only differ in
// fanout and how a node's bounds are subdivided.
type tree struct {
	kind                string
	bounds              core.BoundingBox
	extent              core.BoundingBox // bounds grown by triangles kept outside them
	root                *node
	fanout              int
	subdivide           func(core.BoundingBox, int) core.BoundingBox
	maxDepth            int
	maxTrianglesPerNode int
	logger              *zap.Logger
}

func newTree(kind string, bounds core.BoundingBox, fanout int, subdivide func(core.BoundingBox, int) core.BoundingBox, opts []Option) tree {
	o := options{
		maxDepth:            DefaultMaxDepth,
		maxTrianglesPerNode: DefaultMaxTrianglesPerNode,
		logger:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return tree{
		kind:                kind,
		bounds:              bounds,
		extent:              bounds,
		root:                &node{bounds: bounds},
		fanout:              fanout,
		subdivide:           subdivide,
		maxDepth:            o.maxDepth,
		maxTrianglesPerNode: o.maxTrianglesPerNode,
		logger:              o.logger,
	}
}

// Bounds returns the region covered by the root node
func (t *tree) Bounds() core.BoundingBox {
	return t.bounds
}

// MaxDepth returns the configured depth limit
func (t *tree) MaxDepth() int {
	return t.maxDepth
}

// MaxTrianglesPerNode returns the configured leaf capacity
func (t *tree) MaxTrianglesPerNode() int {
	return t.maxTrianglesPerNode
}

// Build discards the current contents and inserts tris
func (t *tree) Build(tris []core.Triangle) {
	t.Clear()
	t.InsertAll(tris)
}

// Insert copies tri into the deepest node that fully contains it. A triangle
// outside the root bounds is kept at the root.
func (t *tree) Insert(tri core.Triangle) {
	if !t.bounds.ContainsTriangle(tri) {
		t.logger.Debug("triangle outside tree bounds, keeping at root",
			zap.String("tree", t.kind),
			zap.Any("bounds", tri.Bounds()))
		t.extent = t.extent.ExpandBox(tri.Bounds())
	}
	t.insert(t.root, tri)
}

// InsertAll inserts every triangle in order
func (t *tree) InsertAll(tris []core.Triangle) {
	for _, tri := range tris {
		t.Insert(tri)
	}
}

// Clear removes every triangle and collapses the tree to a single leaf
func (t *tree) Clear() {
	t.root = &node{bounds: t.bounds}
	t.extent = t.bounds
}

// Rebuild re-inserts every triangle into a fresh tree. Nodes never merge back
// on their own, so this is how a tree is compacted.
func (t *tree) Rebuild() {
	t.Build(t.Triangles())
}

// Remove deletes every triangle for which remove returns true and reports how
// many went. Emptied nodes stay in place until the next Rebuild.
func (t *tree) Remove(remove func(core.Triangle) bool) int {
	removed := 0
	t.walk(t.root, func(n *node) {
		kept := n.triangles[:0]
		for _, tri := range n.triangles {
			if remove(tri) {
				removed++
				continue
			}
			kept = append(kept, tri)
		}
		n.triangles = kept
	})
	return removed
}

// QueryBox returns the triangles of every node whose bounds overlap box
func (t *tree) QueryBox(box core.BoundingBox) []*core.Triangle {
	return t.query(box.Intersects)
}

// QueryPoint returns the triangles of every node overlapping the cube of half
// size radius centred on point
func (t *tree) QueryPoint(point mgl64.Vec3, radius float64) []*core.Triangle {
	return t.QueryBox(core.NewBoundingBox(point, point).Grow(radius))
}

// QuerySphere returns the triangles of every node the sphere touches
func (t *tree) QuerySphere(center mgl64.Vec3, radius float64) []*core.Triangle {
	return t.query(func(b core.BoundingBox) bool {
		return b.IntersectsSphere(center, radius)
	})
}

// QueryRay approximates the ray segment [0, maxDistance] by its bounding box
func (t *tree) QueryRay(ray core.Ray, maxDistance float64) []*core.Triangle {
	return t.QueryBox(ray.Bounds(maxDistance))
}

// Triangles returns a copy of every stored triangle, node before children
func (t *tree) Triangles() []core.Triangle {
	var tris []core.Triangle
	t.walk(t.root, func(n *node) {
		tris = append(tris, n.triangles...)
	})
	return tris
}

// TriangleCount returns the number of stored triangles
func (t *tree) TriangleCount() int {
	return t.Stats().Triangles
}

// NodeCount returns the number of nodes, root included
func (t *tree) NodeCount() int {
	return t.Stats().Nodes
}

// LeafCount returns the number of nodes without children
func (t *tree) LeafCount() int {
	return t.Stats().Leaves
}

// Depth returns the depth of the deepest node; a lone root is depth 0
func (t *tree) Depth() int {
	return t.Stats().MaxDepth
}

// Stats walks the tree once and summarises it
func (t *tree) Stats() Stats {
	var s Stats
	t.walk(t.root, func(n *node) {
		s.Nodes++
		s.Triangles += len(n.triangles)
		if n.children == nil {
			s.Leaves++
		}
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
	})
	return s
}

// Walk visits every node depth first, parents before children
func (t *tree) Walk(fn func(NodeInfo)) {
	t.walk(t.root, func(n *node) {
		fn(NodeInfo{
			Bounds:    n.bounds,
			Depth:     n.depth,
			Triangles: len(n.triangles),
			Leaf:      n.children == nil,
		})
	})
}

func (t *tree) walk(n *node, fn func(*node)) {
	fn(n)
	for _, child := range n.children {
		t.walk(child, fn)
	}
}

// insert adds a triangle to this node or its children
func (t *tree) insert(n *node, tri core.Triangle) {
	// If this node has children, try to insert into appropriate child
	if n.children != nil {
		if i := n.childIndex(tri); i != -1 {
			t.insert(n.children[i], tri)
			return
		}
	}

	n.triangles = append(n.triangles, tri)

	if n.children == nil && len(n.triangles) > t.maxTrianglesPerNode && n.depth < t.maxDepth {
		t.split(n)
	}
}

// split subdivides a leaf and moves every triangle that fits a child into it.
// Children receive triangles by plain append and do not split in turn; they
// split on their next insert.
func (t *tree) split(n *node) {
	if n.bounds.IsDegenerate() {
		// Every child would be the same point, nothing can move down.
		t.logger.Debug("refusing to split degenerate node",
			zap.String("tree", t.kind),
			zap.Int("depth", n.depth))
		return
	}

	n.children = make([]*node, t.fanout)
	for i := range n.children {
		n.children[i] = &node{
			bounds: t.subdivide(n.bounds, i),
			depth:  n.depth + 1,
		}
	}

	// Redistribute triangles
	kept := make([]core.Triangle, 0, len(n.triangles))
	for _, tri := range n.triangles {
		if i := n.childIndex(tri); i != -1 {
			child := n.children[i]
			child.triangles = append(child.triangles, tri)
		} else {
			kept = append(kept, tri)
		}
	}
	n.triangles = kept

	t.logger.Debug("split node",
		zap.String("tree", t.kind),
		zap.Int("depth", n.depth),
		zap.Int("kept", len(kept)))
}

// childIndex returns the first child that fully contains tri, or -1
func (n *node) childIndex(tri core.Triangle) int {
	for i, child := range n.children {
		if child.bounds.ContainsTriangle(tri) {
			return i
		}
	}
	return -1
}

// query collects triangles from every node accepted by overlaps. The root is
// tested against the extent so triangles kept outside the bounds are still found.
func (t *tree) query(overlaps func(core.BoundingBox) bool) []*core.Triangle {
	var results []*core.Triangle
	if !overlaps(t.extent) {
		return results
	}

	t.collect(t.root, overlaps, &results, true)
	return results
}

func (t *tree) collect(n *node, overlaps func(core.BoundingBox) bool, results *[]*core.Triangle, isRoot bool) {
	if !isRoot && !overlaps(n.bounds) {
		return
	}

	for i := range n.triangles {
		*results = append(*results, &n.triangles[i])
	}

	for _, child := range n.children {
		t.collect(child, overlaps, results, false)
	}
}
