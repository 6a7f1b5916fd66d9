package spatial

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

func worldBounds() core.BoundingBox {
	return core.NewBoundingBox(mgl64.Vec3{-50, -50, -50}, mgl64.Vec3{50, 50, 50})
}

// smallTriangle returns a triangle of edge size at p
func smallTriangle(p mgl64.Vec3, size float64) core.Triangle {
	return core.NewTriangle(p, p.Add(mgl64.Vec3{size, 0, 0}), p.Add(mgl64.Vec3{0, 0, size}))
}

// scatter returns n small triangles spread evenly at random through bounds
func scatter(n int, seed int64, bounds core.BoundingBox) []core.Triangle {
	rng := rand.New(rand.NewSource(seed))
	size := bounds.Size()
	tris := make([]core.Triangle, 0, n)
	for i := 0; i < n; i++ {
		p := mgl64.Vec3{
			bounds.Min[0] + rng.Float64()*(size[0]-1),
			bounds.Min[1] + rng.Float64()*(size[1]-1),
			bounds.Min[2] + rng.Float64()*(size[2]-1),
		}
		tris = append(tris, smallTriangle(p, 0.5))
	}
	return tris
}

func toSet(tris []*core.Triangle) map[core.Triangle]int {
	set := make(map[core.Triangle]int, len(tris))
	for _, t := range tris {
		set[*t]++
	}
	return set
}

func TestTreeSplitThreshold(t *testing.T) {
	tests := []struct {
		name   string
		index  interface {
			core.SpatialIndex
			LeafCount() int
			Depth() int
		}
		fanout int
	}{
		{"quadtree", NewQuadTree(worldBounds()), 4},
		{"octree", NewOctree(worldBounds()), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// All in the +X +Y +Z corner, away from any split plane
			for i := 0; i < DefaultMaxTrianglesPerNode; i++ {
				tt.index.Insert(smallTriangle(mgl64.Vec3{10 + float64(i), 10, 10}, 0.5))
			}
			require.Equal(t, 1, tt.index.NodeCount(), "still a leaf at capacity")

			tt.index.Insert(smallTriangle(mgl64.Vec3{25, 10, 10}, 0.5))
			assert.Equal(t, 1+tt.fanout, tt.index.NodeCount())
			assert.Equal(t, tt.fanout, tt.index.LeafCount())
			assert.Equal(t, 1, tt.index.Depth())
			assert.Equal(t, DefaultMaxTrianglesPerNode+1, tt.index.TriangleCount())
		})
	}
}

func TestTreeStraddlersStayAtParent(t *testing.T) {
	ot := NewOctree(worldBounds(), WithMaxTrianglesPerNode(2))

	// Crosses the X=0 split plane
	straddler := core.NewTriangle(mgl64.Vec3{-1, 5, 5}, mgl64.Vec3{1, 5, 5}, mgl64.Vec3{0, 6, 5})
	ot.Insert(straddler)
	ot.Insert(smallTriangle(mgl64.Vec3{10, 10, 10}, 1))
	ot.Insert(smallTriangle(mgl64.Vec3{-10, -10, -10}, 1))

	require.Equal(t, 9, ot.NodeCount())

	var rootTriangles int
	ot.Walk(func(info NodeInfo) {
		if info.Depth == 0 {
			rootTriangles = info.Triangles
		}
	})
	assert.Equal(t, 1, rootTriangles)

	// A query deep inside one octant still reaches the straddler held by the root.
	results := ot.QueryBox(core.NewBoundingBoxFromCenter(mgl64.Vec3{30, 30, 30}, mgl64.Vec3{1, 1, 1}))
	assert.Contains(t, toSet(results), straddler)
}

func TestTreeQueriesMatchBruteForce(t *testing.T) {
	tris := scatter(500, 42, worldBounds())
	ot := NewOctree(worldBounds())
	ot.Build(tris)
	qt := NewQuadTree(worldBounds())
	qt.Build(tris)

	require.Equal(t, len(tris), ot.TriangleCount())
	require.Equal(t, len(tris), qt.TriangleCount())
	require.Greater(t, ot.NodeCount(), 1)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		center := mgl64.Vec3{rng.Float64()*80 - 40, rng.Float64()*80 - 40, rng.Float64()*80 - 40}
		radius := 2 + rng.Float64()*10
		box := core.NewBoundingBoxFromCenter(center, mgl64.Vec3{radius, radius, radius})

		want := map[core.Triangle]int{}
		wantSphere := map[core.Triangle]int{}
		for _, tri := range tris {
			if box.Intersects(tri.Bounds()) {
				want[tri]++
			}
			if tri.Bounds().IntersectsSphere(center, radius) {
				wantSphere[tri]++
			}
		}

		for name, index := range map[string]core.SpatialIndex{"octree": ot, "quadtree": qt} {
			boxResults := index.QueryBox(box)
			sphereResults := index.QuerySphere(center, radius)

			// Conservative, and no triangle is reported twice.
			got := toSet(boxResults)
			assert.Len(t, got, len(boxResults), name)
			for tri := range want {
				assert.Contains(t, got, tri, name)
			}
			gotSphere := toSet(sphereResults)
			for tri := range wantSphere {
				assert.Contains(t, gotSphere, tri, name)
			}

			// Exact filtering brings the candidates back to the brute force set.
			filtered := map[core.Triangle]int{}
			for _, tri := range boxResults {
				if box.Intersects(tri.Bounds()) {
					filtered[*tri]++
				}
			}
			assert.Equal(t, want, filtered, name)
		}
	}
}

func TestTreePointAndRayQueries(t *testing.T) {
	ot := NewOctree(worldBounds())
	target := smallTriangle(mgl64.Vec3{20, 0, 20}, 1)
	ot.Build(append(scatter(100, 3, core.NewBoundingBox(mgl64.Vec3{-50, -50, -50}, mgl64.Vec3{0, 0, 0})), target))

	assert.Contains(t, toSet(ot.QueryPoint(mgl64.Vec3{20.5, 0, 20.5}, 1)), target)
	assert.NotContains(t, toSet(ot.QueryPoint(mgl64.Vec3{-20, -20, -20}, 1)), target)

	ray := core.NewRay(mgl64.Vec3{20.2, 10, 20.2}, mgl64.Vec3{0, -1, 0})
	assert.Contains(t, toSet(ot.QueryRay(ray, 20)), target)
	assert.NotContains(t, toSet(ot.QueryRay(ray, 5)), target)
}

func TestOctreeFrustumQuery(t *testing.T) {
	ot := NewOctree(worldBounds(), WithMaxTrianglesPerNode(1))

	front := smallTriangle(mgl64.Vec3{0.5, 0.5, 10}, 1)
	behind := smallTriangle(mgl64.Vec3{0.5, 0.5, -10}, 1)
	ot.Build([]core.Triangle{front, behind})

	// Simple box-shaped frustum looking down +Z
	frustum := core.Frustum{Planes: [6]core.Plane{
		{Normal: mgl64.Vec3{1, 0, 0}, D: 10},
		{Normal: mgl64.Vec3{-1, 0, 0}, D: 10},
		{Normal: mgl64.Vec3{0, 1, 0}, D: 10},
		{Normal: mgl64.Vec3{0, -1, 0}, D: 10},
		{Normal: mgl64.Vec3{0, 0, 1}, D: -5},
		{Normal: mgl64.Vec3{0, 0, -1}, D: 20},
	}}

	results := toSet(ot.QueryFrustum(frustum))
	assert.Contains(t, results, front)
	assert.NotContains(t, results, behind)
}

func TestTreeClearAndRebuild(t *testing.T) {
	ot := NewOctree(worldBounds(), WithMaxTrianglesPerNode(4), WithMaxDepth(3))
	tris := scatter(200, 11, worldBounds())
	ot.InsertAll(tris)

	stats := ot.Stats()
	assert.Equal(t, 200, stats.Triangles)
	assert.LessOrEqual(t, stats.MaxDepth, 3)

	before := toSet(ot.QueryBox(worldBounds()))
	ot.Rebuild()
	assert.Equal(t, before, toSet(ot.QueryBox(worldBounds())))
	assert.Equal(t, 200, ot.TriangleCount())

	ot.Clear()
	assert.Equal(t, 0, ot.TriangleCount())
	assert.Equal(t, 1, ot.NodeCount())
	assert.Empty(t, ot.QueryBox(worldBounds()))
}

func TestTreeKeepsOutOfBoundsTrianglesAtRoot(t *testing.T) {
	qt := NewQuadTree(worldBounds())
	outside := smallTriangle(mgl64.Vec3{100, 0, 100}, 1)
	qt.Insert(outside)

	assert.Equal(t, 1, qt.TriangleCount())
	results := qt.QueryBox(core.NewBoundingBoxFromCenter(mgl64.Vec3{100, 0, 100}, mgl64.Vec3{4, 4, 4}))
	assert.Contains(t, toSet(results), outside)
}

func TestTreeDegenerateBoundsNeverSplits(t *testing.T) {
	ot := NewOctree(core.BoundingBox{})
	ot.InsertAll(scatter(50, 5, worldBounds()))

	assert.Equal(t, 1, ot.NodeCount())
	assert.Equal(t, 50, ot.TriangleCount())
	assert.Len(t, ot.QueryBox(worldBounds()), 50)
}

func TestTreeEmptyQueries(t *testing.T) {
	ot := NewOctree(worldBounds())

	assert.Empty(t, ot.QueryBox(worldBounds()))
	assert.Empty(t, ot.QuerySphere(mgl64.Vec3{}, 10))
	assert.Empty(t, ot.QueryRay(core.NewRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}), 10))
	assert.Empty(t, ot.Triangles())
}

func TestTreeRemove(t *testing.T) {
	ot := NewOctree(worldBounds(), WithMaxTrianglesPerNode(4))
	tris := scatter(100, 3, worldBounds())
	ot.InsertAll(tris)
	nodes := ot.NodeCount()

	upper := func(tri core.Triangle) bool { return tri.V0.Y() > 0 }
	var want int
	for _, tri := range tris {
		if !upper(tri) {
			want++
		}
	}

	removed := ot.Remove(upper)
	assert.Equal(t, len(tris)-want, removed)
	assert.Equal(t, want, ot.TriangleCount())
	assert.Equal(t, nodes, ot.NodeCount(), "emptied nodes stay until Rebuild")
	for _, tri := range ot.QueryBox(worldBounds()) {
		assert.LessOrEqual(t, tri.V0.Y(), 0.0)
	}

	assert.Zero(t, ot.Remove(upper))
	ot.Rebuild()
	assert.Equal(t, want, ot.TriangleCount())
	assert.LessOrEqual(t, ot.NodeCount(), nodes)
}
