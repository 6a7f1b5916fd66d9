package phoenix

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
	"github.com/akadjoker/Phoenix-sub001/internal/spatial"
)

func testConfig(index IndexType) *Config {
	cfg := DefaultConfig()
	cfg.Bounds = BoundsConfig{Min: mgl64.Vec3{-64, -64, -64}, Max: mgl64.Vec3{64, 64, 64}}
	cfg.Index = index
	cfg.MaxTrianglesPerNode = 4
	cfg.Workers = 4
	return cfg
}

// arena is a floor with a few crates on it
func arena() []core.Triangle {
	tris := GridFloor(mgl64.Vec3{}, 16, 2)
	return append(tris, BoxesTriangles([]core.BoundingBox{
		NewBox(mgl64.Vec3{4, 1, 4}, mgl64.Vec3{2, 2, 2}),
		NewBox(mgl64.Vec3{-6, 2, 3}, mgl64.Vec3{2, 4, 2}),
		NewBox(mgl64.Vec3{0, 1, -8}, mgl64.Vec3{6, 2, 1}),
	})...)
}

func newTestWorld(t *testing.T, index IndexType) *World {
	t.Helper()
	w, err := NewWorld(testConfig(index), zaptest.NewLogger(t))
	require.NoError(t, err)
	w.AddTriangles(arena()...)
	return w
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index = "grid"
	_, err := NewWorld(cfg, nil)
	require.Error(t, err)

	w, err := NewWorld(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), w.Config())
}

func TestWorldSlide(t *testing.T) {
	for _, index := range []IndexType{IndexOctree, IndexQuadTree} {
		t.Run(string(index), func(t *testing.T) {
			w := newTestWorld(t, index)

			res := w.Slide(Mover{
				ID:       "player",
				Position: mgl64.Vec3{-2, 5, -2},
				Velocity: mgl64.Vec3{1, 0, 0},
				Radius:   mgl64.Vec3{0.5, 1, 0.5},
				Gravity:  mgl64.Vec3{0, -10, 0},
			})
			assert.Equal(t, "player", res.ID)
			assert.True(t, res.Grounded)
			assert.InDelta(t, 1.0, res.Position.Y(), 0.01)
			assert.InDelta(t, -1.0, res.Position.X(), 1e-6)

			// Walking into the crate at x in [3, 5] stops at its face
			res = w.Slide(Mover{
				Position: mgl64.Vec3{0, 1.001, 4},
				Velocity: mgl64.Vec3{5, 0, 0},
				Radius:   mgl64.Vec3{0.5, 1, 0.5},
				Gravity:  mgl64.Vec3{0, -1, 0},
			})
			assert.True(t, res.Grounded)
			assert.InDelta(t, 2.5, res.Position.X(), 0.01)
			assert.LessOrEqual(t, res.Position.X(), 2.5)
		})
	}
}

func TestWorldSlideAllMatchesSlide(t *testing.T) {
	w := newTestWorld(t, IndexOctree)

	movers := make([]Mover, 64)
	for i := range movers {
		angle := float64(i) / float64(len(movers)) * 2 * math.Pi
		movers[i] = Mover{
			ID:       fmt.Sprintf("m%d", i),
			Position: mgl64.Vec3{0, 3, 0},
			Velocity: mgl64.Vec3{8 * math.Cos(angle), -1, 8 * math.Sin(angle)},
			Radius:   mgl64.Vec3{0.5, 1, 0.5},
			Gravity:  mgl64.Vec3{0, -2, 0},
		}
	}

	results, err := w.SlideAll(context.Background(), movers)
	require.NoError(t, err)
	require.Len(t, results, len(movers))
	for i, m := range movers {
		assert.Equal(t, w.Slide(m), results[i], "mover %s", m.ID)
	}
}

func TestWorldSlideAllCancelled(t *testing.T) {
	w := newTestWorld(t, IndexOctree)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.SlideAll(ctx, []Mover{{Radius: mgl64.Vec3{1, 1, 1}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorldCasts(t *testing.T) {
	w := newTestWorld(t, IndexOctree)

	hit := w.RayCast(mgl64.Vec3{4.3, 10, 4.6}, mgl64.Vec3{0, -1, 0}, 100)
	require.True(t, hit.Hit)
	assert.InDelta(t, 8.0, hit.Distance, 1e-9)
	assert.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{0, 1, 0}))

	hit = w.SphereCast(mgl64.Vec3{-9.5, 1.5, 3.3}, mgl64.Vec3{1, 0, 0}, 0.5, 20)
	require.True(t, hit.Hit)
	assert.InDelta(t, 2.0, hit.Distance, 1e-9)
	assert.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{-1, 0, 0}))

	assert.True(t, w.PointInside(mgl64.Vec3{4.1, 0.6, 3.7}))
	assert.False(t, w.PointInside(mgl64.Vec3{1.1, 0.6, 0.7}))
}

func TestWorldRemoveTriangles(t *testing.T) {
	for _, index := range []IndexType{IndexOctree, IndexQuadTree} {
		t.Run(string(index), func(t *testing.T) {
			w := newTestWorld(t, index)
			crate := NewBox(mgl64.Vec3{4, 1, 4}, mgl64.Vec3{2, 2, 2})

			removed := w.RemoveTriangles(func(tri core.Triangle) bool {
				return crate.ContainsBox(tri.Bounds())
			})
			assert.Equal(t, 12, removed)
			assert.Equal(t, len(arena())-12, w.Stats().Triangles)
			assert.Empty(t, w.QueryBox(NewBox(mgl64.Vec3{4, 1.5, 4}, mgl64.Vec3{1, 1, 1})))

			// The ray that used to stop on the crate top now reaches the floor
			hit := w.RayCast(mgl64.Vec3{4.3, 10, 4.6}, mgl64.Vec3{0, -1, 0}, 100)
			require.True(t, hit.Hit)
			assert.InDelta(t, 10.0, hit.Distance, 1e-9)

			res := w.Slide(Mover{
				Position: mgl64.Vec3{0, 1.001, 4},
				Velocity: mgl64.Vec3{5, 0, 0},
				Radius:   mgl64.Vec3{0.5, 1, 0.5},
				Gravity:  mgl64.Vec3{0, -1, 0},
			})
			assert.InDelta(t, 5.0, res.Position.X(), 0.01)

			w.AddTriangles(BoxTriangles(crate)...)
			hit = w.RayCast(mgl64.Vec3{4.3, 10, 4.6}, mgl64.Vec3{0, -1, 0}, 100)
			require.True(t, hit.Hit)
			assert.InDelta(t, 8.0, hit.Distance, 1e-9)
		})
	}
}

func TestWorldQueries(t *testing.T) {
	for _, index := range []IndexType{IndexOctree, IndexQuadTree} {
		t.Run(string(index), func(t *testing.T) {
			w := newTestWorld(t, index)
			all := w.Triangles()
			require.Len(t, all, len(arena()))

			box := NewBox(mgl64.Vec3{4, 1, 4}, mgl64.Vec3{3, 1, 3})
			got := w.QueryBox(box)
			assert.ElementsMatch(t, bruteForce(all, func(tri core.Triangle) bool {
				return box.Intersects(tri.Bounds())
			}), got)
			assert.NotEmpty(t, got)

			center := mgl64.Vec3{-6, 4.5, 3}
			got = w.QuerySphere(center, 1)
			assert.ElementsMatch(t, bruteForce(all, func(tri core.Triangle) bool {
				return tri.ClosestPoint(center).Sub(center).Len() <= 1
			}), got)
			assert.Len(t, got, 2) // top of the tall crate

			frustum := PerspectiveFrustum(mgl64.Vec3{0, 20, 30}, mgl64.Vec3{0, 20, 60}, 60, 1, 0.1, 100)
			assert.Empty(t, w.QueryFrustum(frustum))

			frustum = PerspectiveFrustum(mgl64.Vec3{0, 20, 30}, mgl64.Vec3{}, 60, 1, 0.1, 100)
			assert.ElementsMatch(t, bruteForce(all, func(tri core.Triangle) bool {
				return frustum.IntersectsAABB(tri.Bounds())
			}), w.QueryFrustum(frustum))
		})
	}
}

func TestWorldStatsRebuildClear(t *testing.T) {
	w := newTestWorld(t, IndexOctree)
	count := len(arena())

	stats := w.Stats()
	assert.Equal(t, IndexOctree, stats.Index)
	assert.Equal(t, count, stats.Triangles)
	assert.Greater(t, stats.Nodes, 1)

	nodes := 0
	w.Walk(func(spatial.NodeInfo) { nodes++ })
	assert.Equal(t, stats.Nodes, nodes)

	w.Rebuild()
	assert.Equal(t, count, w.Stats().Triangles)

	w.SetTriangles(GridFloor(mgl64.Vec3{}, 2, 1))
	assert.Equal(t, 8, w.Stats().Triangles)

	w.Clear()
	stats = w.Stats()
	assert.Zero(t, stats.Triangles)
	assert.Equal(t, 1, stats.Nodes)

	res := w.Slide(Mover{Position: mgl64.Vec3{0, 1, 0}, Velocity: mgl64.Vec3{0, -5, 0}, Radius: mgl64.Vec3{1, 1, 1}})
	assert.Equal(t, mgl64.Vec3{0, -4, 0}, res.Position)
}

func bruteForce(tris []core.Triangle, keep func(core.Triangle) bool) []core.Triangle {
	var out []core.Triangle
	for _, tri := range tris {
		if keep(tri) {
			out = append(out, tri)
		}
	}
	return out
}
