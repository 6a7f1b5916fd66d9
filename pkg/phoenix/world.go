package phoenix

import (
	"context"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/akadjoker/Phoenix-sub001/internal/collision"
	"github.com/akadjoker/Phoenix-sub001/internal/core"
	"github.com/akadjoker/Phoenix-sub001/internal/spatial"
)

// index is what a World needs from its broad-phase tree
type index interface {
	core.SpatialIndex
	Build(tris []core.Triangle)
	Stats() spatial.Stats
	Walk(fn func(spatial.NodeInfo))
}

// Mover is one ellipsoid to slide through the world
type Mover struct {
	ID       string     `yaml:"id"`
	Position mgl64.Vec3 `yaml:"position"`
	Velocity mgl64.Vec3 `yaml:"velocity"`
	Radius   mgl64.Vec3 `yaml:"radius"`
	Gravity  mgl64.Vec3 `yaml:"gravity"`
}

// SlideResult is where a Mover ended up
type SlideResult struct {
	ID       string
	Position mgl64.Vec3
	Grounded bool
}

// Stats describes the geometry held by a World
type Stats struct {
	Index  IndexType
	Bounds core.BoundingBox
	spatial.Stats
}

// World owns collision geometry and answers movement and visibility queries
// against it. The broad-phase tree is the only copy of the geometry; the
// collision system reads its candidates from it. A World is safe for
// concurrent use: mutations are exclusive, queries run in parallel.
type World struct {
	mu     sync.RWMutex
	cfg    *Config
	index  index
	octree *spatial.Octree
	system *collision.System
	logger *zap.Logger
}

// NewWorld creates an empty world. A nil cfg uses DefaultConfig and a nil
// logger disables logging.
func NewWorld(cfg *Config, logger *zap.Logger) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	treeOpts := []spatial.Option{
		spatial.WithMaxDepth(cfg.MaxDepth),
		spatial.WithMaxTrianglesPerNode(cfg.MaxTrianglesPerNode),
		spatial.WithLogger(logger.Named("spatial")),
	}

	w := &World{
		cfg:    cfg,
		logger: logger,
	}
	switch cfg.Index {
	case IndexQuadTree:
		w.index = spatial.NewQuadTree(cfg.Bounds.Box(), treeOpts...)
	default:
		w.octree = spatial.NewOctree(cfg.Bounds.Box(), treeOpts...)
		w.index = w.octree
	}

	w.system = collision.NewSystem(
		collision.WithBroadphase(w.index),
		collision.WithSlidingSpeed(cfg.SlidingSpeed),
		collision.WithMaxRecursionDepth(cfg.MaxRecursionDepth),
		collision.WithLogger(logger.Named("collision")),
	)

	logger.Debug("world created",
		zap.String("index", string(cfg.Index)),
		zap.Float64s("min", cfg.Bounds.Min[:]),
		zap.Float64s("max", cfg.Bounds.Max[:]))
	return w, nil
}

// Config returns the configuration the world was built with
func (w *World) Config() Config {
	return *w.cfg
}

// AddTriangles inserts geometry into the world
func (w *World) AddTriangles(tris ...core.Triangle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.system.AddTriangles(tris)
	w.logger.Debug("triangles added",
		zap.Int("added", len(tris)),
		zap.Int("total", w.index.TriangleCount()))
}

// RemoveTriangles deletes every triangle for which remove returns true and
// reports how many were removed. Call Rebuild to compact the tree afterwards.
func (w *World) RemoveTriangles(remove func(core.Triangle) bool) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := w.system.RemoveTriangleFunc(remove)
	w.logger.Debug("triangles removed",
		zap.Int("removed", removed),
		zap.Int("total", w.index.TriangleCount()))
	return removed
}

// SetTriangles replaces all geometry
func (w *World) SetTriangles(tris []core.Triangle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.index.Build(tris)
}

// Clear removes all geometry
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.index.Clear()
}

// Rebuild compacts the broad-phase tree
func (w *World) Rebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.index.Rebuild()
}

// Triangles returns a copy of all geometry
func (w *World) Triangles() []core.Triangle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.index.Triangles()
}

// Slide moves one ellipsoid through the world
func (w *World) Slide(m Mover) SlideResult {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.slide(m)
}

func (w *World) slide(m Mover) SlideResult {
	pos, grounded := w.system.CollideAndSlide(m.Position, m.Velocity, m.Radius, m.Gravity)
	return SlideResult{ID: m.ID, Position: pos, Grounded: grounded}
}

// SlideAll slides every mover concurrently, using at most Config.Workers
// goroutines. Results are in the order of movers. Geometry cannot change
// while the batch runs.
func (w *World) SlideAll(ctx context.Context, movers []Mover) ([]SlideResult, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	results := make([]SlideResult, len(movers))
	g, gctx := errgroup.WithContext(ctx)
	if w.cfg.Workers > 0 {
		g.SetLimit(w.cfg.Workers)
	}

	for i, m := range movers {
		if gctx.Err() != nil {
			break
		}
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = w.slide(m)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "sliding movers")
	}
	// gctx is always done once Wait returns; only the caller's context tells
	// whether the batch was cut short.
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "sliding movers")
	}
	return results, nil
}

// RayCast returns the nearest surface hit by a ray. The returned triangle
// pointer is only valid until the geometry changes.
func (w *World) RayCast(origin, direction mgl64.Vec3, maxDistance float64) collision.Info {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.system.RayCast(origin, direction, maxDistance)
}

// SphereCast sweeps a sphere and returns its first contact. The returned
// triangle pointer is only valid until the geometry changes.
func (w *World) SphereCast(origin, direction mgl64.Vec3, radius, maxDistance float64) collision.Info {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.system.SphereCast(origin, direction, radius, maxDistance)
}

// PointInside reports whether point is enclosed by closed geometry
func (w *World) PointInside(point mgl64.Vec3) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.system.PointInside(point)
}

// QueryBox returns the triangles whose bounds overlap box
func (w *World) QueryBox(box core.BoundingBox) []core.Triangle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return filterTriangles(w.index.QueryBox(box), func(tri core.Triangle) bool {
		return box.Intersects(tri.Bounds())
	})
}

// QuerySphere returns the triangles within radius of center
func (w *World) QuerySphere(center mgl64.Vec3, radius float64) []core.Triangle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return filterTriangles(w.index.QuerySphere(center, radius), func(tri core.Triangle) bool {
		return tri.ClosestPoint(center).Sub(center).LenSqr() <= radius*radius
	})
}

// QueryFrustum returns the triangles whose bounds the frustum may see
func (w *World) QueryFrustum(frustum core.Frustum) []core.Triangle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	visible := func(tri core.Triangle) bool {
		return frustum.IntersectsAABB(tri.Bounds())
	}
	if w.octree != nil {
		return filterTriangles(w.octree.QueryFrustum(frustum), visible)
	}
	return lo.Filter(w.index.Triangles(), func(tri core.Triangle, _ int) bool {
		return visible(tri)
	})
}

// Stats describes the current broad-phase tree
func (w *World) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Stats{
		Index:  w.cfg.Index,
		Bounds: w.index.Bounds(),
		Stats:  w.index.Stats(),
	}
}

// Walk visits every node of the broad-phase tree
func (w *World) Walk(fn func(spatial.NodeInfo)) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	w.index.Walk(fn)
}

// filterTriangles copies the candidates that pass keep, so results stay valid
// after the lock is released
func filterTriangles(candidates []*core.Triangle, keep func(core.Triangle) bool) []core.Triangle {
	return lo.FilterMap(candidates, func(tri *core.Triangle, _ int) (core.Triangle, bool) {
		return *tri, keep(*tri)
	})
}
