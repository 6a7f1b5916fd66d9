package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

// System resolves ellipsoid movement against triangle geometry. Triangles live
// either in the system's own list or, when a broad-phase index is attached, in
// that index; the feed methods edit whichever is in use. It does no locking:
// callers serialize mutation against queries.
type System struct {
	triangles         []core.Triangle
	broadphase        core.SpatialIndex
	logger            *zap.Logger
	slidingSpeed      float64
	maxRecursionDepth int
}

// Option configures a System
type Option func(*System)

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

// WithBroadphase makes the system read its triangles from index
func WithBroadphase(index core.SpatialIndex) Option {
	return func(s *System) {
		s.broadphase = index
	}
}

// WithSlidingSpeed sets the surface distance used by packets the system creates
func WithSlidingSpeed(speed float64) Option {
	return func(s *System) {
		s.slidingSpeed = speed
	}
}

// WithMaxRecursionDepth sets the iteration limit used by packets the system creates
func WithMaxRecursionDepth(depth int) Option {
	return func(s *System) {
		s.maxRecursionDepth = depth
	}
}

// NewSystem creates an empty collision system
func NewSystem(opts ...Option) *System {
	s := &System{
		logger:            zap.NewNop(),
		slidingSpeed:      DefaultSlidingSpeed,
		maxRecursionDepth: DefaultMaxRecursionDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBroadphase attaches an index; nil returns to the flat triangle list. The
// flat list and the index are not merged: triangles already fed to one are not
// visible through the other.
func (s *System) SetBroadphase(index core.SpatialIndex) {
	s.broadphase = index
}

// Broadphase returns the attached index, if any
func (s *System) Broadphase() core.SpatialIndex {
	return s.broadphase
}

// AddTriangle appends a triangle to the geometry. With an index attached the
// triangle goes into the index.
func (s *System) AddTriangle(tri core.Triangle) {
	if s.broadphase != nil {
		s.broadphase.Insert(tri)
		return
	}
	s.triangles = append(s.triangles, tri)
}

// AddTriangles appends triangles to the geometry in order
func (s *System) AddTriangles(tris []core.Triangle) {
	if s.broadphase != nil {
		s.broadphase.InsertAll(tris)
		return
	}
	s.triangles = append(s.triangles, tris...)
}

// RemoveTriangle removes the triangle at index i of Triangles(), keeping the
// order of the rest. Out of range indices are ignored.
func (s *System) RemoveTriangle(i int) bool {
	if s.broadphase != nil {
		tris := s.broadphase.Triangles()
		if i < 0 || i >= len(tris) {
			return false
		}
		s.broadphase.Clear()
		s.broadphase.InsertAll(append(tris[:i], tris[i+1:]...))
		return true
	}

	if i < 0 || i >= len(s.triangles) {
		return false
	}
	s.triangles = append(s.triangles[:i], s.triangles[i+1:]...)
	return true
}

// RemoveTriangleFunc removes every triangle for which remove returns true and
// reports how many were removed
func (s *System) RemoveTriangleFunc(remove func(core.Triangle) bool) int {
	if s.broadphase != nil {
		return s.broadphase.Remove(remove)
	}

	kept := s.triangles[:0]
	for _, tri := range s.triangles {
		if !remove(tri) {
			kept = append(kept, tri)
		}
	}
	removed := len(s.triangles) - len(kept)
	s.triangles = kept
	return removed
}

// Clear drops all geometry, including the contents of an attached index
func (s *System) Clear() {
	if s.broadphase != nil {
		s.broadphase.Clear()
	}
	s.triangles = nil
}

// Triangles returns the geometry queries see, in scan order. Without an index
// this is the flat list itself and must not be modified.
func (s *System) Triangles() []core.Triangle {
	if s.broadphase != nil {
		return s.broadphase.Triangles()
	}
	return s.triangles
}

// TriangleCount returns the number of triangles queries will see
func (s *System) TriangleCount() int {
	if s.broadphase != nil {
		return s.broadphase.TriangleCount()
	}
	return len(s.triangles)
}

// candidates returns the triangles that may touch a unit sphere at ePos
// moving by eVel in the ellipsoid space of eRadius. Without an index this is
// the whole flat list in insertion order.
func (s *System) candidates(ePos, eVel, eRadius mgl64.Vec3) []*core.Triangle {
	if s.broadphase == nil {
		return s.flatCandidates()
	}

	swept := core.NewBoundingBoxFromPoints(ePos, ePos.Add(eVel)).Grow(1 + s.slidingSpeed)
	world := core.NewBoundingBoxFromPoints(
		core.MulComponents(swept.Min, eRadius),
		core.MulComponents(swept.Max, eRadius),
	)
	return s.broadphase.QueryBox(world)
}

// rayCandidates returns the triangles a ray segment may cross. The segment is
// cut where it leaves the index bounds; triangles outside them live at the
// root and are returned by every query.
func (s *System) rayCandidates(ray core.Ray, maxDistance float64) []*core.Triangle {
	if s.broadphase == nil {
		return s.flatCandidates()
	}
	bounds := s.broadphase.Bounds()
	reach := ray.Origin.Sub(bounds.Center()).Len() + bounds.Size().Len()
	return s.broadphase.QueryRay(ray, math.Min(maxDistance, reach))
}

func (s *System) flatCandidates() []*core.Triangle {
	all := make([]*core.Triangle, len(s.triangles))
	for i := range s.triangles {
		all[i] = &s.triangles[i]
	}
	return all
}
