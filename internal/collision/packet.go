package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

const (
	// DefaultSlidingSpeed is the distance kept from a surface, in ellipsoid units
	DefaultSlidingSpeed = 0.001
	// DefaultMaxRecursionDepth bounds the number of slide iterations per pass
	DefaultMaxRecursionDepth = 5
	// GroundNormalThreshold is the minimum cosine between a contact normal and
	// the up direction (opposite of gravity) for the contact to count as ground
	GroundNormalThreshold = 0.7
)

// Packet carries the state of one slide query through its iterations. It
// belongs to a single call stack and must not be shared between goroutines.
type Packet struct {
	// World space input
	ERadius    mgl64.Vec3
	R3Position mgl64.Vec3
	R3Velocity mgl64.Vec3

	// Ellipsoid space state of the current iteration
	EPosition           mgl64.Vec3
	EVelocity           mgl64.Vec3
	ENormalizedVelocity mgl64.Vec3

	// Nearest hit of the current iteration
	FoundCollision    bool
	NearestDistance   float64
	IntersectionPoint mgl64.Vec3
	Triangle          *core.Triangle // borrowed, valid until the geometry changes
	ContactNormal     mgl64.Vec3     // sliding plane normal of the last contact

	// Tunables
	SlidingSpeed      float64
	MaxRecursionDepth int

	// Bookkeeping
	Depth      int
	Iterations int
	Contacts   int
}

// NewPacket creates a packet for an ellipsoid at position moving by velocity
func NewPacket(position, velocity, radius mgl64.Vec3) *Packet {
	return &Packet{
		ERadius:           radius,
		R3Position:        position,
		R3Velocity:        velocity,
		EPosition:         core.DivComponents(position, radius),
		EVelocity:         core.DivComponents(velocity, radius),
		NearestDistance:   math.MaxFloat64,
		SlidingSpeed:      DefaultSlidingSpeed,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
	}
}

// reset clears the hit state before an iteration tests the geometry
func (p *Packet) reset(position, velocity mgl64.Vec3) {
	p.EPosition = position
	p.EVelocity = velocity
	p.ENormalizedVelocity = velocity.Normalize()
	p.FoundCollision = false
	p.NearestDistance = math.MaxFloat64
	p.Triangle = nil
}

// Info describes the result of a ray or sphere cast
type Info struct {
	Hit      bool
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Triangle *core.Triangle // borrowed, valid until the geometry changes
}
