package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

// CollideAndSlide moves an ellipsoid with the given radii from position by
// velocity, sliding along whatever it touches, then applies gravity the same
// way. It returns the corrected world position and whether the gravity pass
// left the ellipsoid resting on ground.
//
// Grounded needs the gravity pass to end against a surface and either move
// less than 2*SlidingSpeed in ellipsoid space, or stop on a contact whose
// normal is within GroundNormalThreshold of straight up (opposite gravity).
// The second rule makes a fall that lands in the same call count as grounded.
func (s *System) CollideAndSlide(position, velocity, radius, gravity mgl64.Vec3) (mgl64.Vec3, bool) {
	packet := NewPacket(position, velocity, radius)
	packet.SlidingSpeed = s.slidingSpeed
	packet.MaxRecursionDepth = s.maxRecursionDepth
	return s.CollideAndSlidePacket(packet, gravity)
}

// SphereSlide is CollideAndSlide for a sphere
func (s *System) SphereSlide(position, velocity mgl64.Vec3, radius float64, gravity mgl64.Vec3) (mgl64.Vec3, bool) {
	return s.CollideAndSlide(position, velocity, mgl64.Vec3{radius, radius, radius}, gravity)
}

// CollideAndSlidePacket runs the slide for a caller prepared packet, which
// allows per query tunables. The packet is left holding the state of the
// final iteration.
func (s *System) CollideAndSlidePacket(packet *Packet, gravity mgl64.Vec3) (mgl64.Vec3, bool) {
	radius := packet.ERadius
	ePosition := core.DivComponents(packet.R3Position, radius)
	eVelocity := core.DivComponents(packet.R3Velocity, radius)

	ePosition = s.collideWithWorld(packet, ePosition, eVelocity)

	grounded := false
	if !core.IsZero(gravity) {
		eGravity := core.DivComponents(gravity, radius)
		before := ePosition
		ePosition = s.collideWithWorld(packet, ePosition, eGravity)

		if packet.FoundCollision {
			moved := ePosition.Sub(before).Len()
			up := eGravity.Normalize().Mul(-1)
			grounded = moved < 2*packet.SlidingSpeed ||
				packet.ContactNormal.Dot(up) >= GroundNormalThreshold
		}
	}

	if packet.Contacts == 0 {
		// Nothing was touched: skip the round trip through ellipsoid space so
		// free movement is exact.
		return packet.R3Position.Add(packet.R3Velocity).Add(gravity), false
	}
	return core.MulComponents(ePosition, radius), grounded
}

// collideWithWorld slides a unit sphere at pos by vel in ellipsoid space. Each
// iteration moves up to the nearest contact and redirects the remaining motion
// along the sliding plane; the iteration count is bounded by the packet.
func (s *System) collideWithWorld(packet *Packet, pos, vel mgl64.Vec3) mgl64.Vec3 {
	for packet.Depth = 0; ; packet.Depth++ {
		if packet.Depth > packet.MaxRecursionDepth {
			s.logger.Debug("slide iteration limit reached",
				zap.Int("depth", packet.Depth),
				zap.Float64s("position", pos[:]))
			return pos
		}
		if core.IsZero(vel) {
			packet.FoundCollision = false
			return pos
		}

		packet.reset(pos, vel)
		for _, tri := range s.candidates(pos, vel, packet.ERadius) {
			s.checkTriangle(packet, tri)
		}
		packet.Iterations++

		if !packet.FoundCollision {
			return pos.Add(vel)
		}
		packet.Contacts++

		destination := pos.Add(vel)
		newPosition := pos

		// Stop short of the surface so the next iteration does not start
		// touching it.
		if packet.NearestDistance >= packet.SlidingSpeed {
			newPosition = pos.Add(core.SetLength(vel, packet.NearestDistance-packet.SlidingSpeed))
			packet.IntersectionPoint = packet.IntersectionPoint.Sub(packet.ENormalizedVelocity.Mul(packet.SlidingSpeed))
		}

		slidingPlane := core.NewPlaneFromNormal(newPosition.Sub(packet.IntersectionPoint), packet.IntersectionPoint)
		packet.ContactNormal = slidingPlane.Normal

		newDestination := slidingPlane.Project(destination)
		newVelocity := newDestination.Sub(packet.IntersectionPoint)

		if newVelocity.Len() < packet.SlidingSpeed {
			return newPosition
		}

		pos, vel = newPosition, newVelocity
	}
}

// checkTriangle sweeps the packet's unit sphere against one world triangle and
// records it if it is hit sooner than anything seen so far this iteration.
// Both faces collide. A sphere leaving the plane can still catch an edge or a
// vertex while it is within unit distance of it.
func (s *System) checkTriangle(packet *Packet, tri *core.Triangle) {
	eTri := tri.DivComponents(packet.ERadius)
	if eTri.IsDegenerate() {
		s.logger.Debug("skipping degenerate triangle", zap.Any("triangle", *tri))
		return
	}

	t, point, ok := sweepUnitSphere(eTri, packet.EPosition, packet.EVelocity)
	if !ok {
		return
	}

	distance := t * packet.EVelocity.Len()
	// Strictly nearer only: on a tie the first triangle scanned keeps the hit.
	if !packet.FoundCollision || distance < packet.NearestDistance {
		packet.NearestDistance = distance
		packet.IntersectionPoint = point
		packet.Triangle = tri
		packet.FoundCollision = true
	}
}

// sweepUnitSphere returns the first time t in [0, 1] at which a unit sphere at
// base moving by velocity touches tri, and the contact point.
func sweepUnitSphere(tri core.Triangle, base, velocity mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	plane := tri.Plane()
	signedDistance := plane.SignedDistance(base)
	if signedDistance < 0 {
		plane = plane.Flip()
		signedDistance = -signedDistance
	}

	normalDotVelocity := plane.Normal.Dot(velocity)

	var t0 float64
	// The face interior can only be reached while closing in on the plane;
	// otherwise the first contact is with an edge or a vertex.
	faceReachable := normalDotVelocity < 0
	if normalDotVelocity > -core.Epsilon && normalDotVelocity < core.Epsilon {
		// Moving parallel to the plane
		if signedDistance >= 1 {
			return 0, mgl64.Vec3{}, false
		}
		faceReachable = false
		t0 = 0
	} else {
		t0 = (-1 - signedDistance) / normalDotVelocity
		t1 := (1 - signedDistance) / normalDotVelocity
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > 1 || t1 < 0 {
			return 0, mgl64.Vec3{}, false
		}
		t0 = mgl64.Clamp(t0, 0, 1)
	}

	// Sphere touches the face interior at t0
	if faceReachable {
		planePoint := base.Sub(plane.Normal).Add(velocity.Mul(t0))
		if tri.ContainsPoint(planePoint) {
			return t0, planePoint, true
		}
	}

	// Otherwise it can only touch a vertex or an edge, no later than t = 1
	found := false
	t := 1.0
	var point mgl64.Vec3

	velocitySquaredLength := velocity.LenSqr()
	a := velocitySquaredLength

	for _, p := range tri.Vertices() {
		b := 2 * velocity.Dot(base.Sub(p))
		c := p.Sub(base).LenSqr() - 1
		if root, ok := LowestRoot(a, b, c, t); ok {
			t, point, found = root, p, true
		}
	}

	vertices := tri.Vertices()
	for i := range vertices {
		from, to := vertices[i], vertices[(i+1)%3]
		edge := to.Sub(from)
		baseToVertex := from.Sub(base)
		edgeSquaredLength := edge.LenSqr()
		edgeDotVelocity := edge.Dot(velocity)
		edgeDotBaseToVertex := edge.Dot(baseToVertex)

		a := edgeSquaredLength*-velocitySquaredLength + edgeDotVelocity*edgeDotVelocity
		b := edgeSquaredLength*(2*velocity.Dot(baseToVertex)) - 2*edgeDotVelocity*edgeDotBaseToVertex
		c := edgeSquaredLength*(1-baseToVertex.LenSqr()) + edgeDotBaseToVertex*edgeDotBaseToVertex

		if root, ok := LowestRoot(a, b, c, t); ok {
			// Where on the edge line the contact happens
			f := (edgeDotVelocity*root - edgeDotBaseToVertex) / edgeSquaredLength
			if f >= 0 && f <= 1 {
				t, point, found = root, from.Add(edge.Mul(f)), true
			}
		}
	}

	return t, point, found
}
