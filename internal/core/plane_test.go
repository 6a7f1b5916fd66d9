package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestPlane(t *testing.T) {
	plane := NewPlaneFromNormal(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 3, 0})

	assert.InDelta(t, 1.0, plane.Normal.Len(), 1e-12)
	assert.InDelta(t, 2.0, plane.SignedDistance(mgl64.Vec3{7, 5, -1}), 1e-12)
	assert.Equal(t, PlaneClassificationFront, plane.Classify(mgl64.Vec3{0, 4, 0}))
	assert.Equal(t, PlaneClassificationBack, plane.Classify(mgl64.Vec3{0, 2, 0}))
	assert.Equal(t, PlaneClassificationOnPlane, plane.Classify(mgl64.Vec3{9, 3, 9}))

	assert.True(t, plane.IsFrontFacingTo(mgl64.Vec3{0, -1, 0}))
	assert.False(t, plane.IsFrontFacingTo(mgl64.Vec3{0, 1, 0}))

	assert.True(t, plane.Project(mgl64.Vec3{1, 10, 1}).ApproxEqual(mgl64.Vec3{1, 3, 1}))

	flipped := plane.Flip()
	assert.InDelta(t, -2.0, flipped.SignedDistance(mgl64.Vec3{7, 5, -1}), 1e-12)
}

func TestPlaneNormalize(t *testing.T) {
	raw := Plane{Normal: mgl64.Vec3{0, 0, 4}, D: -8}
	p := raw.Normalize()

	assert.InDelta(t, 1.0, p.Normal.Len(), 1e-12)
	assert.InDelta(t, -2.0, p.D, 1e-12)
	assert.InDelta(t, 0.0, p.SignedDistance(mgl64.Vec3{0, 0, 2}), 1e-12)
}
