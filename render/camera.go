package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default camera parameters
const (
	DefaultFovY = 45.0 * math.Pi / 180.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// DefaultEye is where the default camera sits, looking at the origin with +Y up.
var DefaultEye = mgl32.Vec3{0, 0, 3}

// Camera holds the view and projection matrices. Both are replaced
// wholesale by the guest and persist across frames.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// DefaultCamera returns the camera used before the guest sets one
func DefaultCamera(width, height int) Camera {
	return Camera{
		View:       mgl32.LookAtV(DefaultEye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		Projection: mgl32.Perspective(DefaultFovY, aspect(width, height), DefaultNear, DefaultFar),
	}
}

// LookAt replaces the view matrix with a right-handed look-at
func (c *Camera) LookAt(eye, target, up mgl32.Vec3) {
	c.View = mgl32.LookAtV(eye, target, up)
}

// Perspective replaces the projection with a right-handed perspective
// mapping depth to -1..1
func (c *Camera) Perspective(fovy, aspect, near, far float32) {
	c.Projection = mgl32.Perspective(fovy, aspect, near, far)
}

// ViewProjection returns P·V
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// Transform places a mesh in the world
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // radians around X, Y, Z
	Scale    mgl32.Vec3
}

// Model returns T·Rz·Ry·Rx·S
func (t Transform) Model() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation[2])).
		Mul4(mgl32.HomogRotate3DY(t.Rotation[1])).
		Mul4(mgl32.HomogRotate3DX(t.Rotation[0])).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// NormalMatrix returns the inverse-transpose of the model matrix. A
// singular model yields the zero matrix, which shades at the ambient floor.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Inv().Transpose().Mat3()
}
