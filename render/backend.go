package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/wasm96/assets"
)

// Handle identifies geometry uploaded to a backend. Zero is never issued.
type Handle uint32

// DrawCall is one mesh draw with its matrices and surface
type DrawCall struct {
	Texture *assets.Image // nil draws flat with Color
	MVP     mgl32.Mat4
	Normal  mgl32.Mat3
	Color   uint32 // 0x00RRGGBB tint for flat shading
}

// Stats counts backend uploads
type Stats struct {
	Uploads  int
	Releases int
	Live     int
}

// Backend renders meshes into a color target. Init and Destroy follow the
// external render context: every handle is invalid after either call.
type Backend interface {
	Name() string
	Init(width, height int) error
	Destroy()
	Upload(mesh *assets.MeshData) (Handle, error)
	Release(h Handle)
	// Begin resizes the target if needed and clears color to 0 and depth to far.
	Begin(width, height int)
	Draw(h Handle, call DrawCall)
	// Output returns the color target as 0x00RRGGBB pixels. The slice is
	// reused by the next Begin.
	Output() []uint32
	Stats() Stats
}
