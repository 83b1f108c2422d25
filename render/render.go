package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/assets"
	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/resource"
)

// Mesh is a logical mesh owned by the guest. Its geometry survives context
// loss; the backend upload is recreated lazily on the next draw.
type Mesh struct {
	Data     *assets.MeshData
	owner    *State
	Texture  abi.Key
	handle   Handle
	Textured bool
	uploaded bool
}

// Uploaded reports whether the mesh currently has backend geometry
func (m *Mesh) Uploaded() bool {
	return m.uploaded
}

// Release drops the backend upload, if any
func (m *Mesh) Release() {
	if m.uploaded && m.owner != nil {
		m.owner.backend.Release(m.handle)
	}
	m.uploaded = false
	m.handle = 0
}

// TextureLookup resolves an image key to a decoded image, or nil
type TextureLookup func(abi.Key) *assets.Image

// State is the 3D render state: enable flag, camera, mesh table and the
// render context lifecycle. It is not safe for concurrent use; the host
// context serializes access.
type State struct {
	Meshes        *resource.Table[*Mesh]
	backend       Backend
	camera        Camera
	width         int
	height        int
	context       ContextState
	enabled       bool
	projectionSet bool
	begun         bool
}

// New creates a disabled render state over backend for a width×height target
func New(backend Backend, width, height int) *State {
	if backend == nil {
		backend = NewSoftware()
	}
	return &State{
		Meshes:  resource.NewTable[*Mesh]("mesh"),
		backend: backend,
		camera:  DefaultCamera(width, height),
		width:   width,
		height:  height,
	}
}

// Backend returns the active backend
func (s *State) Backend() Backend { return s.backend }

// Stats returns the backend upload counters
func (s *State) Stats() Stats { return s.backend.Stats() }

// Context returns the render context state
func (s *State) Context() ContextState { return s.context }

// Enabled reports whether 3D rendering is on
func (s *State) Enabled() bool { return s.enabled }

// SetEnabled turns the 3D pass on or off
func (s *State) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// Camera returns the current camera
func (s *State) Camera() Camera { return s.camera }

// LookAt replaces the view matrix
func (s *State) LookAt(eye, target, up mgl32.Vec3) {
	s.camera.LookAt(eye, target, up)
}

// Perspective replaces the projection. The default projection follows the
// target's aspect ratio until the guest sets one.
func (s *State) Perspective(fovy, aspect, near, far float32) {
	s.camera.Perspective(fovy, aspect, near, far)
	s.projectionSet = true
}

// Resize changes the target size. The current frame's 3D output is
// discarded.
func (s *State) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.begun = false
	if !s.projectionSet {
		s.camera.Projection = mgl32.Perspective(DefaultFovY, aspect(width, height), DefaultNear, DefaultFar)
	}
}

// CreateMesh validates data and stores it under key, releasing any mesh
// previously stored there. The table is untouched on error.
func (s *State) CreateMesh(key abi.Key, data *assets.MeshData) error {
	return s.Meshes.Load(key, func() (*Mesh, error) {
		if data == nil {
			return nil, errors.InvalidInput(errors.PhaseRender, "nil mesh")
		}
		if err := data.Validate(); err != nil {
			return nil, err
		}
		return &Mesh{Data: data, owner: s}, nil
	})
}

// SetTexture binds an image key to a mesh. It reports false for an
// unknown mesh.
func (s *State) SetTexture(mesh, image abi.Key) bool {
	m, ok := s.Meshes.Get(mesh)
	if !ok {
		return false
	}
	m.Texture = image
	m.Textured = true
	return true
}

// PrepareFrame starts a new 3D frame, clearing the target when 3D is
// enabled and the context is ready.
func (s *State) PrepareFrame(width, height int) {
	s.Resize(width, height)
	s.begun = false
	if s.enabled && s.context == ContextReady {
		s.begin()
	}
}

func (s *State) begin() {
	s.backend.Begin(s.width, s.height)
	s.begun = true
}

// DrawMesh draws a mesh with the given transform. Flat meshes and meshes
// whose texture does not resolve are tinted with color. It is a no-op while
// 3D is disabled, the context is not ready or the key is unknown.
func (s *State) DrawMesh(key abi.Key, t Transform, color uint32, textures TextureLookup) error {
	if !s.enabled || s.context != ContextReady {
		return nil
	}
	m, ok := s.Meshes.Get(key)
	if !ok {
		return nil
	}
	if !m.uploaded {
		h, err := s.backend.Upload(m.Data)
		if err != nil {
			return err
		}
		m.handle, m.uploaded = h, true
	}
	if !s.begun {
		s.begin()
	}

	model := t.Model()
	call := DrawCall{
		MVP:    s.camera.ViewProjection().Mul4(model),
		Normal: NormalMatrix(model),
		Color:  color & 0x00FFFFFF,
	}
	if m.Textured && textures != nil {
		call.Texture = textures(m.Texture)
	}
	s.backend.Draw(m.handle, call)
	return nil
}

// Output returns this frame's 3D color target, or nil when there is no 3D
// pass to composite.
func (s *State) Output() []uint32 {
	if !s.enabled || !s.begun || s.context != ContextReady {
		return nil
	}
	out := s.backend.Output()
	if len(out) != s.width*s.height {
		return nil
	}
	return out
}

// ContextReset (re)initializes the backend and marks every mesh for
// re-upload. The context becomes ready on success.
func (s *State) ContextReset() error {
	if err := s.backend.Init(s.width, s.height); err != nil {
		return err
	}
	s.forgetUploads()
	s.context = ContextReady
	s.begun = false
	return nil
}

// ContextDestroy releases every upload. The context is lost until the next
// ContextReset.
func (s *State) ContextDestroy() {
	if s.context != ContextReady {
		return
	}
	s.backend.Destroy()
	s.forgetUploads()
	s.context = ContextLost
	s.begun = false
}

func (s *State) forgetUploads() {
	s.Meshes.Each(func(_ abi.Key, m *Mesh) bool {
		m.uploaded = false
		m.handle = 0
		return true
	})
}

// Reset clears all guest-visible 3D state: meshes are released, 3D is
// disabled and the camera returns to its default. The render context is
// left as is.
func (s *State) Reset(width, height int) {
	s.Meshes.Clear()
	s.enabled = false
	s.projectionSet = false
	s.begun = false
	s.width, s.height = width, height
	s.camera = DefaultCamera(width, height)
}
