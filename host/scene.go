package host

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/assets"
	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/render"
)

func (h *Host) Set3D(enabled uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Render.SetEnabled(enabled != 0)
}

func (h *Host) CameraLookAt(ex, ey, ez, tx, ty, tz, ux, uy, uz float32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Render.LookAt(mgl32.Vec3{ex, ey, ez}, mgl32.Vec3{tx, ty, tz}, mgl32.Vec3{ux, uy, uz})
}

func (h *Host) CameraPerspective(fovy, aspect, near, far float32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Render.Perspective(fovy, aspect, near, far)
}

// MeshCreate stores vertexCount packed vertices and indexCount u32
// indices from guest memory under key.
func (h *Host) MeshCreate(mem engine.Memory, key uint64, vertexPtr, vertexCount, indexPtr, indexCount uint32) bool {
	raw, err := mem.ReadElems(vertexPtr, vertexCount, assets.VertexSize)
	if err != nil {
		h.debug("mesh_create", err)
		return false
	}
	vertices, err := assets.UnpackVertices(raw, int(vertexCount))
	if err != nil {
		h.warn("mesh_create", err)
		return false
	}
	indices, err := mem.ReadU32s(indexPtr, indexCount)
	if err != nil {
		h.debug("mesh_create", err)
		return false
	}
	return h.storeMesh("mesh_create", key, &assets.MeshData{Vertices: vertices, Indices: indices})
}

// MeshCreateOBJ parses a Wavefront OBJ document from guest memory
func (h *Host) MeshCreateOBJ(mem engine.Memory, key uint64, ptr, n uint32) bool {
	return h.createParsed("mesh_create_obj", mem, key, ptr, n, assets.ParseOBJ)
}

// MeshCreateSTL parses a binary or ASCII STL document from guest memory
func (h *Host) MeshCreateSTL(mem engine.Memory, key uint64, ptr, n uint32) bool {
	return h.createParsed("mesh_create_stl", mem, key, ptr, n, assets.ParseSTL)
}

func (h *Host) createParsed(op string, mem engine.Memory, key uint64, ptr, n uint32,
	parse func([]byte) (*assets.MeshData, error)) bool {
	data, ok := h.readBlob(op, mem, ptr, n, maxAssetBytes)
	if !ok {
		return false
	}
	mesh, err := parse(data)
	if err != nil {
		h.warn(op, err)
		return false
	}
	return h.storeMesh(op, key, mesh)
}

func (h *Host) storeMesh(op string, key uint64, mesh *assets.MeshData) bool {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	if err := h.ctx.Render.CreateMesh(abi.Key(key), mesh); err != nil {
		h.warn(op, err)
		return false
	}
	return true
}

func (h *Host) MeshSetTexture(meshKey, imageKey uint64) bool {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Render.SetTexture(abi.Key(meshKey), abi.Key(imageKey))
}

// MeshDraw draws a mesh tinted with the draw color
func (h *Host) MeshDraw(key uint64, x, y, z, rx, ry, rz, sx, sy, sz float32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	t := render.Transform{
		Position: mgl32.Vec3{x, y, z},
		Rotation: mgl32.Vec3{rx, ry, rz},
		Scale:    mgl32.Vec3{sx, sy, sz},
	}
	if err := h.ctx.Render.DrawMesh(abi.Key(key), t, h.ctx.Video.Color, h.ctx.Texture); err != nil {
		h.debug("mesh_draw", err)
	}
}

// MTLRegisterTexture reads the map_Kd of the named material and registers
// the accompanying image bytes under texKey for use by mesh_set_texture.
func (h *Host) MTLRegisterTexture(mem engine.Memory, texKey uint64,
	mtlPtr, mtlLen, namePtr, nameLen, texPtr, texLen uint32) bool {
	const op = "mtl_register_texture"
	mtl, ok := h.readBlob(op, mem, mtlPtr, mtlLen, maxAssetBytes)
	if !ok {
		return false
	}
	name, ok := h.readText(mem, namePtr, nameLen)
	if !ok {
		return false
	}
	if _, err := assets.DiffuseMap(mtl, name); err != nil {
		h.warn(op, err)
		return false
	}
	data, ok := h.readBlob(op, mem, texPtr, texLen, maxAssetBytes)
	if !ok {
		return false
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	if err := h.ctx.Textures.Load(abi.Key(texKey), func() (*assets.Image, error) {
		return assets.DecodeAny(data)
	}); err != nil {
		h.warn(op, err)
		return false
	}
	return true
}
