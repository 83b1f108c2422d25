package render

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/wasm96/assets"
	"github.com/wippyai/wasm96/errors"
)

// Lighting parameters shared by every draw
const (
	ambient = 0.2
	minW    = 1e-5
)

var lightDir = mgl32.Vec3{0.5, 1, 0.5}.Normalize()

// Software is a z-buffered CPU rasterizer. It evaluates edge
// functions over each triangle's clipped bounding box, culls back faces
// (counter-clockwise is front) and interpolates uv and lighting
// perspective-correctly.
type Software struct {
	meshes map[Handle]*assets.MeshData
	color  []uint32
	depth  []float32
	width  int
	height int
	next   Handle
	stats  Stats
	ready  bool
}

// NewSoftware creates an uninitialized software backend
func NewSoftware() *Software {
	return &Software{meshes: make(map[Handle]*assets.MeshData)}
}

func (s *Software) Name() string { return "software" }

// Init (re)creates the render target and drops every upload
func (s *Software) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.InvalidInput(errors.PhaseRender, fmt.Sprintf("target size %dx%d", width, height))
	}
	s.dropAll()
	s.resize(width, height)
	s.ready = true
	return nil
}

// Destroy drops every upload and the render target
func (s *Software) Destroy() {
	s.dropAll()
	s.color, s.depth = nil, nil
	s.width, s.height = 0, 0
	s.ready = false
}

func (s *Software) dropAll() {
	s.stats.Releases += len(s.meshes)
	clear(s.meshes)
}

func (s *Software) Upload(mesh *assets.MeshData) (Handle, error) {
	if !s.ready {
		return 0, errors.NotInitialized(errors.PhaseRender, "software backend")
	}
	s.next++
	s.meshes[s.next] = &assets.MeshData{
		Vertices: slices.Clone(mesh.Vertices),
		Indices:  slices.Clone(mesh.Indices),
	}
	s.stats.Uploads++
	return s.next, nil
}

func (s *Software) Release(h Handle) {
	if _, ok := s.meshes[h]; ok {
		delete(s.meshes, h)
		s.stats.Releases++
	}
}

func (s *Software) Begin(width, height int) {
	if !s.ready {
		return
	}
	s.resize(width, height)
	clear(s.color)
	for i := range s.depth {
		s.depth[i] = math.MaxFloat32
	}
}

func (s *Software) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.width && height == s.height && len(s.color) == width*height {
		return
	}
	s.width, s.height = width, height
	s.color = make([]uint32, width*height)
	s.depth = make([]float32, width*height)
	for i := range s.depth {
		s.depth[i] = math.MaxFloat32
	}
}

func (s *Software) Output() []uint32 {
	return s.color
}

func (s *Software) Stats() Stats {
	st := s.stats
	st.Live = len(s.meshes)
	return st
}

// screenVertex is a projected vertex. u, v and light are pre-divided by w.
type screenVertex struct {
	x, y, z float32
	invW    float32
	u, v    float32
	light   float32
	ok      bool
}

func (s *Software) Draw(h Handle, call DrawCall) {
	mesh, ok := s.meshes[h]
	if !ok || !s.ready || len(s.color) == 0 {
		return
	}
	projected := make([]screenVertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		projected[i] = s.project(v, call)
	}
	n := uint32(len(projected))
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a, b, c := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		s.triangle(projected[a], projected[b], projected[c], call)
	}
}

func (s *Software) project(v assets.Vertex, call DrawCall) screenVertex {
	clip := call.MVP.Mul4x1(mgl32.Vec4{v.Pos[0], v.Pos[1], v.Pos[2], 1})
	w := clip[3]
	if !(w > minW) {
		return screenVertex{}
	}
	inv := 1 / w

	n := call.Normal.Mul3x1(mgl32.Vec3(v.Normal))
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	diffuse := n.Dot(lightDir)
	if !(diffuse > ambient) {
		diffuse = ambient
	}

	sv := screenVertex{
		x:     (clip[0]*inv + 1) * 0.5 * float32(s.width),
		y:     (1 - clip[1]*inv) * 0.5 * float32(s.height),
		z:     clip[2] * inv,
		invW:  inv,
		u:     v.UV[0] * inv,
		v:     v.UV[1] * inv,
		light: diffuse * inv,
	}
	sv.ok = finite(sv.x) && finite(sv.y) && finite(sv.z) && finite(sv.u) && finite(sv.v)
	return sv
}

func (s *Software) triangle(a, b, c screenVertex, call DrawCall) {
	if !a.ok || !b.ok || !c.ok {
		return
	}
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	// Screen y grows downward, so front faces have negative area. This
	// also rejects degenerate triangles.
	if !(area < 0) {
		return
	}

	x0, x1, okX := span(min(a.x, b.x, c.x), max(a.x, b.x, c.x), s.width)
	y0, y1, okY := span(min(a.y, b.y, c.y), max(a.y, b.y, c.y), s.height)
	if !okX || !okY {
		return
	}

	for py := y0; py <= y1; py++ {
		cy := float32(py) + 0.5
		for px := x0; px <= x1; px++ {
			cx := float32(px) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, cx, cy) / area
			w1 := edge(c.x, c.y, a.x, a.y, cx, cy) / area
			w2 := edge(a.x, a.y, b.x, b.y, cx, cy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			if z < -1 || z > 1 {
				continue
			}
			i := py*s.width + px
			if z >= s.depth[i] {
				continue
			}
			invW := w0*a.invW + w1*b.invW + w2*c.invW
			if !(invW > 0) {
				continue
			}
			persp := 1 / invW
			light := (w0*a.light + w1*b.light + w2*c.light) * persp

			var r, g, bl float32
			if call.Texture != nil {
				u := (w0*a.u + w1*b.u + w2*c.u) * persp
				v := (w0*a.v + w1*b.v + w2*c.v) * persp
				tr, tg, tb, ta := sample(call.Texture, u, v)
				if ta == 0 {
					continue
				}
				r, g, bl = float32(tr), float32(tg), float32(tb)
			} else {
				r = float32(call.Color >> 16 & 0xFF)
				g = float32(call.Color >> 8 & 0xFF)
				bl = float32(call.Color & 0xFF)
			}
			s.depth[i] = z
			s.color[i] = shade(r, light)<<16 | shade(g, light)<<8 | shade(bl, light)
		}
	}
}

// sample fetches the nearest texel with repeat wrapping
func sample(img *assets.Image, u, v float32) (r, g, b, a byte) {
	if img.Width == 0 || img.Height == 0 {
		return 0, 0, 0, 0
	}
	x := wrap(int(math.Floor(float64(u)*float64(img.Width))), img.Width)
	y := wrap(int(math.Floor(float64(v)*float64(img.Height))), img.Height)
	return img.At(x, y)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func shade(c, light float32) uint32 {
	v := c * light
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}

// span clamps a float interval to pixel indices [0, n).
func span(lo, hi float32, n int) (int, int, bool) {
	lo = max(lo, 0)
	hi = min(hi, float32(n-1))
	if lo > hi {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func finite(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}

var _ Backend = (*Software)(nil)
