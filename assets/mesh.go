package assets

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/wasm96/errors"
)

// VertexSize is the byte size of one packed vertex: position xyz, uv,
// normal xyz, all little-endian f32.
const VertexSize = 32

// Vertex is one mesh vertex
type Vertex struct {
	Pos    [3]float32
	UV     [2]float32
	Normal [3]float32
}

// MeshData is CPU-side triangle-list geometry
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// UnpackVertices decodes count packed vertices
func UnpackVertices(data []byte, count int) ([]Vertex, error) {
	if count < 0 || len(data) < count*VertexSize {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"vertices"},
			fmt.Sprintf("need %d bytes for %d vertices, have %d", count*VertexSize, count, len(data)))
	}
	out := make([]Vertex, count)
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := range out {
		base := i * VertexSize
		v := &out[i]
		v.Pos = [3]float32{f(base), f(base + 4), f(base + 8)}
		v.UV = [2]float32{f(base + 12), f(base + 16)}
		v.Normal = [3]float32{f(base + 20), f(base + 24), f(base + 28)}
	}
	return out, nil
}

// PackVertices encodes vertices into the packed guest layout
func PackVertices(vs []Vertex) []byte {
	out := make([]byte, len(vs)*VertexSize)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
	}
	for i, v := range vs {
		base := i * VertexSize
		put(base, v.Pos[0])
		put(base+4, v.Pos[1])
		put(base+8, v.Pos[2])
		put(base+12, v.UV[0])
		put(base+16, v.UV[1])
		put(base+20, v.Normal[0])
		put(base+24, v.Normal[1])
		put(base+28, v.Normal[2])
	}
	return out
}

// Validate checks that indices form whole triangles and stay in range
func (m *MeshData) Validate() error {
	if len(m.Indices)%3 != 0 {
		return errors.InvalidData(errors.PhaseDecode, []string{"indices"},
			fmt.Sprintf("index count %d is not a multiple of 3", len(m.Indices)))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return errors.InvalidData(errors.PhaseDecode, []string{"indices", fmt.Sprint(i)},
				fmt.Sprintf("index %d out of range for %d vertices", idx, n))
		}
	}
	return nil
}

// TriangleCount returns the number of triangles
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// flatNormal returns the unit face normal of a counter-clockwise triangle
func flatNormal(a, b, c [3]float32) [3]float32 {
	u := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float32{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
	if l == 0 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{n[0] / l, n[1] / l, n[2] / l}
}
