package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wasm96/errors"
)

type objKey struct {
	v, vt, vn int
}

// ParseOBJ parses Wavefront OBJ geometry. Polygons are fan-triangulated,
// negative indices count back from the end, identical (v, vt, vn) corners
// share a vertex, and faces without normals get flat normals. Texture V is
// flipped so row 0 of an image is the top.
func ParseOBJ(data []byte) (*MeshData, error) {
	var (
		positions [][3]float32
		uvs       [][2]float32
		normals   [][3]float32
		mesh      = &MeshData{}
		seen      = make(map[objKey]uint32)
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		path := []string{"obj", "line " + strconv.Itoa(lineNo)}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, errors.InvalidData(errors.PhaseDecode, path, err.Error())
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})
		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, errors.InvalidData(errors.PhaseDecode, path, err.Error())
			}
			uvs = append(uvs, [2]float32{p[0], 1 - p[1]})
		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, errors.InvalidData(errors.PhaseDecode, path, err.Error())
			}
			normals = append(normals, [3]float32{p[0], p[1], p[2]})
		case "f":
			if len(fields) < 4 {
				return nil, errors.InvalidData(errors.PhaseDecode, path, "face needs at least 3 vertices")
			}
			corners := make([]objKey, 0, len(fields)-1)
			for _, f := range fields[1:] {
				k, err := parseFaceVertex(f, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, errors.InvalidData(errors.PhaseDecode, path, err.Error())
				}
				corners = append(corners, k)
			}

			for i := 1; i+1 < len(corners); i++ {
				tri := [3]objKey{corners[0], corners[i], corners[i+1]}
				var flat [3]float32
				needFlat := tri[0].vn < 0 || tri[1].vn < 0 || tri[2].vn < 0
				if needFlat {
					flat = flatNormal(positions[tri[0].v], positions[tri[1].v], positions[tri[2].v])
				}
				for _, k := range tri {
					if k.vn >= 0 {
						if idx, ok := seen[k]; ok {
							mesh.Indices = append(mesh.Indices, idx)
							continue
						}
					}
					v := Vertex{Pos: positions[k.v]}
					if k.vt >= 0 {
						v.UV = uvs[k.vt]
					}
					if k.vn >= 0 {
						v.Normal = normals[k.vn]
					} else {
						v.Normal = flat
					}
					idx := uint32(len(mesh.Vertices))
					mesh.Vertices = append(mesh.Vertices, v)
					mesh.Indices = append(mesh.Indices, idx)
					if k.vn >= 0 {
						seen[k] = idx
					}
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Decode("obj", err)
	}
	if len(mesh.Indices) == 0 {
		return nil, errors.Decode("obj", errors.InvalidData(errors.PhaseDecode, []string{"obj"}, "no faces"))
	}
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices, -1 for absent components.
func parseFaceVertex(s string, nv, nvt, nvn int) (objKey, error) {
	parts := strings.Split(s, "/")
	k := objKey{v: -1, vt: -1, vn: -1}
	resolve := func(field string, count int) (int, error) {
		if field == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(field)
		if err != nil {
			return 0, err
		}
		switch {
		case i > 0 && i <= count:
			return i - 1, nil
		case i < 0 && -i <= count:
			return count + i, nil
		default:
			return 0, fmt.Errorf("index %d out of range (%d defined)", i, count)
		}
	}

	var err error
	if k.v, err = resolve(parts[0], nv); err != nil {
		return k, err
	}
	if k.v < 0 {
		return k, fmt.Errorf("face vertex %q has no position", s)
	}
	if len(parts) > 1 {
		if k.vt, err = resolve(parts[1], nvt); err != nil {
			return k, err
		}
	}
	if len(parts) > 2 {
		if k.vn, err = resolve(parts[2], nvn); err != nil {
			return k, err
		}
	}
	return k, nil
}
