package assets

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/wasm96/errors"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// ParseSTL parses binary or ASCII STL. Each facet becomes three vertices
// carrying the facet normal, or a computed flat normal when the file
// stores zero.
func ParseSTL(data []byte) (*MeshData, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	return parseASCIISTL(data)
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == uint64(stlHeaderSize+4)+uint64(n)*stlTriangleSize
}

func parseBinarySTL(data []byte) (*MeshData, error) {
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	if n == 0 {
		return nil, errors.Decode("stl", errors.InvalidData(errors.PhaseDecode, []string{"stl"}, "no facets"))
	}
	mesh := &MeshData{
		Vertices: make([]Vertex, 0, n*3),
		Indices:  make([]uint32, 0, n*3),
	}
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	for i := 0; i < n; i++ {
		base := stlHeaderSize + 4 + i*stlTriangleSize
		normal := [3]float32{f(base), f(base + 4), f(base + 8)}
		var tri [3][3]float32
		for j := range tri {
			off := base + 12 + j*12
			tri[j] = [3]float32{f(off), f(off + 4), f(off + 8)}
		}
		addFacet(mesh, normal, tri)
	}
	return mesh, nil
}

func parseASCIISTL(data []byte) (*MeshData, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return nil, errors.Decode("stl", errors.InvalidData(errors.PhaseDecode, []string{"stl"}, "neither binary nor ascii"))
	}
	mesh := &MeshData{}
	var (
		normal [3]float32
		tri    [3][3]float32
		count  int
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		path := []string{"stl", "line " + strconv.Itoa(lineNo)}
		switch fields[0] {
		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, errors.InvalidData(errors.PhaseDecode, path, "malformed facet")
			}
			p, err := parseFloats(fields[2:], 3)
			if err != nil {
				return nil, errors.InvalidData(errors.PhaseDecode, path, err.Error())
			}
			normal = [3]float32{p[0], p[1], p[2]}
			count = 0
		case "vertex":
			if count >= 3 {
				return nil, errors.InvalidData(errors.PhaseDecode, path, "facet has more than 3 vertices")
			}
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, errors.InvalidData(errors.PhaseDecode, path, err.Error())
			}
			tri[count] = [3]float32{p[0], p[1], p[2]}
			count++
		case "endfacet":
			if count != 3 {
				return nil, errors.InvalidData(errors.PhaseDecode, path, "facet needs 3 vertices")
			}
			addFacet(mesh, normal, tri)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Decode("stl", err)
	}
	if len(mesh.Indices) == 0 {
		return nil, errors.Decode("stl", errors.InvalidData(errors.PhaseDecode, []string{"stl"}, "no facets"))
	}
	return mesh, nil
}

func addFacet(mesh *MeshData, normal [3]float32, tri [3][3]float32) {
	if normal == ([3]float32{}) {
		normal = flatNormal(tri[0], tri[1], tri[2])
	}
	for _, p := range tri {
		mesh.Indices = append(mesh.Indices, uint32(len(mesh.Vertices)))
		mesh.Vertices = append(mesh.Vertices, Vertex{Pos: p, Normal: normal})
	}
}
