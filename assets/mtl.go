package assets

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/wippyai/wasm96/errors"
)

// Material is the subset of an MTL material the host uses
type Material struct {
	Name       string
	DiffuseMap string // map_Kd file name
	Diffuse    [3]float32
}

// ParseMTL parses a Wavefront material library
func ParseMTL(data []byte) (map[string]*Material, error) {
	mats := make(map[string]*Material)
	var cur *Material
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				continue
			}
			cur = &Material{Name: strings.Join(fields[1:], " "), Diffuse: [3]float32{1, 1, 1}}
			mats[cur.Name] = cur
		case "Kd":
			if cur == nil {
				continue
			}
			if p, err := parseFloats(fields[1:], 3); err == nil {
				cur.Diffuse = [3]float32{p[0], p[1], p[2]}
			}
		case "map_Kd":
			if cur == nil || len(fields) < 2 {
				continue
			}
			// Options such as -s or -o precede the file name, which is last.
			cur.DiffuseMap = fields[len(fields)-1]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Decode("mtl", err)
	}
	return mats, nil
}

// DiffuseMap returns the map_Kd file name of the named material
func DiffuseMap(data []byte, material string) (string, error) {
	mats, err := ParseMTL(data)
	if err != nil {
		return "", err
	}
	m, ok := mats[material]
	if !ok {
		return "", errors.NotFound(errors.PhaseDecode, "material", material)
	}
	if m.DiffuseMap == "" {
		return "", errors.NotFound(errors.PhaseDecode, "map_Kd of material", material)
	}
	return m.DiffuseMap, nil
}
