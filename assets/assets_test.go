package assets

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := DecodePNG(encodePNG(t, 3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Len(t, img.Pix, 3*2*4)
	r, g, b, a := img.At(2, 1)
	assert.Equal(t, []byte{10, 20, 30, 255}, []byte{r, g, b, a})

	_, _, _, a = img.At(5, 5)
	assert.Zero(t, a, "out-of-range reads are transparent")

	_, err = DecodePNG([]byte("nope"))
	assert.Error(t, err)
}

func TestDecodeJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := DecodeJPEG(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)

	sniffed, err := DecodeAny(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, sniffed.Height)
}

func TestImage_Scaled(t *testing.T) {
	img, err := DecodePNG(encodePNG(t, 2, 2, color.NRGBA{R: 255, A: 255}))
	require.NoError(t, err)

	same := img.Scaled(2, 2)
	assert.Same(t, img, same)

	big := img.Scaled(6, 4)
	assert.Equal(t, 6, big.Width)
	assert.Equal(t, 4, big.Height)
	r, _, _, a := big.At(5, 3)
	assert.Equal(t, byte(255), r)
	assert.Equal(t, byte(255), a)

	assert.Equal(t, 0, img.Scaled(0, 3).Width)
}

func TestDecodeGIF_Timing(t *testing.T) {
	pal := color.Palette{color.Transparent, color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255}}
	frame := func(idx uint8) *image.Paletted {
		p := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
		for i := range p.Pix {
			p.Pix[i] = idx
		}
		return p
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image: []*image.Paletted{frame(1), frame(2)},
		Delay: []int{10, 5}, // 100ms, 50ms
	}))

	anim, err := DecodeGIF(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, anim.Frames, 2)
	assert.Equal(t, []int{100, 50}, anim.Delays)
	assert.Equal(t, 150, anim.TotalMs)
	assert.Equal(t, 4, anim.Width())

	tests := []struct {
		ms   int64
		blue bool
	}{
		{0, false},
		{99, false},
		{100, true},
		{149, true},
		{150, false}, // loops
		{-5, false},
	}
	for _, tt := range tests {
		_, _, b, _ := anim.FrameAt(tt.ms).At(0, 0)
		assert.Equal(t, tt.blue, b == 255, "ms=%d", tt.ms)
	}
}

func TestDecodeSVG(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">
<rect x="0" y="0" width="10" height="10" fill="#00ff00"/></svg>`
	svg, err := DecodeSVG([]byte(doc))
	require.NoError(t, err)

	w, h := svg.NaturalSize()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)

	img := svg.Rasterize(20, 20)
	require.Equal(t, 20, img.Width)
	_, g, _, a := img.At(10, 10)
	assert.Equal(t, byte(255), g)
	assert.Equal(t, byte(255), a)

	assert.Same(t, img, svg.Rasterize(20, 20), "same size is cached")
	assert.Equal(t, 0, svg.Rasterize(0, 5).Width)

	_, err = DecodeSVG([]byte("<not-svg"))
	assert.Error(t, err)
}

func TestFonts(t *testing.T) {
	small := Builtin(8)
	w, h := small.Measure("ab")
	assert.Equal(t, 14, w)
	assert.Equal(t, 13, h)

	big := Builtin(32)
	w, h = big.Measure("ab")
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)
	w2, h2 := big.Measure("ab\nabc")
	assert.Equal(t, 48, w2)
	assert.Equal(t, 64, h2)
	assert.Equal(t, 32, big.LineHeight())

	mask := big.Render("A")
	require.NotNil(t, mask)
	assert.Equal(t, image.Rect(0, 0, 16, 32), mask.Bounds())
	var ink int
	for _, a := range mask.Pix {
		if a > 0 {
			ink++
		}
	}
	assert.Positive(t, ink)

	assert.Nil(t, big.Render(""))
	w, h = big.Measure("")
	assert.Zero(t, w+h)

	ttf, err := ParseTTF(goregular.TTF, 0)
	require.NoError(t, err)
	w, h = ttf.Measure("Hello")
	assert.Positive(t, w)
	assert.Positive(t, h)

	_, err = ParseTTF([]byte("garbage"), 12)
	assert.Error(t, err)
}

func TestVertices_PackUnpack(t *testing.T) {
	vs := []Vertex{{Pos: [3]float32{1, 2, 3}, UV: [2]float32{0.5, 1}, Normal: [3]float32{0, 1, 0}}}
	data := PackVertices(vs)
	require.Len(t, data, VertexSize)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(data[4:])))

	got, err := UnpackVertices(data, 1)
	require.NoError(t, err)
	assert.Equal(t, vs, got)

	_, err = UnpackVertices(data, 2)
	assert.Error(t, err)
}

func TestMeshData_Validate(t *testing.T) {
	vs := make([]Vertex, 3)
	tests := []struct {
		name    string
		indices []uint32
		wantErr bool
	}{
		{"ok", []uint32{0, 1, 2}, false},
		{"not multiple of 3", []uint32{0, 1}, true},
		{"out of range", []uint32{0, 1, 3}, true},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&MeshData{Vertices: vs, Indices: tt.indices}).Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestParseOBJ(t *testing.T) {
	src := `# quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
f -4/-4/-1 -2/-2/-1 -1/-1/-1
`
	mesh, err := ParseOBJ([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 3, mesh.TriangleCount())
	assert.Len(t, mesh.Vertices, 4, "shared corners are deduplicated")
	require.NoError(t, mesh.Validate())
	assert.Equal(t, float32(1), mesh.Vertices[0].UV[1], "v is flipped")
	assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[0].Normal)

	flat, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 0, 1}, flat.Vertices[0].Normal)

	bad := []string{
		"v 0 0 0\nf 1 2 3\n",
		"v 0 0\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2\n",
		"# nothing\n",
	}
	for _, s := range bad {
		_, err := ParseOBJ([]byte(s))
		assert.Error(t, err, "input %q", s)
	}
}

func TestParseSTL(t *testing.T) {
	ascii := `solid tri
facet normal 0 0 0
 outer loop
  vertex 0 0 0
  vertex 1 0 0
  vertex 0 1 0
 endloop
endfacet
endsolid tri
`
	mesh, err := ParseSTL([]byte(ascii))
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[0].Normal)

	bin := make([]byte, stlHeaderSize+4+stlTriangleSize)
	copy(bin, "solid but actually binary")
	binary.LittleEndian.PutUint32(bin[stlHeaderSize:], 1)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(bin[off:], math.Float32bits(v))
	}
	base := stlHeaderSize + 4
	put(base+8, 1)     // normal z
	put(base+12+12, 2) // second vertex x
	put(base+12+28, 3) // third vertex y
	mesh, err = ParseSTL(bin)
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, float32(2), mesh.Vertices[1].Pos[0])
	assert.Equal(t, float32(3), mesh.Vertices[2].Pos[1])
	assert.Equal(t, [3]float32{0, 0, 1}, mesh.Vertices[0].Normal)

	_, err = ParseSTL([]byte("garbage"))
	assert.Error(t, err)
}

func TestParseMTL(t *testing.T) {
	src := `newmtl crate
Kd 0.5 0.5 0.5
map_Kd -s 1 1 1 crate.png
newmtl plain
Kd 1 0 0
`
	mats, err := ParseMTL([]byte(src))
	require.NoError(t, err)
	require.Contains(t, mats, "crate")
	assert.Equal(t, "crate.png", mats["crate"].DiffuseMap)
	assert.Equal(t, [3]float32{1, 0, 0}, mats["plain"].Diffuse)

	name, err := DiffuseMap([]byte(src), "crate")
	require.NoError(t, err)
	assert.Equal(t, "crate.png", name)

	_, err = DiffuseMap([]byte(src), "plain")
	assert.Error(t, err)
	_, err = DiffuseMap([]byte(src), "missing")
	assert.Error(t, err)
}
