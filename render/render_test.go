package render

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/assets"
)

const size = 64

// flat white lit by normal (0,0,1): 255 * dot(n, normalize(0.5,1,0.5)) = 104
const litWhite = 0x00686868

func triangle(z float32, ccw bool) *assets.MeshData {
	n := [3]float32{0, 0, 1}
	m := &assets.MeshData{
		Vertices: []assets.Vertex{
			{Pos: [3]float32{-1, -1, z}, UV: [2]float32{0, 1}, Normal: n},
			{Pos: [3]float32{1, -1, z}, UV: [2]float32{1, 1}, Normal: n},
			{Pos: [3]float32{0, 1, z}, UV: [2]float32{0.5, 0}, Normal: n},
		},
		Indices: []uint32{0, 1, 2},
	}
	if !ccw {
		m.Indices = []uint32{0, 2, 1}
	}
	return m
}

func identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func newReady(t *testing.T) *State {
	t.Helper()
	s := New(NewSoftware(), size, size)
	require.NoError(t, s.ContextReset())
	s.SetEnabled(true)
	s.PrepareFrame(size, size)
	return s
}

func center(out []uint32) uint32 {
	return out[size/2*size+size/2]
}

func countLit(out []uint32) int {
	n := 0
	for _, p := range out {
		if p != 0 {
			n++
		}
	}
	return n
}

func TestDefaultCamera(t *testing.T) {
	cam := DefaultCamera(320, 240)
	want := mgl32.Perspective(mgl32.DegToRad(45), 320.0/240.0, 0.1, 100)
	assert.True(t, cam.Projection.ApproxEqual(want))
	assert.True(t, cam.View.ApproxEqual(mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})))
}

func TestResize_FollowsAspectUntilSet(t *testing.T) {
	s := New(nil, 320, 240)
	s.Resize(100, 50)
	assert.True(t, s.Camera().Projection.ApproxEqual(mgl32.Perspective(DefaultFovY, 2, DefaultNear, DefaultFar)))

	custom := mgl32.Perspective(1, 1, 1, 10)
	s.Perspective(1, 1, 1, 10)
	s.Resize(300, 50)
	assert.True(t, s.Camera().Projection.ApproxEqual(custom))
}

func TestContextLifecycle(t *testing.T) {
	s := New(NewSoftware(), size, size)
	assert.Equal(t, ContextUninitialized, s.Context())

	s.ContextDestroy()
	assert.Equal(t, ContextUninitialized, s.Context())

	require.NoError(t, s.ContextReset())
	assert.Equal(t, ContextReady, s.Context())

	s.ContextDestroy()
	assert.Equal(t, ContextLost, s.Context())
	assert.Equal(t, "lost", s.Context().String())

	require.NoError(t, s.ContextReset())
	assert.Equal(t, ContextReady, s.Context())
}

func TestCreateMesh_Validation(t *testing.T) {
	s := New(nil, size, size)

	bad := triangle(0, true)
	bad.Indices = []uint32{0, 1}
	assert.Error(t, s.CreateMesh(1, bad))

	bad = triangle(0, true)
	bad.Indices = []uint32{0, 1, 3}
	assert.Error(t, s.CreateMesh(1, bad))
	assert.Equal(t, 0, s.Meshes.Len())

	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	assert.Equal(t, 1, s.Meshes.Len())

	assert.False(t, s.SetTexture(2, 7))
	assert.True(t, s.SetTexture(1, 7))
}

func TestDrawMesh_Flat(t *testing.T) {
	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))

	out := s.Output()
	require.Len(t, out, size*size)
	assert.Equal(t, uint32(litWhite), center(out))
	assert.Equal(t, uint32(0), out[0])
}

func TestDrawMesh_BackFaceCulled(t *testing.T) {
	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, false)))
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))
	assert.Equal(t, 0, countLit(s.Output()))
}

func TestDrawMesh_NoOps(t *testing.T) {
	s := New(NewSoftware(), size, size)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))

	// context not initialized
	s.SetEnabled(true)
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))
	assert.Nil(t, s.Output())
	assert.Equal(t, 0, s.Stats().Uploads)

	// disabled
	require.NoError(t, s.ContextReset())
	s.SetEnabled(false)
	s.PrepareFrame(size, size)
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))
	assert.Nil(t, s.Output())

	// unknown key
	s.SetEnabled(true)
	s.PrepareFrame(size, size)
	require.NoError(t, s.DrawMesh(99, identity(), 0xFFFFFF, nil))
	assert.Equal(t, 0, countLit(s.Output()))
}

func TestDrawMesh_UnregisteredTextureDrawsFlat(t *testing.T) {
	flat := newReady(t)
	require.NoError(t, flat.CreateMesh(1, triangle(0, true)))
	require.NoError(t, flat.DrawMesh(1, identity(), 0xFFFFFF, nil))

	textured := newReady(t)
	require.NoError(t, textured.CreateMesh(1, triangle(0, true)))
	require.True(t, textured.SetTexture(1, abi.HashKey("missing.png")))
	lookup := func(abi.Key) *assets.Image { return nil }
	require.NoError(t, textured.DrawMesh(1, identity(), 0xFFFFFF, lookup))

	assert.Equal(t, flat.Output(), textured.Output())
	assert.NotZero(t, countLit(textured.Output()))
}

func TestDrawMesh_Textured(t *testing.T) {
	red := assets.NewImage(1, 1)
	copy(red.Pix, []byte{0xFF, 0, 0, 0xFF})
	clearTex := assets.NewImage(1, 1)

	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	require.True(t, s.SetTexture(1, 5))

	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, func(k abi.Key) *assets.Image {
		if k == 5 {
			return red
		}
		return nil
	}))
	assert.Equal(t, uint32(0x00680000), center(s.Output()))

	s.PrepareFrame(size, size)
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, func(abi.Key) *assets.Image { return clearTex }))
	assert.Equal(t, 0, countLit(s.Output()))
}

func TestDrawMesh_DepthTest(t *testing.T) {
	for _, nearFirst := range []bool{true, false} {
		s := newReady(t)
		require.NoError(t, s.CreateMesh(1, triangle(0.5, true)))
		require.NoError(t, s.CreateMesh(2, triangle(-0.5, true)))

		order := []abi.Key{2, 1}
		if nearFirst {
			order = []abi.Key{1, 2}
		}
		for _, k := range order {
			color := uint32(0xFF0000)
			if k == 1 {
				color = 0x00FF00
			}
			require.NoError(t, s.DrawMesh(k, identity(), color, nil))
		}
		assert.Equal(t, uint32(0x00006800), center(s.Output()), "nearFirst=%v", nearFirst)
	}
}

func TestDrawMesh_UploadsOnce(t *testing.T) {
	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	for range 3 {
		require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))
	}
	st := s.Stats()
	assert.Equal(t, 1, st.Uploads)
	assert.Equal(t, 1, st.Live)

	// replacing releases the old upload
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	st = s.Stats()
	assert.Equal(t, 0, st.Live)
	assert.Equal(t, 1, st.Releases)
}

func TestContextReset_RedrawIdentical(t *testing.T) {
	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	tr := identity()
	tr.Rotation = mgl32.Vec3{0.2, 0.3, 0.1}
	require.NoError(t, s.DrawMesh(1, tr, 0x80C0FF, nil))
	before := slices.Clone(s.Output())
	require.NotZero(t, countLit(before))

	s.ContextDestroy()
	assert.Equal(t, 0, s.Stats().Live)
	m, _ := s.Meshes.Get(1)
	assert.False(t, m.Uploaded())

	// lost context: frames skip the 3D pass
	s.PrepareFrame(size, size)
	require.NoError(t, s.DrawMesh(1, tr, 0x80C0FF, nil))
	assert.Nil(t, s.Output())

	require.NoError(t, s.ContextReset())
	s.PrepareFrame(size, size)
	require.NoError(t, s.DrawMesh(1, tr, 0x80C0FF, nil))
	assert.Equal(t, before, s.Output())
	assert.Equal(t, 2, s.Stats().Uploads)
}

func TestReset(t *testing.T) {
	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))
	s.LookAt(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	s.Reset(size, size)
	assert.False(t, s.Enabled())
	assert.Equal(t, 0, s.Meshes.Len())
	assert.Equal(t, 0, s.Stats().Live)
	assert.Equal(t, ContextReady, s.Context())
	assert.True(t, s.Camera().View.ApproxEqual(DefaultCamera(size, size).View))
}

func TestDrawMesh_DegenerateCamera(t *testing.T) {
	s := newReady(t)
	require.NoError(t, s.CreateMesh(1, triangle(0, true)))
	s.LookAt(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{})
	s.Perspective(0, 0, 0, 0)
	require.NoError(t, s.DrawMesh(1, identity(), 0xFFFFFF, nil))
	assert.Equal(t, 0, countLit(s.Output()))
}
