package video

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/wippyai/wasm96/assets"
)

func TestNew_Defaults(t *testing.T) {
	f := New(0, 0)
	if f.Width != 320 || f.Height != 240 || len(f.Pixels) != 320*240 {
		t.Fatalf("default size = %dx%d (%d)", f.Width, f.Height, len(f.Pixels))
	}
	if f.Color != 0x00FFFFFF {
		t.Errorf("default color = %#x", f.Color)
	}
}

func TestPoint(t *testing.T) {
	f := New(8, 8)
	f.SetColor(10, 20, 30, 255)
	f.Point(3, 4)
	if got := f.Pixels[4*8+3]; got != 0x000A141E {
		t.Fatalf("pixel = %#x, want 0x000A141E", got)
	}

	f.Point(-1, 0)
	f.Point(8, 0)
	f.Point(0, 100)
	if f.countNonZero() != 1 {
		t.Errorf("out-of-bounds points must be clipped, nonzero = %d", f.countNonZero())
	}
}

func TestSetSize(t *testing.T) {
	f := New(8, 8)
	f.Background(1, 2, 3)

	f.SetSize(0, 5)
	f.SetSize(5, 0)
	if f.Width != 8 || f.Height != 8 || f.Pixels[0] == 0 {
		t.Fatal("zero dimension must be a no-op")
	}

	f.SetSize(4, 3)
	if f.Width != 4 || f.Height != 3 || len(f.Pixels) != 12 {
		t.Fatalf("size = %dx%d len %d", f.Width, f.Height, len(f.Pixels))
	}
	if f.countNonZero() != 0 {
		t.Error("resize must clear")
	}
}

func TestLine(t *testing.T) {
	f := New(10, 10)
	f.Line(0, 0, 9, 9)
	for i := 0; i < 10; i++ {
		if f.At(i, i) == 0 {
			t.Errorf("diagonal pixel %d missing", i)
		}
	}
	if f.countNonZero() != 10 {
		t.Errorf("nonzero = %d, want 10", f.countNonZero())
	}

	g := New(10, 10)
	g.Line(-5, 2, 20, 2)
	if g.countNonZero() != 10 {
		t.Errorf("clipped horizontal line nonzero = %d", g.countNonZero())
	}

	h := New(10, 10)
	h.Line(-2000000000, 5, 2000000000, 5)
	if h.countNonZero() != 10 {
		t.Errorf("long line nonzero = %d", h.countNonZero())
	}
}

func TestRect(t *testing.T) {
	tests := []struct {
		name string
		x, y int32
		w, h uint32
		want int
	}{
		{"inside", 1, 1, 3, 2, 6},
		{"clipped", -2, -2, 4, 4, 4},
		{"empty", 2, 2, 0, 5, 0},
		{"offscreen", 20, 20, 5, 5, 0},
		{"huge", -100, -100, 0xFFFFFFFF, 0xFFFFFFFF, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(8, 8)
			f.Rect(tt.x, tt.y, tt.w, tt.h)
			if got := f.countNonZero(); got != tt.want {
				t.Errorf("nonzero = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRectOutline(t *testing.T) {
	f := New(10, 10)
	f.RectOutline(1, 1, 3, 3)
	// Edges run to x+w and y+h inclusive: a 4x4 ring.
	if f.countNonZero() != 12 {
		t.Errorf("nonzero = %d, want 12", f.countNonZero())
	}
	if f.At(4, 4) == 0 || f.At(2, 2) != 0 {
		t.Error("outline shape wrong")
	}
}

func TestCircle(t *testing.T) {
	f := New(20, 20)
	f.Circle(10, 10, 3)
	if f.At(10, 10) == 0 || f.At(7, 10) == 0 {
		t.Error("center and left edge should be filled")
	}
	if f.At(13, 10) != 0 {
		t.Error("box is half-open: cx+r is excluded")
	}

	g := New(20, 20)
	g.CircleOutline(10, 10, 5)
	for _, p := range [][2]int{{10, 15}, {10, 5}, {15, 10}, {5, 10}} {
		if g.At(p[0], p[1]) == 0 {
			t.Errorf("outline missing %v", p)
		}
	}
	if g.At(10, 10) != 0 {
		t.Error("outline must not fill")
	}

	h := New(4, 4)
	h.Circle(2, 2, 0xFFFFFFFF)
	if h.countNonZero() != 16 {
		t.Errorf("huge circle nonzero = %d", h.countNonZero())
	}
}

func TestTriangle_Degenerate(t *testing.T) {
	f := New(16, 16)
	f.SetColor(255, 0, 0, 255)
	f.Triangle(1, 1, 5, 5, 10, 10)
	if f.countNonZero() != 0 {
		t.Fatalf("collinear triangle painted %d pixels", f.countNonZero())
	}
}

func TestTriangle_WindingInvariant(t *testing.T) {
	cw := New(64, 64)
	cw.Triangle(5, 5, 50, 10, 20, 55)
	ccw := New(64, 64)
	ccw.Triangle(5, 5, 20, 55, 50, 10)

	a, b := cw.countNonZero(), ccw.countNonZero()
	if a == 0 {
		t.Fatal("triangle painted nothing")
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff > 64 {
		t.Errorf("winding changed coverage: %d vs %d", a, b)
	}
}

func TestTriangleOutline(t *testing.T) {
	f := New(16, 16)
	f.TriangleOutline(1, 1, 10, 1, 1, 10)
	if f.At(1, 1) == 0 || f.At(10, 1) == 0 || f.At(1, 10) == 0 {
		t.Error("vertices missing")
	}
	if f.At(3, 3) != 0 {
		t.Error("outline must not fill")
	}
}

func TestBezier(t *testing.T) {
	f := New(32, 32)
	f.BezierQuadratic(0, 0, 16, 31, 31, 0, 0)
	if f.At(0, 0) == 0 || f.At(31, 0) == 0 {
		t.Error("quadratic endpoints missing")
	}
	if f.At(16, 16) == 0 {
		t.Error("quadratic apex missing")
	}

	g := New(32, 32)
	g.BezierCubic(0, 0, 0, 31, 31, 31, 31, 0, 4)
	if g.At(0, 0) == 0 || g.At(31, 0) == 0 || g.countNonZero() < 10 {
		t.Error("cubic not drawn")
	}
}

func TestPill(t *testing.T) {
	f := New(20, 20)
	f.Pill(0, 0, 10, 4)
	if f.At(5, 2) == 0 {
		t.Error("pill center missing")
	}
	if f.At(0, 0) != 0 {
		t.Error("rounded corner should be empty")
	}
	filled := f.countNonZero()

	g := New(20, 20)
	g.PillOutline(0, 0, 10, 4)
	if g.countNonZero() >= filled || g.countNonZero() == 0 {
		t.Errorf("outline %d vs fill %d", g.countNonZero(), filled)
	}

	h := New(20, 20)
	h.Pill(0, 0, 0, 5)
	if h.countNonZero() != 0 {
		t.Error("empty pill should draw nothing")
	}
}

func TestBlit(t *testing.T) {
	f := New(4, 4)
	rgba := []byte{
		255, 0, 0, 255, 0, 255, 0, 0,
		0, 0, 255, 1, 9, 9, 9, 255,
	}
	f.Blit(1, 1, 2, 2, rgba)
	if f.At(1, 1) != 0x00FF0000 {
		t.Errorf("opaque pixel = %#x", f.At(1, 1))
	}
	if f.At(2, 1) != 0 {
		t.Error("alpha 0 must be skipped")
	}
	if f.At(1, 2) != 0x000000FF {
		t.Error("any alpha > 0 overwrites")
	}

	g := New(4, 4)
	g.Blit(0, 0, 2, 2, rgba[:15])
	if g.countNonZero() != 0 {
		t.Error("short buffer must draw nothing")
	}
	g.Blit(0, 0, 0x10000, 0x10000, rgba)
	if g.countNonZero() != 0 {
		t.Error("oversized request must draw nothing")
	}
}

func TestDrawImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	src.SetNRGBA(1, 1, color.NRGBA{})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := assets.DecodePNG(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	f := New(8, 8)
	f.DrawImage(img, 6, 6)
	if f.countNonZero() != 3 {
		t.Errorf("png blit nonzero = %d, want 3", f.countNonZero())
	}

	g := New(8, 8)
	g.DrawImageScaled(img, 0, 0, 4, 4)
	if g.countNonZero() != 12 {
		t.Errorf("scaled nonzero = %d, want 12", g.countNonZero())
	}
	g.DrawImage(nil, 0, 0)
}

func TestText(t *testing.T) {
	font := assets.Builtin(16)
	f := New(64, 32)
	f.SetColor(0, 255, 0, 255)
	f.Text(font, 2, 2, "Hi")
	if f.countNonZero() == 0 {
		t.Fatal("text drew nothing")
	}
	for i, p := range f.Pixels {
		if p != 0 && p != 0x0000FF00 {
			t.Fatalf("pixel %d = %#x, text must use the draw color", i, p)
		}
	}

	g := New(8, 8)
	g.Text(font, 0, 0, "")
	g.Text(nil, 0, 0, "x")
	if g.countNonZero() != 0 {
		t.Error("empty text or nil font must draw nothing")
	}
}

func TestPresentation(t *testing.T) {
	f := New(2, 1)
	f.Pixels[0] = 0x00112233
	b := f.Bytes()
	if !bytes.Equal(b[:4], []byte{0x33, 0x22, 0x11, 0x00}) {
		t.Errorf("bytes = %x", b[:4])
	}

	out := f.Composite([]uint32{0x00AAAAAA, 0xFF445566})
	if out[0] != 0x00112233 || out[1] != 0x00445566 {
		t.Errorf("composite = %#x", out)
	}

	snap := f.Snapshot()
	f.Pixels[0] = 0
	if snap.At(0, 0) != 0x00112233 {
		t.Error("snapshot must copy")
	}
	img := snap.Image()
	if img.Pix[0] != 0x11 || img.Pix[3] != 0xFF {
		t.Errorf("image pix = %v", img.Pix[:4])
	}
}
