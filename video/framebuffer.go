package video

// Default framebuffer geometry and draw color.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
	DefaultColor  = 0x00FFFFFF
)

// MaxDimension bounds every framebuffer and scaled image dimension.
const MaxDimension = 4096

// Framebuffer is the host-owned 2D surface. Pixels are packed 0x00RRGGBB,
// row-major, len(Pixels) == Width*Height at all times.
type Framebuffer struct {
	Pixels []uint32
	Width  int
	Height int
	Color  uint32
}

// New creates a cleared framebuffer with the default draw color
func New(width, height int) *Framebuffer {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &Framebuffer{
		Pixels: make([]uint32, width*height),
		Width:  width,
		Height: height,
		Color:  DefaultColor,
	}
}

// Pack packs 8-bit channels as 0x00RRGGBB. Only the low byte of each
// argument is used.
func Pack(r, g, b uint32) uint32 {
	return (r&0xFF)<<16 | (g&0xFF)<<8 | b&0xFF
}

// SetSize replaces the framebuffer with a cleared one of the new size.
// A zero dimension is ignored.
func (f *Framebuffer) SetSize(w, h uint32) {
	if w == 0 || h == 0 {
		return
	}
	if w > MaxDimension {
		w = MaxDimension
	}
	if h > MaxDimension {
		h = MaxDimension
	}
	f.Width, f.Height = int(w), int(h)
	f.Pixels = make([]uint32, f.Width*f.Height)
}

// SetColor sets the draw color. Alpha is accepted and ignored.
func (f *Framebuffer) SetColor(r, g, b, _ uint32) {
	f.Color = Pack(r, g, b)
}

// Background fills the whole framebuffer
func (f *Framebuffer) Background(r, g, b uint32) {
	c := Pack(r, g, b)
	for i := range f.Pixels {
		f.Pixels[i] = c
	}
}

// Clear sets every pixel to 0
func (f *Framebuffer) Clear() {
	clear(f.Pixels)
}

// At returns the pixel at (x, y), or 0 outside the framebuffer
func (f *Framebuffer) At(x, y int) uint32 {
	if !f.inside(x, y) {
		return 0
	}
	return f.Pixels[y*f.Width+x]
}

func (f *Framebuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// plot writes the draw color at (x, y) when inside
func (f *Framebuffer) plot(x, y int) {
	if f.inside(x, y) {
		f.Pixels[y*f.Width+x] = f.Color
	}
}

// span fills [x0, x1) on row y, clipped
func (f *Framebuffer) span(y, x0, x1 int) {
	if y < 0 || y >= f.Height {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, f.Width)
	row := f.Pixels[y*f.Width : (y+1)*f.Width]
	for x := x0; x < x1; x++ {
		row[x] = f.Color
	}
}

// countNonZero returns the number of non-black pixels
func (f *Framebuffer) countNonZero() int {
	n := 0
	for _, p := range f.Pixels {
		if p != 0 {
			n++
		}
	}
	return n
}
