package assets

import (
	"image"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/wippyai/wasm96/errors"
)

// Font sizes in pixels.
const (
	DefaultTTFSize     = 16
	DefaultBuiltinSize = 16
	maxFontSize        = 256
)

// Font renders text into coverage masks. Bitmap faces are upscaled by an
// integer factor to reach the requested size.
type Font struct {
	face       font.Face
	scale      int
	ascent     int
	lineHeight int
}

// ParseTTF parses a TrueType or OpenType font at the given pixel size
func ParseTTF(data []byte, size float64) (*Font, error) {
	if size <= 0 {
		size = DefaultTTFSize
	}
	if size > maxFontSize {
		size = maxFontSize
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Decode("ttf", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Decode("ttf", err)
	}
	return newFont(face, 1), nil
}

// Builtin returns the built-in monospace font at roughly size pixels tall.
// Small sizes use the 7x13 face; larger ones scale the 8x16 face.
func Builtin(size int) *Font {
	if size <= 0 {
		size = DefaultBuiltinSize
	}
	if size > maxFontSize {
		size = maxFontSize
	}
	if size < 16 {
		return newFont(basicfont.Face7x13, 1)
	}
	return newFont(inconsolata.Regular8x16, size/16)
}

func newFont(face font.Face, scale int) *Font {
	m := face.Metrics()
	lh := m.Height.Ceil()
	if lh <= 0 {
		lh = (m.Ascent + m.Descent).Ceil()
	}
	return &Font{face: face, scale: scale, ascent: m.Ascent.Ceil(), lineHeight: lh}
}

// LineHeight returns the distance between baselines in pixels
func (f *Font) LineHeight() int {
	return f.lineHeight * f.scale
}

// Measure returns the size of the text box. Newlines start a new line;
// empty text measures 0×0.
func (f *Font) Measure(text string) (w, h int) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if lw := font.MeasureString(f.face, line).Ceil(); lw > w {
			w = lw
		}
	}
	return w * f.scale, len(lines) * f.lineHeight * f.scale
}

// Render draws text into a coverage mask the size of Measure(text).
// Returns nil for empty text.
func (f *Font) Render(text string) *image.Alpha {
	w, h := f.Measure(text)
	if w == 0 || h == 0 {
		return nil
	}
	bw, bh := w/f.scale, h/f.scale
	mask := image.NewAlpha(image.Rect(0, 0, bw, bh))
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: f.face}
	for i, line := range strings.Split(text, "\n") {
		d.Dot = fixed.P(0, f.ascent+i*f.lineHeight)
		d.DrawString(line)
	}
	if f.scale == 1 {
		return mask
	}
	scaled := image.NewAlpha(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
	return scaled
}
