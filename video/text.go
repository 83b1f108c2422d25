package video

import "github.com/wippyai/wasm96/assets"

// coverageThreshold is the glyph coverage at which a pixel is painted.
// The framebuffer has no alpha, so text is drawn without anti-aliasing.
const coverageThreshold = 128

// Text draws text with the draw color; (x, y) is the top-left corner of
// the text box.
func (f *Framebuffer) Text(font *assets.Font, x, y int32, text string) {
	if font == nil {
		return
	}
	mask := font.Render(text)
	if mask == nil {
		return
	}
	b := mask.Bounds()
	ox, oy := int(x), int(y)
	for my := b.Min.Y; my < b.Max.Y; my++ {
		py := oy + my
		if py < 0 || py >= f.Height {
			continue
		}
		row := mask.Pix[(my-b.Min.Y)*mask.Stride:]
		for mx := b.Min.X; mx < b.Max.X; mx++ {
			if row[mx-b.Min.X] < coverageThreshold {
				continue
			}
			f.plot(ox+mx, py)
		}
	}
}
