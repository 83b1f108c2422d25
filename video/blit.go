package video

import "github.com/wippyai/wasm96/assets"

// Blit copies RGBA pixels (4 bytes each, row-major) to (x, y). Pixels with
// alpha > 0 overwrite the destination RGB; alpha 0 is skipped. Nothing is
// drawn when rgba holds fewer than w*h*4 bytes.
func (f *Framebuffer) Blit(x, y int32, w, h uint32, rgba []byte) {
	need := uint64(w) * uint64(h) * 4
	if uint64(len(rgba)) < need || w == 0 || h == 0 {
		return
	}
	f.blit(int(x), int(y), int(w), int(h), rgba)
}

// DrawImage blits a decoded image at its natural size
func (f *Framebuffer) DrawImage(img *assets.Image, x, y int32) {
	if img == nil {
		return
	}
	f.blit(int(x), int(y), img.Width, img.Height, img.Pix)
}

// DrawImageScaled blits a decoded image nearest-neighbor scaled to w×h
func (f *Framebuffer) DrawImageScaled(img *assets.Image, x, y int32, w, h uint32) {
	if img == nil || w == 0 || h == 0 || w > MaxDimension || h > MaxDimension {
		return
	}
	f.DrawImage(img.Scaled(int(w), int(h)), x, y)
}

func (f *Framebuffer) blit(x, y, w, h int, rgba []byte) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, f.Width), min(y+h, f.Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for yy := y0; yy < y1; yy++ {
		src := (yy - y) * w * 4
		dst := yy * f.Width
		for xx := x0; xx < x1; xx++ {
			i := src + (xx-x)*4
			if rgba[i+3] == 0 {
				continue
			}
			f.Pixels[dst+xx] = uint32(rgba[i])<<16 | uint32(rgba[i+1])<<8 | uint32(rgba[i+2])
		}
	}
}
