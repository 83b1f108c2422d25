package video

import (
	"encoding/binary"
	"image"
)

// Bytes returns the framebuffer in presentation format: 4 bytes per pixel,
// little-endian 0x00RRGGBB (B, G, R, X), row-major without padding.
func (f *Framebuffer) Bytes() []byte {
	return Frame{Pixels: f.Pixels, Width: f.Width, Height: f.Height}.Bytes()
}

// Composite returns the frame with the 2D layer over a 3D layer of the
// same size. A 2D pixel of 0 is transparent and lets the 3D color through.
func (f *Framebuffer) Composite(under []uint32) []uint32 {
	out := make([]uint32, len(f.Pixels))
	for i, p := range f.Pixels {
		if p == 0 && i < len(under) {
			out[i] = under[i] & 0x00FFFFFF
			continue
		}
		out[i] = p
	}
	return out
}

// Frame is a presented picture handed to the frontend
type Frame struct {
	Pixels []uint32 // 0x00RRGGBB
	Width  int
	Height int
}

// Snapshot returns the current framebuffer contents as a Frame
func (f *Framebuffer) Snapshot() Frame {
	px := make([]uint32, len(f.Pixels))
	copy(px, f.Pixels)
	return Frame{Pixels: px, Width: f.Width, Height: f.Height}
}

// Bytes returns the frame in presentation format
func (fr Frame) Bytes() []byte {
	out := make([]byte, len(fr.Pixels)*4)
	for i, p := range fr.Pixels {
		binary.LittleEndian.PutUint32(out[i*4:], p)
	}
	return out
}

// At returns the pixel at (x, y), or 0 outside the frame
func (fr Frame) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= fr.Width || y >= fr.Height {
		return 0
	}
	return fr.Pixels[y*fr.Width+x]
}

// Image converts the frame to an opaque RGBA image
func (fr Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fr.Width, fr.Height))
	for i, p := range fr.Pixels {
		img.Pix[i*4] = byte(p >> 16)
		img.Pix[i*4+1] = byte(p >> 8)
		img.Pix[i*4+2] = byte(p)
		img.Pix[i*4+3] = 0xFF
	}
	return img
}
