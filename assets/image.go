package assets

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/wippyai/wasm96/errors"
)

// Image is a decoded bitmap in non-premultiplied RGBA, row-major, 4 bytes
// per pixel.
type Image struct {
	Pix    []byte
	Width  int
	Height int
}

// NewImage allocates a transparent image
func NewImage(w, h int) *Image {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &Image{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// At returns the RGBA bytes of pixel (x, y). Out-of-range reads are
// transparent.
func (m *Image) At(x, y int) (r, g, b, a byte) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, 0, 0, 0
	}
	i := (y*m.Width + x) * 4
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
}

// Scaled returns a nearest-neighbor copy at w×h. The receiver is returned
// unchanged when the size already matches.
func (m *Image) Scaled(w, h int) *Image {
	if w == m.Width && h == m.Height {
		return m
	}
	if w <= 0 || h <= 0 {
		return NewImage(0, 0)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), m.nrgba(), image.Rect(0, 0, m.Width, m.Height), xdraw.Src, nil)
	return &Image{Width: w, Height: h, Pix: dst.Pix}
}

func (m *Image) nrgba() *image.NRGBA {
	return &image.NRGBA{Pix: m.Pix, Stride: m.Width * 4, Rect: image.Rect(0, 0, m.Width, m.Height)}
}

// FromImage converts any image.Image to a non-premultiplied RGBA Image
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && n.Stride == b.Dx()*4 && b.Min == (image.Point{}) {
		pix := make([]byte, len(n.Pix))
		copy(pix, n.Pix)
		return &Image{Width: b.Dx(), Height: b.Dy(), Pix: pix}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// DecodePNG decodes a PNG file
func DecodePNG(data []byte) (*Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Decode("png", err)
	}
	return FromImage(img), nil
}

// DecodeJPEG decodes a baseline or progressive JPEG file
func DecodeJPEG(data []byte) (*Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Decode("jpeg", err)
	}
	return FromImage(img), nil
}

// DecodeAny sniffs PNG, JPEG and GIF signatures and decodes the first frame
func DecodeAny(data []byte) (*Image, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return DecodePNG(data)
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return DecodeJPEG(data)
	case bytes.HasPrefix(data, []byte("GIF8")):
		anim, err := DecodeGIF(data)
		if err != nil {
			return nil, err
		}
		return anim.Frames[0], nil
	default:
		return nil, errors.Decode("image", errors.Unsupported(errors.PhaseDecode, "unknown image signature"))
	}
}
