package assets

import (
	"bytes"
	"image"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/wippyai/wasm96/errors"
)

// maxSVGCacheEntries bounds the per-icon rasterization cache
const maxSVGCacheEntries = 8

// SVG is a parsed vector image rasterized on demand. Rasterizations are
// cached per target size.
type SVG struct {
	icon  *oksvg.SvgIcon
	cache map[[2]int]*Image
	order [][2]int
	mu    sync.Mutex
}

// DecodeSVG parses an SVG document
func DecodeSVG(data []byte) (*SVG, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, errors.Decode("svg", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, errors.Decode("svg", errors.InvalidData(errors.PhaseDecode, []string{"viewBox"}, "empty viewBox"))
	}
	return &SVG{icon: icon, cache: make(map[[2]int]*Image)}, nil
}

// NaturalSize returns the viewBox size rounded to pixels
func (s *SVG) NaturalSize() (int, int) {
	return int(s.icon.ViewBox.W + 0.5), int(s.icon.ViewBox.H + 0.5)
}

// Rasterize renders the icon scaled to w×h
func (s *SVG) Rasterize(w, h int) *Image {
	if w <= 0 || h <= 0 {
		return NewImage(0, 0)
	}
	size := [2]int{w, h}

	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.cache[size]; ok {
		return img
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	s.icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	s.icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	img := FromImage(rgba)

	if len(s.order) >= maxSVGCacheEntries {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[size] = img
	s.order = append(s.order, size)
	return img
}
