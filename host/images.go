package host

import (
	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/assets"
	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/resource"
	"github.com/wippyai/wasm96/video"
)

// register decodes guest bytes and stores the result under the guest key.
// A failed decode leaves any previous entry in place.
func register[T any](h *Host, op string, table *resource.Table[T], mem engine.Memory,
	keyPtr, keyLen, dataPtr, dataLen uint32, decode func([]byte) (T, error)) bool {
	key, ok := h.readKey(mem, keyPtr, keyLen)
	if !ok {
		return false
	}
	data, ok := h.readBlob(op, mem, dataPtr, dataLen, maxAssetBytes)
	if !ok {
		return false
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	if err := table.Load(key, func() (T, error) { return decode(data) }); err != nil {
		h.warn(op, err)
		return false
	}
	return true
}

func unregister[T any](h *Host, table *resource.Table[T], mem engine.Memory, keyPtr, keyLen uint32) {
	key, ok := h.readKey(mem, keyPtr, keyLen)
	if !ok {
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	table.Remove(key)
}

// drawImage blits the image stored under the guest key. Zero w and h draw
// at natural size.
func (h *Host) drawImage(mem engine.Memory, keyPtr, keyLen uint32, x, y int32, w, ht uint32,
	lookup func(abi.Key) *assets.Image) {
	key, ok := h.readKey(mem, keyPtr, keyLen)
	if !ok {
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	img := lookup(key)
	if img == nil {
		return
	}
	if w == 0 && ht == 0 {
		h.ctx.Video.DrawImage(img, x, y)
		return
	}
	h.ctx.Video.DrawImageScaled(img, x, y, w, ht)
}

func (h *Host) png(key abi.Key) *assets.Image {
	img, _ := h.ctx.PNGs.Get(key)
	return img
}

func (h *Host) jpeg(key abi.Key) *assets.Image {
	img, _ := h.ctx.JPEGs.Get(key)
	return img
}

func (h *Host) gifFrame(key abi.Key) *assets.Image {
	anim, ok := h.ctx.GIFs.Get(key)
	if !ok {
		return nil
	}
	return anim.FrameAt(h.ctx.Millis())
}

func (h *Host) RegisterPNG(mem engine.Memory, keyPtr, keyLen, dataPtr, dataLen uint32) bool {
	return register(h, "png_register", h.ctx.PNGs, mem, keyPtr, keyLen, dataPtr, dataLen, assets.DecodePNG)
}

func (h *Host) RegisterJPEG(mem engine.Memory, keyPtr, keyLen, dataPtr, dataLen uint32) bool {
	return register(h, "jpeg_register", h.ctx.JPEGs, mem, keyPtr, keyLen, dataPtr, dataLen, assets.DecodeJPEG)
}

func (h *Host) RegisterGIF(mem engine.Memory, keyPtr, keyLen, dataPtr, dataLen uint32) bool {
	return register(h, "gif_register", h.ctx.GIFs, mem, keyPtr, keyLen, dataPtr, dataLen, assets.DecodeGIF)
}

func (h *Host) RegisterSVG(mem engine.Memory, keyPtr, keyLen, dataPtr, dataLen uint32) bool {
	return register(h, "svg_register", h.ctx.SVGs, mem, keyPtr, keyLen, dataPtr, dataLen, assets.DecodeSVG)
}

func (h *Host) UnregisterPNG(mem engine.Memory, keyPtr, keyLen uint32) {
	unregister(h, h.ctx.PNGs, mem, keyPtr, keyLen)
}

func (h *Host) UnregisterJPEG(mem engine.Memory, keyPtr, keyLen uint32) {
	unregister(h, h.ctx.JPEGs, mem, keyPtr, keyLen)
}

func (h *Host) UnregisterGIF(mem engine.Memory, keyPtr, keyLen uint32) {
	unregister(h, h.ctx.GIFs, mem, keyPtr, keyLen)
}

func (h *Host) UnregisterSVG(mem engine.Memory, keyPtr, keyLen uint32) {
	unregister(h, h.ctx.SVGs, mem, keyPtr, keyLen)
}

func (h *Host) DrawPNG(mem engine.Memory, keyPtr, keyLen uint32, x, y int32) {
	h.drawImage(mem, keyPtr, keyLen, x, y, 0, 0, h.png)
}

func (h *Host) DrawPNGScaled(mem engine.Memory, keyPtr, keyLen uint32, x, y int32, w, ht uint32) {
	if w == 0 || ht == 0 {
		return
	}
	h.drawImage(mem, keyPtr, keyLen, x, y, w, ht, h.png)
}

func (h *Host) DrawJPEG(mem engine.Memory, keyPtr, keyLen uint32, x, y int32) {
	h.drawImage(mem, keyPtr, keyLen, x, y, 0, 0, h.jpeg)
}

func (h *Host) DrawJPEGScaled(mem engine.Memory, keyPtr, keyLen uint32, x, y int32, w, ht uint32) {
	if w == 0 || ht == 0 {
		return
	}
	h.drawImage(mem, keyPtr, keyLen, x, y, w, ht, h.jpeg)
}

// DrawGIF draws the frame selected by the time since load
func (h *Host) DrawGIF(mem engine.Memory, keyPtr, keyLen uint32, x, y int32) {
	h.drawImage(mem, keyPtr, keyLen, x, y, 0, 0, h.gifFrame)
}

func (h *Host) DrawGIFScaled(mem engine.Memory, keyPtr, keyLen uint32, x, y int32, w, ht uint32) {
	if w == 0 || ht == 0 {
		return
	}
	h.drawImage(mem, keyPtr, keyLen, x, y, w, ht, h.gifFrame)
}

// DrawSVG rasterizes the SVG at w×h, or at its natural size when either is
// zero.
func (h *Host) DrawSVG(mem engine.Memory, keyPtr, keyLen uint32, x, y int32, w, ht uint32) {
	key, ok := h.readKey(mem, keyPtr, keyLen)
	if !ok {
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	svg, ok := h.ctx.SVGs.Get(key)
	if !ok {
		return
	}
	width, height := int(w), int(ht)
	if w == 0 || ht == 0 {
		width, height = svg.NaturalSize()
	}
	if width <= 0 || height <= 0 || width > video.MaxDimension || height > video.MaxDimension {
		return
	}
	h.ctx.Video.DrawImage(svg.Rasterize(width, height), x, y)
}

// RegisterTTF registers a TrueType/OpenType font at the default size
func (h *Host) RegisterTTF(mem engine.Memory, keyPtr, keyLen, dataPtr, dataLen uint32) bool {
	return register(h, "font_register_ttf", h.ctx.Fonts, mem, keyPtr, keyLen, dataPtr, dataLen,
		func(data []byte) (*assets.Font, error) {
			return assets.ParseTTF(data, assets.DefaultTTFSize)
		})
}

// RegisterBuiltinFont registers the built-in monospace font at size pixels
func (h *Host) RegisterBuiltinFont(mem engine.Memory, keyPtr, keyLen, size uint32) bool {
	key, ok := h.readKey(mem, keyPtr, keyLen)
	if !ok {
		return false
	}
	if size > 1<<16 {
		size = 1 << 16
	}
	font := assets.Builtin(int(size))
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Fonts.Insert(key, font)
	return true
}

func (h *Host) UnregisterFont(mem engine.Memory, keyPtr, keyLen uint32) {
	unregister(h, h.ctx.Fonts, mem, keyPtr, keyLen)
}

// Text draws text with the draw color; (x, y) is the top-left corner
func (h *Host) Text(mem engine.Memory, x, y int32, fontPtr, fontLen, textPtr, textLen uint32) {
	key, ok := h.readKey(mem, fontPtr, fontLen)
	if !ok {
		return
	}
	text, ok := h.readText(mem, textPtr, textLen)
	if !ok {
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Text(h.ctx.Font(key), x, y, text)
}

// TextMeasure returns (width<<32)|height, or 0 for an unknown font
func (h *Host) TextMeasure(mem engine.Memory, fontPtr, fontLen, textPtr, textLen uint32) uint64 {
	key, ok := h.readKey(mem, fontPtr, fontLen)
	if !ok {
		return 0
	}
	text, ok := h.readText(mem, textPtr, textLen)
	if !ok {
		return 0
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	font := h.ctx.Font(key)
	if font == nil {
		return 0
	}
	w, ht := font.Measure(text)
	return abi.PackU64(uint32(w), uint32(ht))
}
