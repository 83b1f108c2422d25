package host

import (
	"github.com/wippyai/wasm96/engine"
)

func (h *Host) SetSize(width, height uint32) {
	c := h.ctx
	c.Lock()
	defer c.Unlock()
	c.Video.SetSize(width, height)
	c.Render.Resize(c.Video.Width, c.Video.Height)
}

func (h *Host) SetColor(r, g, b, a uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.SetColor(r, g, b, a)
}

func (h *Host) Background(r, g, b uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Background(r, g, b)
}

func (h *Host) Point(x, y int32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Point(x, y)
}

func (h *Host) Line(x1, y1, x2, y2 int32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Line(x1, y1, x2, y2)
}

func (h *Host) Rect(x, y int32, w, ht uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Rect(x, y, w, ht)
}

func (h *Host) RectOutline(x, y int32, w, ht uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.RectOutline(x, y, w, ht)
}

func (h *Host) Circle(x, y int32, r uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Circle(x, y, r)
}

func (h *Host) CircleOutline(x, y int32, r uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.CircleOutline(x, y, r)
}

// Image blits raw RGBA pixels from guest memory
func (h *Host) Image(mem engine.Memory, x, y int32, w, ht, ptr, n uint32) {
	need := uint64(w) * uint64(ht) * 4
	if uint64(n) < need || w == 0 || ht == 0 {
		return
	}
	data, err := mem.Read(ptr, uint32(need))
	if err != nil {
		h.debug("image", err)
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Blit(x, y, w, ht, data)
}

func (h *Host) Triangle(x1, y1, x2, y2, x3, y3 int32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Triangle(x1, y1, x2, y2, x3, y3)
}

func (h *Host) TriangleOutline(x1, y1, x2, y2, x3, y3 int32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.TriangleOutline(x1, y1, x2, y2, x3, y3)
}

func (h *Host) BezierQuadratic(x1, y1, cx, cy, x2, y2 int32, segments uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.BezierQuadratic(x1, y1, cx, cy, x2, y2, segments)
}

func (h *Host) BezierCubic(x1, y1, cx1, cy1, cx2, cy2, x2, y2 int32, segments uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.BezierCubic(x1, y1, cx1, cy1, cx2, cy2, x2, y2, segments)
}

func (h *Host) Pill(x, y int32, w, ht uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.Pill(x, y, w, ht)
}

func (h *Host) PillOutline(x, y int32, w, ht uint32) {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Video.PillOutline(x, y, w, ht)
}
