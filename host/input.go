package host

// Input queries answer from the snapshot captured at the start of the frame.

func (h *Host) ButtonDown(port, btn uint32) bool {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Input.Current().ButtonDown(port, btn)
}

func (h *Host) KeyDown(code uint32) bool {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Input.Current().KeyDown(code)
}

func (h *Host) MouseX() int32 {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Input.Current().MouseX
}

func (h *Host) MouseY() int32 {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Input.Current().MouseY
}

func (h *Host) MouseDown(btn uint32) bool {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Input.Current().MouseDown(btn)
}
