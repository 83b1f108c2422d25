package host

import (
	"go.uber.org/zap"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/state"
)

// Limits on guest-supplied lengths
const (
	maxTextBytes  = 64 << 10
	maxAssetBytes = 64 << 20
	maxLogBytes   = 4 << 10
)

// Host implements the wasm96 ABI over a host context. Each method is the
// body of one import; Module wires them to the guest's stack.
type Host struct {
	ctx     *state.Context
	session string
}

// New creates a host bound to c. session tags guest log lines.
func New(c *state.Context, session string) *Host {
	return &Host{ctx: c, session: session}
}

// Namespace returns the import module name
func (h *Host) Namespace() string {
	return wasm96.ImportModule
}

// Context returns the bound host context
func (h *Host) Context() *state.Context {
	return h.ctx
}

// readKey reads a guest key string and hashes it
func (h *Host) readKey(mem engine.Memory, ptr, n uint32) (abi.Key, bool) {
	b, err := mem.Read(ptr, n)
	if err != nil {
		h.debug("read key", err)
		return 0, false
	}
	return abi.HashKeyBytes(b), true
}

// readBlob reads a guest byte range of at most limit bytes
func (h *Host) readBlob(op string, mem engine.Memory, ptr, n, limit uint32) ([]byte, bool) {
	if n > limit {
		Logger().Debug("guest buffer too large",
			zap.String("op", op),
			zap.Uint32("len", n),
			zap.Uint32("max", limit))
		return nil, false
	}
	b, err := mem.Read(ptr, n)
	if err != nil {
		h.debug(op, err)
		return nil, false
	}
	return b, true
}

func (h *Host) readText(mem engine.Memory, ptr, n uint32) (string, bool) {
	if n > maxTextBytes {
		n = maxTextBytes
	}
	s, err := mem.ReadString(ptr, n)
	if err != nil {
		h.debug("read text", err)
		return "", false
	}
	return s, true
}

func (h *Host) debug(op string, err error) {
	Logger().Debug("host call failed", zap.String("op", op), zap.Error(err))
}

func (h *Host) warn(op string, err error) {
	Logger().Warn("host call failed", zap.String("op", op), zap.Error(err))
}
