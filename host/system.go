package host

import (
	"context"

	"go.uber.org/zap"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/storage"
)

// StorageSave persists the guest bytes under the key string
func (h *Host) StorageSave(ctx context.Context, mem engine.Memory, keyPtr, keyLen, dataPtr, dataLen uint32) {
	const op = "storage_save"
	key, ok := h.readText(mem, keyPtr, keyLen)
	if !ok {
		return
	}
	data, ok := h.readBlob(op, mem, dataPtr, dataLen, storage.MaxValueSize)
	if !ok {
		return
	}
	if err := h.store().Save(ctx, key, data); err != nil {
		h.warn(op, err)
	}
}

// StorageLoad copies the stored value into a guest allocation and returns
// (ptr<<32)|len. Missing keys, empty values and failures return 0. The
// guest releases the buffer with storage_free.
func (h *Host) StorageLoad(ctx context.Context, mem engine.Memory, alloc wasm96.Allocator, keyPtr, keyLen uint32) uint64 {
	const op = "storage_load"
	key, ok := h.readText(mem, keyPtr, keyLen)
	if !ok {
		return 0
	}
	data, found, err := h.store().Load(ctx, key)
	if err != nil {
		h.warn(op, err)
		return 0
	}
	if !found || len(data) == 0 {
		return 0
	}
	// The allocator re-enters the guest, so the context lock must not be held.
	ptr, err := alloc.Alloc(ctx, uint32(len(data)))
	if err != nil {
		h.warn(op, err)
		return 0
	}
	if err := mem.Write(ptr, data); err != nil {
		h.debug(op, err)
		alloc.Free(ctx, ptr, uint32(len(data)))
		return 0
	}
	return abi.PackU64(ptr, uint32(len(data)))
}

// StorageFree releases a buffer returned by StorageLoad
func (h *Host) StorageFree(ctx context.Context, alloc wasm96.Allocator, ptr, n uint32) {
	alloc.Free(ctx, ptr, n)
}

func (h *Host) store() storage.Store {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Storage
}

// Log writes a guest message at info level
func (h *Host) Log(mem engine.Memory, ptr, n uint32) {
	if n > maxLogBytes {
		n = maxLogBytes
	}
	msg, err := mem.ReadString(ptr, n)
	if err != nil {
		h.debug("system_log", err)
		return
	}
	Logger().Info("guest log",
		zap.String("session", h.session),
		zap.String("guest", msg))
}

// Millis returns milliseconds since load or the last reset
func (h *Host) Millis() uint64 {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return uint64(h.ctx.Millis())
}
