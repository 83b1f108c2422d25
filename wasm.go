package wasm96

import (
	"context"

	"github.com/wippyai/wasm96/input"
	"github.com/wippyai/wasm96/video"
)

// Memory represents guest linear memory as seen from a host function.
// Implementations validate every access against the current memory size.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}

// Allocator allocates memory inside the guest through its exported
// allocator functions.
type Allocator interface {
	Alloc(ctx context.Context, size uint32) (uint32, error)
	Free(ctx context.Context, ptr, size uint32)
}

// ImportModule is the module name every wasm96 host function is imported from.
const ImportModule = "env"

// ABIVersion identifies the host function table revision.
const ABIVersion = 1

// Frontend presents frames and audio and supplies input. It is bound to
// the host context only for the duration of one frame.
type Frontend interface {
	input.Poller
	// Present receives the composited frame. The frame is not retained by
	// the host.
	Present(frame video.Frame)
	// PlayAudio receives interleaved stereo samples at sampleRate.
	PlayAudio(samples []int16, sampleRate uint32)
}
