package engine

import (
	"encoding/binary"
	"math"

	"github.com/tetratelabs/wazero/api"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/errors"
)

// MemoryExport is the name under which guests export their linear memory.
const MemoryExport = "memory"

// Memory is a bounds-checked view of guest linear memory. It holds no
// pointer into the guest: every access re-resolves the exported memory and
// its current size, so growth between host calls is always observed.
type Memory struct {
	source func() api.Memory
}

// NewMemory creates an accessor over a memory source. The source is called
// on every access and may return nil when no memory is available yet.
func NewMemory(source func() api.Memory) Memory {
	return Memory{source: source}
}

// ModuleMemory creates an accessor over a module's exported "memory",
// falling back to its first memory when the export is named differently.
func ModuleMemory(mod api.Module) Memory {
	return Memory{source: func() api.Memory {
		if mod == nil {
			return nil
		}
		if mem := mod.ExportedMemory(MemoryExport); mem != nil {
			return mem
		}
		return mod.Memory()
	}}
}

func (m Memory) resolve() (api.Memory, error) {
	if m.source == nil {
		return nil, errors.NotInitialized(errors.PhaseMemory, "guest memory")
	}
	mem := m.source()
	if mem == nil {
		return nil, errors.NotInitialized(errors.PhaseMemory, "guest memory")
	}
	return mem, nil
}

// Size returns the current memory size in bytes, or 0 without memory.
func (m Memory) Size() uint32 {
	mem, err := m.resolve()
	if err != nil {
		return 0
	}
	return mem.Size()
}

func (m Memory) view(offset, length uint32) ([]byte, error) {
	mem, err := m.resolve()
	if err != nil {
		return nil, err
	}
	size := mem.Size()
	if uint64(offset)+uint64(length) > uint64(size) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(length), uint64(size))
	}
	data, ok := mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(length), uint64(size))
	}
	return data, nil
}

// Read copies length bytes starting at offset out of guest memory.
func (m Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, err := m.view(offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ReadString reads length bytes as a string. The bytes are not required to
// be valid UTF-8; keys are hashed byte-wise and text rendering substitutes
// invalid sequences.
func (m Memory) ReadString(offset uint32, length uint32) (string, error) {
	data, err := m.view(offset, length)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadElems reads count elements of elemSize bytes, guarding the byte
// length computation against overflow.
func (m Memory) ReadElems(offset, count, elemSize uint32) ([]byte, error) {
	total := uint64(count) * uint64(elemSize)
	if total > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseMemory, "element byte length", total)
	}
	return m.Read(offset, uint32(total))
}

// ReadI16s reads count little-endian int16 values.
func (m Memory) ReadI16s(offset, count uint32) ([]int16, error) {
	data, err := m.ReadElems(offset, count, 2)
	if err != nil {
		return nil, err
	}
	out := make([]int16, count)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out, nil
}

// ReadU32s reads count little-endian uint32 values.
func (m Memory) ReadU32s(offset, count uint32) ([]uint32, error) {
	data, err := m.ReadElems(offset, count, 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out, nil
}

// ReadF32s reads count little-endian float32 values.
func (m Memory) ReadF32s(offset, count uint32) ([]float32, error) {
	data, err := m.ReadElems(offset, count, 4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

// Write copies data into guest memory at offset.
func (m Memory) Write(offset uint32, data []byte) error {
	mem, err := m.resolve()
	if err != nil {
		return err
	}
	size := mem.Size()
	if uint64(offset)+uint64(len(data)) > uint64(size) {
		return errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(len(data)), uint64(size))
	}
	if !mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(len(data)), uint64(size))
	}
	return nil
}

// WriteU32 writes a little-endian uint32 at offset.
func (m Memory) WriteU32(offset uint32, value uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	return m.Write(offset, buf[:])
}

// Compile-time check that Memory implements wasm96.Memory
var _ wasm96.Memory = Memory{}
