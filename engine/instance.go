package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/errors"
)

// Guest allocator exports, tried in order.
const (
	guestAlloc  = "wasm96_alloc"
	guestFree   = "wasm96_free"
	cAlloc      = "malloc"
	cFree       = "free"
	cabiRealloc = "cabi_realloc"
)

// Instance is a running guest instance.
// It is NOT safe for concurrent use from multiple goroutines.
type Instance struct {
	instance  api.Module
	funcCache map[string]api.Function
	alloc     *guestAllocator
	cacheMu   sync.RWMutex
}

func newInstance(mod api.Module) *Instance {
	inst := &Instance{
		instance:  mod,
		funcCache: make(map[string]api.Function),
	}
	inst.alloc = newGuestAllocator(mod)
	return inst
}

// Module returns the underlying wazero module
func (i *Instance) Module() api.Module {
	return i.instance
}

// Function returns an exported function, or nil when absent
func (i *Instance) Function(name string) api.Function {
	i.cacheMu.RLock()
	fn, ok := i.funcCache[name]
	i.cacheMu.RUnlock()
	if ok {
		return fn
	}
	if i.instance == nil {
		return nil
	}
	fn = i.instance.ExportedFunction(name)
	i.cacheMu.Lock()
	i.funcCache[name] = fn
	i.cacheMu.Unlock()
	return fn
}

// HasFunction reports whether name is exported as a function
func (i *Instance) HasFunction(name string) bool {
	return i.Function(name) != nil
}

// Entrypoint reports whether name is exported as a function and, if so,
// whether its signature is () -> ().
func (i *Instance) Entrypoint(name string) (exported bool, err error) {
	fn := i.Function(name)
	if fn == nil {
		return false, nil
	}
	def := fn.Definition()
	params, results := len(def.ParamTypes()), len(def.ResultTypes())
	if params != 0 || results != 0 {
		return true, errors.InvalidExport(name, params, results)
	}
	return true, nil
}

// HasMemory reports whether the instance exports a linear memory
func (i *Instance) HasMemory() bool {
	return i.instance != nil && i.instance.ExportedMemory(MemoryExport) != nil
}

// Call invokes an exported function with raw parameters
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.Function(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	return fn.Call(ctx, params...)
}

// Memory returns an accessor over the guest's exported memory
func (i *Instance) Memory() Memory {
	return ModuleMemory(i.instance)
}

// Allocator returns the guest allocator. Alloc fails when the guest
// exports no allocator.
func (i *Instance) Allocator() wasm96.Allocator {
	return i.alloc
}

// Close closes the instance
func (i *Instance) Close(ctx context.Context) error {
	if i.instance == nil {
		return nil
	}
	err := i.instance.Close(ctx)
	i.instance = nil
	i.funcCache = nil
	i.alloc = &guestAllocator{}
	return err
}

// ModuleAllocator returns an allocator over mod's exports. Host functions
// use it to hand data back to the calling guest.
func ModuleAllocator(mod api.Module) wasm96.Allocator {
	return newGuestAllocator(mod)
}

// guestAllocator calls the guest's exported allocator. Single-argument
// allocators (malloc style) and cabi_realloc are both supported; the
// calling form is chosen by parameter count.
type guestAllocator struct {
	allocFn   api.Function
	freeFn    api.Function
	stackBuf  []uint64
	stackMu   sync.Mutex
	isRealloc bool
}

func newGuestAllocator(mod api.Module) *guestAllocator {
	a := &guestAllocator{stackBuf: make([]uint64, 4)}
	if mod == nil {
		return a
	}
	for _, name := range []string{guestAlloc, cAlloc, cabiRealloc} {
		if fn := mod.ExportedFunction(name); fn != nil {
			a.allocFn = fn
			a.isRealloc = len(fn.Definition().ParamTypes()) == 4
			break
		}
	}
	for _, name := range []string{guestFree, cFree} {
		if fn := mod.ExportedFunction(name); fn != nil {
			a.freeFn = fn
			break
		}
	}
	return a
}

func (a *guestAllocator) Alloc(ctx context.Context, size uint32) (uint32, error) {
	if a.allocFn == nil {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, errors.MissingExport(cAlloc))
	}

	a.stackMu.Lock()
	defer a.stackMu.Unlock()

	var err error
	if a.isRealloc {
		a.stackBuf[0] = 0
		a.stackBuf[1] = 0
		a.stackBuf[2] = 1
		a.stackBuf[3] = uint64(size)
		err = a.allocFn.CallWithStack(ctx, a.stackBuf[:4])
	} else {
		a.stackBuf[0] = uint64(size)
		err = a.allocFn.CallWithStack(ctx, a.stackBuf[:1])
	}
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, err)
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, nil)
	}
	return ptr, nil
}

func (a *guestAllocator) Free(ctx context.Context, ptr, size uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}

	a.stackMu.Lock()
	defer a.stackMu.Unlock()

	// free(ptr) takes one argument; wasm96_free(ptr, size) takes two.
	n := len(a.freeFn.Definition().ParamTypes())
	if n > len(a.stackBuf) {
		return
	}
	a.stackBuf[0] = uint64(ptr)
	if n > 1 {
		a.stackBuf[1] = uint64(size)
	}
	if err := a.freeFn.CallWithStack(ctx, a.stackBuf[:max(n, 1)]); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Compile-time check that guestAllocator implements wasm96.Allocator
var _ wasm96.Allocator = (*guestAllocator)(nil)
