package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/wasm"
)

// HostFunc is a host function exported to guests. Fn receives parameters
// on the stack and writes results back starting at stack[0].
type HostFunc struct {
	Fn      api.GoModuleFunc
	Name    string
	Params  []wasm.ValType
	Results []wasm.ValType
}

// Type returns the function signature
func (f HostFunc) Type() wasm.FuncType {
	return wasm.FuncType{Params: f.Params, Results: f.Results}
}

// HostModule collects host functions under one import module name and
// records their signatures for import checking.
type HostModule struct {
	funcs map[string]HostFunc
	name  string
	mod   api.Module
}

// NewHostModule creates an empty host module
func NewHostModule(name string) *HostModule {
	return &HostModule{name: name, funcs: make(map[string]HostFunc)}
}

// Name returns the import module name
func (h *HostModule) Name() string {
	return h.name
}

// Register adds a host function. Registering a name twice is an error.
func (h *HostModule) Register(fn HostFunc) error {
	if fn.Fn == nil {
		return errors.Registration(h.name, fn.Name, errors.InvalidInput(errors.PhaseHost, "nil handler"))
	}
	if _, exists := h.funcs[fn.Name]; exists {
		return errors.Registration(h.name, fn.Name, errors.InvalidState(errors.PhaseHost, "register", "already registered"))
	}
	h.funcs[fn.Name] = fn
	return nil
}

// MustRegister registers every function and panics on the first error.
// It is meant for static function tables.
func (h *HostModule) MustRegister(fns ...HostFunc) {
	for _, fn := range fns {
		if err := h.Register(fn); err != nil {
			panic(err)
		}
	}
}

// Signature returns the registered signature of name
func (h *HostModule) Signature(name string) (wasm.FuncType, bool) {
	fn, ok := h.funcs[name]
	if !ok {
		return wasm.FuncType{}, false
	}
	return fn.Type(), true
}

// Names returns the registered function names, sorted
func (h *HostModule) Names() []string {
	names := make([]string, 0, len(h.funcs))
	for name := range h.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate builds the wazero host module in the engine's runtime.
// Calling it again returns the already instantiated module.
func (h *HostModule) Instantiate(ctx context.Context, e *Engine) (api.Module, error) {
	if h.mod != nil {
		return h.mod, nil
	}
	builder := e.runtime.NewHostModuleBuilder(h.name)
	for _, name := range h.Names() {
		fn := h.funcs[name]
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(fn.Fn, valueTypes(fn.Params), valueTypes(fn.Results)).
			WithName(name).
			Export(name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(h.name, "*", err)
	}
	Logger().Debug("host module instantiated",
		zap.String("module", h.name),
		zap.Int("functions", len(h.funcs)))
	h.mod = mod
	return mod, nil
}

// Close releases the instantiated host module
func (h *HostModule) Close(ctx context.Context) error {
	if h.mod == nil {
		return nil
	}
	err := h.mod.Close(ctx)
	h.mod = nil
	return err
}
