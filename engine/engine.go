package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/wasm"
)

// Engine owns a wazero runtime. One Engine hosts the host module and at
// most one guest instance at a time.
type Engine struct {
	runtime  wazero.Runtime
	cfg      Config
	wasiOnce sync.Once
	wasiErr  error
}

// Config holds configuration for engine creation
type Config struct {
	// Stdout and Stderr receive guest WASI output when EnableWASI is set.
	// Nil discards the output.
	Stdout io.Writer
	Stderr io.Writer

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// CloseOnContextDone makes guest calls observe context cancellation,
	// at a small per-call cost.
	CloseOnContextDone bool

	// EnableWASI instantiates wasi_snapshot_preview1 for guests built with
	// a WASI libc.
	EnableWASI bool
}

// New creates a new engine with the given configuration. A nil config uses
// defaults.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	if c.CloseOnContextDone {
		runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
	}
	return &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg), cfg: c}, nil
}

// Runtime exposes the underlying wazero runtime
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// WASIEnabled reports whether guests may import WASI preview1
func (e *Engine) WASIEnabled() bool {
	return e.cfg.EnableWASI
}

// InitWASI instantiates WASI preview1 once per engine
func (e *Engine) InitWASI(ctx context.Context) error {
	e.wasiOnce.Do(func() {
		if e.runtime.Module(WASIModule) != nil {
			return
		}
		if _, err := InstantiateWASI(ctx, e.runtime); err != nil {
			e.wasiErr = errors.Registration(WASIModule, "*", err)
		}
	})
	return e.wasiErr
}

// Compile parses the guest's import/export metadata and compiles it.
// Any failure is reported in the load phase.
func (e *Engine) Compile(ctx context.Context, wasmBytes []byte) (*Module, error) {
	meta, err := wasm.ParseModule(wasmBytes)
	if err != nil {
		return nil, errors.Load("parse module", err)
	}
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	Logger().Debug("module compiled",
		zap.Int("imports", len(meta.Imports)),
		zap.Int("exports", len(meta.Exports)),
		zap.Int("bytes", len(wasmBytes)))
	return &Module{engine: e, compiled: compiled, meta: meta}, nil
}

// Close releases the runtime and everything instantiated in it
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module is a compiled guest module
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
	meta     *wasm.Module
}

// Meta returns the decoded import/export metadata
func (m *Module) Meta() *wasm.Module {
	return m.meta
}

// CheckImports verifies that every function import is satisfied: imports
// from a host module must exist with an identical signature, WASI imports
// require WASI to be enabled, and any other module is unresolved.
func (m *Module) CheckImports(hosts ...*HostModule) error {
	byName := make(map[string]*HostModule, len(hosts))
	for _, h := range hosts {
		byName[h.Name()] = h
	}

	var missing []errors.MissingImport
	for _, imp := range m.meta.Imports {
		if imp.Kind != wasm.KindFunc {
			missing = append(missing, errors.MissingImport{
				Module:   imp.Module,
				Function: imp.Name,
				Reason:   "only function imports are supported",
			})
			continue
		}
		if imp.Module == WASIModule && m.engine.cfg.EnableWASI {
			continue
		}
		host, ok := byName[imp.Module]
		if !ok {
			missing = append(missing, errors.MissingImport{Module: imp.Module, Function: imp.Name})
			continue
		}
		want, ok := host.Signature(imp.Name)
		if !ok {
			missing = append(missing, errors.MissingImport{Module: imp.Module, Function: imp.Name})
			continue
		}
		got, _ := m.meta.ImportType(imp)
		if !got.Equal(want) {
			missing = append(missing, errors.MissingImport{
				Module:   imp.Module,
				Function: imp.Name,
				Reason:   fmt.Sprintf("signature %s, host provides %s", got, want),
			})
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingImportsError(missing)
	}
	return nil
}

// needsWASI reports whether the guest imports anything from WASI
func (m *Module) needsWASI() bool {
	for _, imp := range m.meta.Imports {
		if imp.Module == WASIModule {
			return true
		}
	}
	return false
}

// InstanceConfig holds configuration for module instantiation
type InstanceConfig struct {
	Name           string
	StartFunctions []string
}

// Instantiate creates an instance of the module. Host modules must already
// be instantiated in the engine's runtime.
func (m *Module) Instantiate(ctx context.Context, cfg *InstanceConfig) (*Instance, error) {
	if m.needsWASI() && m.engine.cfg.EnableWASI {
		if err := m.engine.InitWASI(ctx); err != nil {
			return nil, err
		}
	}

	modConfig := wazero.NewModuleConfig().WithName("")
	if cfg != nil {
		if cfg.Name != "" {
			modConfig = modConfig.WithName(cfg.Name)
		}
		if cfg.StartFunctions != nil {
			modConfig = modConfig.WithStartFunctions(cfg.StartFunctions...)
		}
	}
	if m.engine.cfg.EnableWASI {
		if m.engine.cfg.Stdout != nil {
			modConfig = modConfig.WithStdout(m.engine.cfg.Stdout)
		}
		if m.engine.cfg.Stderr != nil {
			modConfig = modConfig.WithStderr(m.engine.cfg.Stderr)
		}
	}

	mod, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, modConfig)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return newInstance(mod), nil
}

// Close releases the compiled module
func (m *Module) Close(ctx context.Context) error {
	if m.compiled == nil {
		return nil
	}
	err := m.compiled.Close(ctx)
	m.compiled = nil
	return err
}

// CloseAll closes an instance and its module, combining errors
func CloseAll(ctx context.Context, inst *Instance, mod *Module) error {
	var err error
	if inst != nil {
		err = multierr.Append(err, inst.Close(ctx))
	}
	if mod != nil {
		err = multierr.Append(err, mod.Close(ctx))
	}
	return err
}

// valueTypes converts wasm value types to wazero value types
func valueTypes(vs []wasm.ValType) []api.ValueType {
	if len(vs) == 0 {
		return nil
	}
	out := make([]api.ValueType, len(vs))
	for i, v := range vs {
		out[i] = api.ValueType(v)
	}
	return out
}
