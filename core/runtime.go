package core

import (
	"context"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/host"
	"github.com/wippyai/wasm96/render"
	"github.com/wippyai/wasm96/state"
	"github.com/wippyai/wasm96/telemetry"
)

// Options configures a Runtime
type Options struct {
	Engine engine.Config
	State  state.Options
}

// Runtime runs one guest at a time through the frame lifecycle: load,
// setup on the first frame, then update and draw every frame, followed by
// present and audio drain.
// It is NOT safe for concurrent use; one goroutine drives all frames.
type Runtime struct {
	engine  *engine.Engine
	ctx     *state.Context
	host    *host.Host
	hostMod *engine.HostModule
	module  *engine.Module
	inst    *engine.Instance
	session string
	frames  uint64

	setupDone bool
	hasUpdate bool
	hasDraw   bool
}

// New creates a runtime with its engine, host context and host module
func New(ctx context.Context, opts Options) (*Runtime, error) {
	e, err := engine.New(ctx, &opts.Engine)
	if err != nil {
		return nil, err
	}
	session := ulid.Make().String()
	c := state.New(opts.State)
	h := host.New(c, session)
	hm := h.Module()
	if _, err := hm.Instantiate(ctx, e); err != nil {
		return nil, multierr.Append(err, e.Close(ctx))
	}
	Logger().Debug("runtime created",
		zap.String("session", session),
		zap.Int("imports", len(hm.Names())))
	return &Runtime{engine: e, ctx: c, host: h, hostMod: hm, session: session}, nil
}

// Session returns the id tagging this runtime's log lines
func (r *Runtime) Session() string { return r.session }

// Context returns the host context
func (r *Runtime) Context() *state.Context { return r.ctx }

// HostModule returns the registered host function table
func (r *Runtime) HostModule() *engine.HostModule { return r.hostMod }

// Loaded reports whether a guest is instantiated
func (r *Runtime) Loaded() bool { return r.inst != nil }

// SetupDone reports whether setup has run since the last load or reset
func (r *Runtime) SetupDone() bool { return r.setupDone }

// Load compiles, validates and instantiates a guest, replacing any
// loaded one. On failure nothing of the guest persists and the host
// context is back at its defaults.
func (r *Runtime) Load(ctx context.Context, wasmBytes []byte) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "wasm96.load",
		attribute.Int("bytes", len(wasmBytes)),
		attribute.String("session", r.session))
	defer func() { telemetry.End(span, err) }()

	if r.Loaded() {
		if err := r.Unload(ctx); err != nil {
			Logger().Warn("unload previous guest", zap.Error(err))
		}
	}

	mod, err := r.engine.Compile(ctx, wasmBytes)
	if err != nil {
		return err
	}
	if err := mod.CheckImports(r.hostMod); err != nil {
		return multierr.Append(err, mod.Close(ctx))
	}
	// Host calls made by the guest's start function land in a clean context.
	r.ctx.Reset()
	inst, err := mod.Instantiate(ctx, nil)
	if err != nil {
		r.ctx.Reset()
		return multierr.Append(err, mod.Close(ctx))
	}

	hasUpdate, hasDraw, err := entrypoints(inst)
	if err != nil {
		r.ctx.Reset()
		return multierr.Append(err, engine.CloseAll(ctx, inst, mod))
	}

	r.module, r.inst = mod, inst
	r.hasUpdate, r.hasDraw = hasUpdate, hasDraw
	r.setupDone = false
	r.frames = 0

	if r.ctx.Render.Context() == render.ContextUninitialized {
		if err := r.ContextReset(); err != nil {
			Logger().Warn("render context init failed", zap.Error(err))
		}
	}
	Logger().Info("guest loaded",
		zap.String("session", r.session),
		zap.Bool("update", r.hasUpdate),
		zap.Bool("draw", r.hasDraw))
	return nil
}

// entrypoints checks the required memory and setup exports and the
// optional update and draw exports. Every exported entrypoint must be
// () -> ().
func entrypoints(inst *engine.Instance) (hasUpdate, hasDraw bool, err error) {
	if !inst.HasMemory() {
		return false, false, errors.MissingExport(abi.ExportMemory)
	}
	hasSetup, err := inst.Entrypoint(abi.ExportSetup)
	if err != nil {
		return false, false, err
	}
	if !hasSetup {
		return false, false, errors.MissingExport(abi.ExportSetup)
	}
	if hasUpdate, err = inst.Entrypoint(abi.ExportUpdate); err != nil {
		return false, false, err
	}
	if hasDraw, err = inst.Entrypoint(abi.ExportDraw); err != nil {
		return false, false, err
	}
	return hasUpdate, hasDraw, nil
}

// RunFrame runs one frame against f. The first frame after load or reset
// runs setup; later frames run update then draw. Presentation and audio
// drain happen every frame, even when a guest call trapped. The first trap
// is returned.
func (r *Runtime) RunFrame(ctx context.Context, f wasm96.Frontend) (err error) {
	if !r.Loaded() {
		return errors.NotInitialized(errors.PhaseRuntime, "guest")
	}
	r.frames++
	ctx, span := telemetry.StartSpan(ctx, "wasm96.frame",
		attribute.Int64("frame", int64(r.frames)),
		attribute.String("session", r.session))
	defer func() { telemetry.End(span, err) }()

	r.ctx.Bind(f)
	defer r.ctx.Unbind()

	r.ctx.Lock()
	r.ctx.Render.PrepareFrame(r.ctx.Video.Width, r.ctx.Video.Height)
	r.ctx.Unlock()

	if !r.setupDone {
		// setup is not retried after a trap
		r.setupDone = true
		err = r.call(ctx, abi.ExportSetup)
	} else {
		if r.hasUpdate {
			err = r.call(ctx, abi.ExportUpdate)
		}
		if r.hasDraw {
			err = firstErr(err, r.call(ctx, abi.ExportDraw))
		}
	}

	r.present(ctx, f)
	return err
}

func (r *Runtime) call(ctx context.Context, name string) error {
	ctx, span := telemetry.StartSpan(ctx, "wasm96."+name)
	_, err := r.inst.Call(ctx, name)
	if err != nil {
		err = errors.Trap(name, err)
		Logger().Warn("guest trapped",
			zap.String("session", r.session),
			zap.String("entrypoint", name),
			zap.Error(err))
	}
	telemetry.End(span, err)
	return err
}

// present composites the frame and drains audio to the frontend
func (r *Runtime) present(ctx context.Context, f wasm96.Frontend) {
	_, span := telemetry.StartSpan(ctx, "wasm96.present")
	defer span.End()

	r.ctx.Lock()
	frame := r.ctx.Present()
	samples := r.ctx.Audio.Drain(0)
	rate := r.ctx.Audio.SampleRate()
	r.ctx.Unlock()

	if f == nil {
		return
	}
	f.Present(frame)
	f.PlayAudio(samples, rate)
}

// Reset makes the next frame run setup again. The instance, its memory
// and the host context are kept.
func (r *Runtime) Reset() {
	r.setupDone = false
}

// Unload closes the guest and returns the host context to its defaults
func (r *Runtime) Unload(ctx context.Context) error {
	err := engine.CloseAll(ctx, r.inst, r.module)
	r.inst, r.module = nil, nil
	r.setupDone, r.hasUpdate, r.hasDraw = false, false, false
	r.frames = 0
	live := r.ctx.Resources.Total()
	r.ctx.Reset()
	if left := r.ctx.Resources.Kinds(); len(left) > 0 {
		Logger().Warn("resources survived unload", zap.Strings("kinds", left))
	}
	Logger().Debug("guest unloaded",
		zap.String("session", r.session),
		zap.Int("resources", live))
	return err
}

// ContextReset (re)initializes the render context. Meshes re-upload on
// their next draw and setup runs again on the next frame.
func (r *Runtime) ContextReset() error {
	r.ctx.Lock()
	err := r.ctx.Render.ContextReset()
	r.ctx.Unlock()
	r.setupDone = false
	if err != nil {
		return err
	}
	Logger().Debug("render context reset", zap.String("backend", r.ctx.Render.Backend().Name()))
	return nil
}

// ContextDestroy marks the render context lost. 3D draws are skipped
// until the next ContextReset.
func (r *Runtime) ContextDestroy() {
	r.ctx.Lock()
	r.ctx.Render.ContextDestroy()
	r.ctx.Unlock()
	Logger().Debug("render context destroyed")
}

// Close unloads the guest, closes the storage backend and the engine
func (r *Runtime) Close(ctx context.Context) error {
	var err error
	if r.Loaded() {
		err = r.Unload(ctx)
	}
	err = multierr.Append(err, r.hostMod.Close(ctx))
	r.ctx.Lock()
	r.ctx.Render.Backend().Destroy()
	store := r.ctx.Storage
	r.ctx.Unlock()
	if store != nil {
		err = multierr.Append(err, store.Close())
	}
	return multierr.Append(err, r.engine.Close(ctx))
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
