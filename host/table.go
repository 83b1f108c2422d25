package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/engine"
)

// Module builds the host module exporting every wasm96 import
func (h *Host) Module() *engine.HostModule {
	m := engine.NewHostModule(h.Namespace())
	m.MustRegister(h.functions()...)
	return m
}

// bind pairs an import name with its ABI signature
func bind(name string, fn api.GoModuleFunc) engine.HostFunc {
	sig, ok := abi.Signature(name)
	if !ok {
		panic(fmt.Sprintf("host: no signature for %s", name))
	}
	return engine.HostFunc{Name: name, Params: sig.Params, Results: sig.Results, Fn: fn}
}

var (
	u32 = api.DecodeU32
	i32 = api.DecodeI32
	f32 = api.DecodeF32
)

// memFunc adapts a body that only needs guest memory
func memFunc(name string, body func(mem engine.Memory, stack []uint64)) engine.HostFunc {
	return bind(name, func(_ context.Context, mod api.Module, stack []uint64) {
		body(engine.ModuleMemory(mod), stack)
	})
}

// plain adapts a body that needs neither memory nor context
func plain(name string, body func(stack []uint64)) engine.HostFunc {
	return bind(name, func(_ context.Context, _ api.Module, stack []uint64) {
		body(stack)
	})
}

func (h *Host) functions() []engine.HostFunc {
	fns := h.graphics()
	fns = append(fns, h.images()...)
	fns = append(fns, h.scene()...)
	fns = append(fns, h.inputs()...)
	fns = append(fns, h.sound()...)
	return append(fns, h.system()...)
}

func (h *Host) graphics() []engine.HostFunc {
	return []engine.HostFunc{
		plain(abi.GraphicsSetSize, func(s []uint64) { h.SetSize(u32(s[0]), u32(s[1])) }),
		plain(abi.GraphicsSetColor, func(s []uint64) { h.SetColor(u32(s[0]), u32(s[1]), u32(s[2]), u32(s[3])) }),
		plain(abi.GraphicsBackground, func(s []uint64) { h.Background(u32(s[0]), u32(s[1]), u32(s[2])) }),
		plain(abi.GraphicsPoint, func(s []uint64) { h.Point(i32(s[0]), i32(s[1])) }),
		plain(abi.GraphicsLine, func(s []uint64) { h.Line(i32(s[0]), i32(s[1]), i32(s[2]), i32(s[3])) }),
		plain(abi.GraphicsRect, func(s []uint64) { h.Rect(i32(s[0]), i32(s[1]), u32(s[2]), u32(s[3])) }),
		plain(abi.GraphicsRectOutline, func(s []uint64) { h.RectOutline(i32(s[0]), i32(s[1]), u32(s[2]), u32(s[3])) }),
		plain(abi.GraphicsCircle, func(s []uint64) { h.Circle(i32(s[0]), i32(s[1]), u32(s[2])) }),
		plain(abi.GraphicsCircleOutline, func(s []uint64) { h.CircleOutline(i32(s[0]), i32(s[1]), u32(s[2])) }),
		memFunc(abi.GraphicsImage, func(mem engine.Memory, s []uint64) {
			h.Image(mem, i32(s[0]), i32(s[1]), u32(s[2]), u32(s[3]), u32(s[4]), u32(s[5]))
		}),
		plain(abi.GraphicsTriangle, func(s []uint64) {
			h.Triangle(i32(s[0]), i32(s[1]), i32(s[2]), i32(s[3]), i32(s[4]), i32(s[5]))
		}),
		plain(abi.GraphicsTriangleOutln, func(s []uint64) {
			h.TriangleOutline(i32(s[0]), i32(s[1]), i32(s[2]), i32(s[3]), i32(s[4]), i32(s[5]))
		}),
		plain(abi.GraphicsBezierQuad, func(s []uint64) {
			h.BezierQuadratic(i32(s[0]), i32(s[1]), i32(s[2]), i32(s[3]), i32(s[4]), i32(s[5]), u32(s[6]))
		}),
		plain(abi.GraphicsBezierCubic, func(s []uint64) {
			h.BezierCubic(i32(s[0]), i32(s[1]), i32(s[2]), i32(s[3]), i32(s[4]), i32(s[5]), i32(s[6]), i32(s[7]), u32(s[8]))
		}),
		plain(abi.GraphicsPill, func(s []uint64) { h.Pill(i32(s[0]), i32(s[1]), u32(s[2]), u32(s[3])) }),
		plain(abi.GraphicsPillOutline, func(s []uint64) { h.PillOutline(i32(s[0]), i32(s[1]), u32(s[2]), u32(s[3])) }),
	}
}

// registerFunc adapts a (key, data) -> bool registration import
func registerFunc(name string, fn func(engine.Memory, uint32, uint32, uint32, uint32) bool) engine.HostFunc {
	return memFunc(name, func(mem engine.Memory, s []uint64) {
		s[0] = abi.Bool(fn(mem, u32(s[0]), u32(s[1]), u32(s[2]), u32(s[3])))
	})
}

func unregisterFunc(name string, fn func(engine.Memory, uint32, uint32)) engine.HostFunc {
	return memFunc(name, func(mem engine.Memory, s []uint64) { fn(mem, u32(s[0]), u32(s[1])) })
}

func drawFunc(name string, fn func(engine.Memory, uint32, uint32, int32, int32)) engine.HostFunc {
	return memFunc(name, func(mem engine.Memory, s []uint64) {
		fn(mem, u32(s[0]), u32(s[1]), i32(s[2]), i32(s[3]))
	})
}

func drawScaledFunc(name string, fn func(engine.Memory, uint32, uint32, int32, int32, uint32, uint32)) engine.HostFunc {
	return memFunc(name, func(mem engine.Memory, s []uint64) {
		fn(mem, u32(s[0]), u32(s[1]), i32(s[2]), i32(s[3]), u32(s[4]), u32(s[5]))
	})
}

func (h *Host) images() []engine.HostFunc {
	return []engine.HostFunc{
		registerFunc(abi.GraphicsSVGRegister, h.RegisterSVG),
		drawScaledFunc(abi.GraphicsSVGDrawKey, h.DrawSVG),
		unregisterFunc(abi.GraphicsSVGUnregister, h.UnregisterSVG),

		registerFunc(abi.GraphicsGIFRegister, h.RegisterGIF),
		drawFunc(abi.GraphicsGIFDrawKey, h.DrawGIF),
		drawScaledFunc(abi.GraphicsGIFDrawScaled, h.DrawGIFScaled),
		unregisterFunc(abi.GraphicsGIFUnregister, h.UnregisterGIF),

		registerFunc(abi.GraphicsPNGRegister, h.RegisterPNG),
		drawFunc(abi.GraphicsPNGDrawKey, h.DrawPNG),
		drawScaledFunc(abi.GraphicsPNGDrawScaled, h.DrawPNGScaled),
		unregisterFunc(abi.GraphicsPNGUnregister, h.UnregisterPNG),

		registerFunc(abi.GraphicsJPEGRegister, h.RegisterJPEG),
		drawFunc(abi.GraphicsJPEGDrawKey, h.DrawJPEG),
		drawScaledFunc(abi.GraphicsJPEGDrawScaled, h.DrawJPEGScaled),
		unregisterFunc(abi.GraphicsJPEGUnregister, h.UnregisterJPEG),

		registerFunc(abi.GraphicsFontTTF, h.RegisterTTF),
		memFunc(abi.GraphicsFontSpleen, func(mem engine.Memory, s []uint64) {
			s[0] = abi.Bool(h.RegisterBuiltinFont(mem, u32(s[0]), u32(s[1]), u32(s[2])))
		}),
		unregisterFunc(abi.GraphicsFontUnregister, h.UnregisterFont),
		memFunc(abi.GraphicsTextKey, func(mem engine.Memory, s []uint64) {
			h.Text(mem, i32(s[0]), i32(s[1]), u32(s[2]), u32(s[3]), u32(s[4]), u32(s[5]))
		}),
		memFunc(abi.GraphicsTextMeasureKey, func(mem engine.Memory, s []uint64) {
			s[0] = h.TextMeasure(mem, u32(s[0]), u32(s[1]), u32(s[2]), u32(s[3]))
		}),
	}
}

func (h *Host) scene() []engine.HostFunc {
	return []engine.HostFunc{
		plain(abi.GraphicsSet3D, func(s []uint64) { h.Set3D(u32(s[0])) }),
		plain(abi.GraphicsCameraLookAt, func(s []uint64) {
			h.CameraLookAt(f32(s[0]), f32(s[1]), f32(s[2]), f32(s[3]), f32(s[4]), f32(s[5]), f32(s[6]), f32(s[7]), f32(s[8]))
		}),
		plain(abi.GraphicsCameraPerspective, func(s []uint64) {
			h.CameraPerspective(f32(s[0]), f32(s[1]), f32(s[2]), f32(s[3]))
		}),
		memFunc(abi.GraphicsMeshCreate, func(mem engine.Memory, s []uint64) {
			s[0] = abi.Bool(h.MeshCreate(mem, s[0], u32(s[1]), u32(s[2]), u32(s[3]), u32(s[4])))
		}),
		memFunc(abi.GraphicsMeshCreateOBJ, func(mem engine.Memory, s []uint64) {
			s[0] = abi.Bool(h.MeshCreateOBJ(mem, s[0], u32(s[1]), u32(s[2])))
		}),
		memFunc(abi.GraphicsMeshCreateSTL, func(mem engine.Memory, s []uint64) {
			s[0] = abi.Bool(h.MeshCreateSTL(mem, s[0], u32(s[1]), u32(s[2])))
		}),
		plain(abi.GraphicsMeshSetTexture, func(s []uint64) {
			s[0] = abi.Bool(h.MeshSetTexture(s[0], s[1]))
		}),
		plain(abi.GraphicsMeshDraw, func(s []uint64) {
			h.MeshDraw(s[0], f32(s[1]), f32(s[2]), f32(s[3]), f32(s[4]), f32(s[5]), f32(s[6]), f32(s[7]), f32(s[8]), f32(s[9]))
		}),
		memFunc(abi.GraphicsMTLRegisterTex, func(mem engine.Memory, s []uint64) {
			s[0] = abi.Bool(h.MTLRegisterTexture(mem, s[0], u32(s[1]), u32(s[2]), u32(s[3]), u32(s[4]), u32(s[5]), u32(s[6])))
		}),
	}
}

func (h *Host) inputs() []engine.HostFunc {
	return []engine.HostFunc{
		plain(abi.InputIsButtonDown, func(s []uint64) { s[0] = abi.Bool(h.ButtonDown(u32(s[0]), u32(s[1]))) }),
		plain(abi.InputIsKeyDown, func(s []uint64) { s[0] = abi.Bool(h.KeyDown(u32(s[0]))) }),
		plain(abi.InputGetMouseX, func(s []uint64) { s[0] = api.EncodeI32(h.MouseX()) }),
		plain(abi.InputGetMouseY, func(s []uint64) { s[0] = api.EncodeI32(h.MouseY()) }),
		plain(abi.InputIsMouseDown, func(s []uint64) { s[0] = abi.Bool(h.MouseDown(u32(s[0]))) }),
	}
}

func (h *Host) sound() []engine.HostFunc {
	return []engine.HostFunc{
		plain(abi.AudioInit, func(s []uint64) { s[0] = api.EncodeU32(h.AudioInit(u32(s[0]))) }),
		memFunc(abi.AudioPushSamples, func(mem engine.Memory, s []uint64) { h.PushSamples(mem, u32(s[0]), u32(s[1])) }),
		memFunc(abi.AudioPlayWAV, func(mem engine.Memory, s []uint64) { h.PlayWAV(mem, u32(s[0]), u32(s[1])) }),
		memFunc(abi.AudioPlayQOA, func(mem engine.Memory, s []uint64) { h.PlayQOA(mem, u32(s[0]), u32(s[1])) }),
		memFunc(abi.AudioPlayXM, func(mem engine.Memory, s []uint64) { h.PlayXM(mem, u32(s[0]), u32(s[1])) }),
	}
}

func (h *Host) system() []engine.HostFunc {
	return []engine.HostFunc{
		bind(abi.StorageSave, func(ctx context.Context, mod api.Module, s []uint64) {
			h.StorageSave(ctx, engine.ModuleMemory(mod), u32(s[0]), u32(s[1]), u32(s[2]), u32(s[3]))
		}),
		bind(abi.StorageLoad, func(ctx context.Context, mod api.Module, s []uint64) {
			s[0] = h.StorageLoad(ctx, engine.ModuleMemory(mod), engine.ModuleAllocator(mod), u32(s[0]), u32(s[1]))
		}),
		bind(abi.StorageFree, func(ctx context.Context, mod api.Module, s []uint64) {
			h.StorageFree(ctx, engine.ModuleAllocator(mod), u32(s[0]), u32(s[1]))
		}),
		memFunc(abi.SystemLog, func(mem engine.Memory, s []uint64) { h.Log(mem, u32(s[0]), u32(s[1])) }),
		plain(abi.SystemMillis, func(s []uint64) { s[0] = h.Millis() }),
	}
}
