package abi

import (
	"sort"

	"github.com/wippyai/wasm96/wasm"
)

func sig(params []wasm.ValType, results ...wasm.ValType) wasm.FuncType {
	return wasm.FuncType{Params: params, Results: results}
}

func repeat(t wasm.ValType, n int) []wasm.ValType {
	out := make([]wasm.ValType, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func concat(parts ...[]wasm.ValType) []wasm.ValType {
	var out []wasm.ValType
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	i32 = wasm.ValI32
	i64 = wasm.ValI64
	f32 = wasm.ValF32

	i32x = func(n int) []wasm.ValType { return repeat(i32, n) }
	f32x = func(n int) []wasm.ValType { return repeat(f32, n) }
	key  = []wasm.ValType{i64}
)

var signatures = map[string]wasm.FuncType{
	GraphicsSetSize:       sig(i32x(2)),
	GraphicsSetColor:      sig(i32x(4)),
	GraphicsBackground:    sig(i32x(3)),
	GraphicsPoint:         sig(i32x(2)),
	GraphicsLine:          sig(i32x(4)),
	GraphicsRect:          sig(i32x(4)),
	GraphicsRectOutline:   sig(i32x(4)),
	GraphicsCircle:        sig(i32x(3)),
	GraphicsCircleOutline: sig(i32x(3)),
	GraphicsImage:         sig(i32x(6)),
	GraphicsTriangle:      sig(i32x(6)),
	GraphicsTriangleOutln: sig(i32x(6)),
	GraphicsBezierQuad:    sig(i32x(7)),
	GraphicsBezierCubic:   sig(i32x(9)),
	GraphicsPill:          sig(i32x(4)),
	GraphicsPillOutline:   sig(i32x(4)),

	GraphicsSVGRegister:    sig(i32x(4), i32),
	GraphicsSVGDrawKey:     sig(i32x(6)),
	GraphicsSVGUnregister:  sig(i32x(2)),
	GraphicsGIFRegister:    sig(i32x(4), i32),
	GraphicsGIFDrawKey:     sig(i32x(4)),
	GraphicsGIFDrawScaled:  sig(i32x(6)),
	GraphicsGIFUnregister:  sig(i32x(2)),
	GraphicsPNGRegister:    sig(i32x(4), i32),
	GraphicsPNGDrawKey:     sig(i32x(4)),
	GraphicsPNGDrawScaled:  sig(i32x(6)),
	GraphicsPNGUnregister:  sig(i32x(2)),
	GraphicsJPEGRegister:   sig(i32x(4), i32),
	GraphicsJPEGDrawKey:    sig(i32x(4)),
	GraphicsJPEGDrawScaled: sig(i32x(6)),
	GraphicsJPEGUnregister: sig(i32x(2)),

	GraphicsFontTTF:        sig(i32x(4), i32),
	GraphicsFontSpleen:     sig(i32x(3), i32),
	GraphicsFontUnregister: sig(i32x(2)),
	GraphicsTextKey:        sig(i32x(6)),
	GraphicsTextMeasureKey: sig(i32x(4), i64),

	GraphicsSet3D:             sig(i32x(1)),
	GraphicsCameraLookAt:      sig(f32x(9)),
	GraphicsCameraPerspective: sig(f32x(4)),
	GraphicsMeshCreate:        sig(concat(key, i32x(4)), i32),
	GraphicsMeshCreateOBJ:     sig(concat(key, i32x(2)), i32),
	GraphicsMeshCreateSTL:     sig(concat(key, i32x(2)), i32),
	GraphicsMeshSetTexture:    sig(concat(key, key), i32),
	GraphicsMeshDraw:          sig(concat(key, f32x(9))),
	GraphicsMTLRegisterTex:    sig(concat(key, i32x(6)), i32),

	InputIsButtonDown: sig(i32x(2), i32),
	InputIsKeyDown:    sig(i32x(1), i32),
	InputGetMouseX:    sig(nil, i32),
	InputGetMouseY:    sig(nil, i32),
	InputIsMouseDown:  sig(i32x(1), i32),

	AudioInit:        sig(i32x(1), i32),
	AudioPushSamples: sig(i32x(2)),
	AudioPlayWAV:     sig(i32x(2)),
	AudioPlayQOA:     sig(i32x(2)),
	AudioPlayXM:      sig(i32x(2)),

	StorageSave:  sig(i32x(4)),
	StorageLoad:  sig(i32x(2), i64),
	StorageFree:  sig(i32x(2)),
	SystemLog:    sig(i32x(2)),
	SystemMillis: sig(nil, i64),
}

// Signature returns the signature of a host import by name
func Signature(name string) (wasm.FuncType, bool) {
	ft, ok := signatures[name]
	return ft, ok
}

// Imports returns every host import name, sorted
func Imports() []string {
	names := make([]string, 0, len(signatures))
	for name := range signatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
