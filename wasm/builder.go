package wasm

// Builder assembles small modules programmatically. It deduplicates
// function types and keeps imported functions ahead of defined ones so the
// indices it returns stay valid.
type Builder struct {
	mod      Module
	typeIdx  map[string]uint32
	imported uint32
	defined  []definedFunc
}

type definedFunc struct {
	export string
	body   FuncBody
	typ    uint32
}

// NewBuilder creates an empty module builder
func NewBuilder() *Builder {
	return &Builder{typeIdx: make(map[string]uint32)}
}

// Type returns the index of a function type, adding it when new
func (b *Builder) Type(ft FuncType) uint32 {
	key := ft.String()
	if idx, ok := b.typeIdx[key]; ok {
		return idx
	}
	idx := uint32(len(b.mod.Types))
	b.mod.Types = append(b.mod.Types, ft)
	b.typeIdx[key] = idx
	return idx
}

// ImportFunc declares a function import and returns its function index.
// All imports must be declared before the first Func call.
func (b *Builder) ImportFunc(module, name string, ft FuncType) uint32 {
	if len(b.defined) > 0 {
		panic("wasm: ImportFunc after Func")
	}
	b.mod.Imports = append(b.mod.Imports, Import{
		Module:  module,
		Name:    name,
		Kind:    KindFunc,
		TypeIdx: b.Type(ft),
	})
	idx := b.imported
	b.imported++
	return idx
}

// Func defines a function and exports it under export when non-empty.
// It returns the function index.
func (b *Builder) Func(export string, ft FuncType, body *Body) uint32 {
	idx := b.imported + uint32(len(b.defined))
	b.defined = append(b.defined, definedFunc{
		export: export,
		typ:    b.Type(ft),
		body:   body.FuncBody(),
	})
	return idx
}

// Memory declares memory 0 with the given minimum page count and exports it
// as "memory" when export is true.
func (b *Builder) Memory(minPages uint32, export bool) {
	b.mod.Memories = append(b.mod.Memories, MemoryType{Limits: Limits{Min: minPages}})
	if export {
		b.mod.Exports = append(b.mod.Exports, Export{Name: "memory", Kind: KindMemory, Idx: 0})
	}
}

// MutableGlobalI32 declares a mutable i32 global and returns its index
func (b *Builder) MutableGlobalI32(init int32) uint32 {
	expr := append([]byte{OpI32Const}, AppendLEB128s(nil, int64(init))...)
	expr = append(expr, OpEnd)
	b.mod.Globals = append(b.mod.Globals, Global{Type: ValI32, Mutable: true, Init: expr})
	return uint32(len(b.mod.Globals) - 1)
}

// Data places bytes at a fixed memory offset
func (b *Builder) Data(offset uint32, data []byte) {
	b.mod.Data = append(b.mod.Data, DataSegment{Offset: offset, Init: data})
}

// Start makes the function at idx the module's start function
func (b *Builder) Start(idx uint32) {
	b.mod.Start = &idx
}

// Module returns the assembled module
func (b *Builder) Module() *Module {
	m := b.mod
	m.Funcs = nil
	m.Code = nil
	exports := append([]Export(nil), b.mod.Exports...)
	for i, fn := range b.defined {
		m.Funcs = append(m.Funcs, fn.typ)
		m.Code = append(m.Code, fn.body)
		if fn.export != "" {
			exports = append(exports, Export{Name: fn.export, Kind: KindFunc, Idx: b.imported + uint32(i)})
		}
	}
	m.Exports = exports
	return &m
}

// Bytes encodes the assembled module
func (b *Builder) Bytes() []byte {
	return b.Module().Encode()
}

// Body accumulates an instruction stream
type Body struct {
	locals []LocalEntry
	code   []byte
}

// NewBody creates an empty function body
func NewBody() *Body {
	return &Body{}
}

// Locals declares count locals of type t
func (c *Body) Locals(count uint32, t ValType) *Body {
	c.locals = append(c.locals, LocalEntry{Count: count, Type: t})
	return c
}

// I32 pushes an i32 constant
func (c *Body) I32(v int32) *Body {
	c.code = append(c.code, OpI32Const)
	c.code = AppendLEB128s(c.code, int64(v))
	return c
}

// I64 pushes an i64 constant
func (c *Body) I64(v int64) *Body {
	c.code = append(c.code, OpI64Const)
	c.code = AppendLEB128s(c.code, v)
	return c
}

// U64 pushes a 64-bit key constant, reinterpreting the bits as i64
func (c *Body) U64(v uint64) *Body {
	return c.I64(int64(v))
}

// F32 pushes an f32 constant
func (c *Body) F32(v float32) *Body {
	c.code = append(c.code, OpF32Const)
	c.code = AppendF32(c.code, v)
	return c
}

// Call calls the function at idx
func (c *Body) Call(idx uint32) *Body {
	c.code = append(c.code, OpCall)
	c.code = AppendLEB128u(c.code, uint64(idx))
	return c
}

// LocalGet pushes local idx
func (c *Body) LocalGet(idx uint32) *Body {
	c.code = append(c.code, OpLocalGet)
	c.code = AppendLEB128u(c.code, uint64(idx))
	return c
}

// LocalSet pops into local idx
func (c *Body) LocalSet(idx uint32) *Body {
	c.code = append(c.code, OpLocalSet)
	c.code = AppendLEB128u(c.code, uint64(idx))
	return c
}

// GlobalGet pushes global idx
func (c *Body) GlobalGet(idx uint32) *Body {
	c.code = append(c.code, OpGlobalGet)
	c.code = AppendLEB128u(c.code, uint64(idx))
	return c
}

// GlobalSet pops into global idx
func (c *Body) GlobalSet(idx uint32) *Body {
	c.code = append(c.code, OpGlobalSet)
	c.code = AppendLEB128u(c.code, uint64(idx))
	return c
}

// I32Store stores an i32 (address, value on the stack) at offset
func (c *Body) I32Store(offset uint32) *Body {
	c.code = append(c.code, OpI32Store, 2)
	c.code = AppendLEB128u(c.code, uint64(offset))
	return c
}

// Op appends raw opcodes
func (c *Body) Op(ops ...byte) *Body {
	c.code = append(c.code, ops...)
	return c
}

// Drop discards the top of the stack
func (c *Body) Drop() *Body {
	return c.Op(OpDrop)
}

// Unreachable traps
func (c *Body) Unreachable() *Body {
	return c.Op(OpUnreachable)
}

// FuncBody terminates the instruction stream and returns the body
func (c *Body) FuncBody() FuncBody {
	code := append(append([]byte(nil), c.code...), OpEnd)
	return FuncBody{Locals: c.locals, Code: code}
}
