package wasm

import "strings"

// ValType is a WebAssembly value type
type ValType byte

// String returns the text-format name of the value type
func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	default:
		return "unknown"
	}
}

// Module is the subset of a core WebAssembly module the host inspects and
// the test fixtures produce.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type indices of defined functions
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32 // start function index, nil when absent
	Code     []FuncBody
	Data     []DataSegment
}

// FuncType is a function signature
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether two signatures are identical
func (f FuncType) Equal(o FuncType) bool {
	if len(f.Params) != len(o.Params) || len(f.Results) != len(o.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// String renders the signature as "(i32, i32) -> i64"
func (f FuncType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if len(f.Results) > 0 {
		b.WriteString(" -> ")
		for i, r := range f.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
	}
	return b.String()
}

// Import is a module import. Only function imports carry TypeIdx; memory
// imports carry Memory.
type Import struct {
	Module  string
	Name    string
	Kind    byte
	TypeIdx uint32
	Memory  *MemoryType
}

// Export is a module export
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Limits describes memory bounds in 64KiB pages
type Limits struct {
	Max *uint32
	Min uint32
}

// MemoryType describes a linear memory
type MemoryType struct {
	Limits Limits
}

// Global is a mutable or immutable global with a constant initializer
type Global struct {
	Init    []byte // init expression including the trailing end opcode
	Type    ValType
	Mutable bool
}

// FuncBody is a function's locals and instruction stream
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // instructions including the trailing end opcode
}

// LocalEntry declares Count locals of Type
type LocalEntry struct {
	Count uint32
	Type  ValType
}

// DataSegment is an active data segment for memory 0
type DataSegment struct {
	Init   []byte
	Offset uint32
}

// ImportedFuncCount returns the number of function imports, which precede
// defined functions in the function index space.
func (m *Module) ImportedFuncCount() uint32 {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Kind == KindFunc {
			n++
		}
	}
	return n
}

// ImportType returns the signature of a function import
func (m *Module) ImportType(imp Import) (FuncType, bool) {
	if imp.Kind != KindFunc || int(imp.TypeIdx) >= len(m.Types) {
		return FuncType{}, false
	}
	return m.Types[imp.TypeIdx], true
}

// ExportedFunc returns the signature of an exported function by name
func (m *Module) ExportedFunc(name string) (FuncType, bool) {
	for _, exp := range m.Exports {
		if exp.Name != name || exp.Kind != KindFunc {
			continue
		}
		imported := m.ImportedFuncCount()
		if exp.Idx < imported {
			var seen uint32
			for _, imp := range m.Imports {
				if imp.Kind != KindFunc {
					continue
				}
				if seen == exp.Idx {
					return m.ImportType(imp)
				}
				seen++
			}
			return FuncType{}, false
		}
		local := exp.Idx - imported
		if int(local) >= len(m.Funcs) || int(m.Funcs[local]) >= len(m.Types) {
			return FuncType{}, false
		}
		return m.Types[m.Funcs[local]], true
	}
	return FuncType{}, false
}

// HasExport reports whether an export with the given name and kind exists
func (m *Module) HasExport(name string, kind byte) bool {
	for _, exp := range m.Exports {
		if exp.Name == name && exp.Kind == kind {
			return true
		}
	}
	return false
}
