package wasm

import "encoding/binary"

// Encode encodes the module to WebAssembly binary format
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 256)
	out = binary.LittleEndian.AppendUint32(out, Magic)
	out = binary.LittleEndian.AppendUint32(out, Version)

	if len(m.Types) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Types)))
		for _, ft := range m.Types {
			sec = append(sec, FuncTypeByte)
			sec = appendValTypes(sec, ft.Params)
			sec = appendValTypes(sec, ft.Results)
		}
		out = appendSection(out, SectionType, sec)
	}

	if len(m.Imports) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Imports)))
		for _, imp := range m.Imports {
			sec = appendName(sec, imp.Module)
			sec = appendName(sec, imp.Name)
			sec = append(sec, imp.Kind)
			switch imp.Kind {
			case KindFunc:
				sec = AppendLEB128u(sec, uint64(imp.TypeIdx))
			case KindMemory:
				var mt MemoryType
				if imp.Memory != nil {
					mt = *imp.Memory
				}
				sec = appendLimits(sec, mt.Limits)
			}
		}
		out = appendSection(out, SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec = AppendLEB128u(sec, uint64(typeIdx))
		}
		out = appendSection(out, SectionFunction, sec)
	}

	if len(m.Memories) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Memories)))
		for _, mem := range m.Memories {
			sec = appendLimits(sec, mem.Limits)
		}
		out = appendSection(out, SectionMemory, sec)
	}

	if len(m.Globals) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Globals)))
		for _, g := range m.Globals {
			sec = append(sec, byte(g.Type))
			if g.Mutable {
				sec = append(sec, 1)
			} else {
				sec = append(sec, 0)
			}
			sec = append(sec, g.Init...)
		}
		out = appendSection(out, SectionGlobal, sec)
	}

	if len(m.Exports) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Exports)))
		for _, exp := range m.Exports {
			sec = appendName(sec, exp.Name)
			sec = append(sec, exp.Kind)
			sec = AppendLEB128u(sec, uint64(exp.Idx))
		}
		out = appendSection(out, SectionExport, sec)
	}

	if m.Start != nil {
		out = appendSection(out, SectionStart, AppendLEB128u(nil, uint64(*m.Start)))
	}

	if len(m.Code) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Code)))
		for _, body := range m.Code {
			fn := AppendLEB128u(nil, uint64(len(body.Locals)))
			for _, l := range body.Locals {
				fn = AppendLEB128u(fn, uint64(l.Count))
				fn = append(fn, byte(l.Type))
			}
			fn = append(fn, body.Code...)
			sec = AppendLEB128u(sec, uint64(len(fn)))
			sec = append(sec, fn...)
		}
		out = appendSection(out, SectionCode, sec)
	}

	if len(m.Data) > 0 {
		sec := AppendLEB128u(nil, uint64(len(m.Data)))
		for _, d := range m.Data {
			sec = append(sec, 0) // active, memory 0
			sec = append(sec, OpI32Const)
			sec = AppendLEB128s(sec, int64(int32(d.Offset)))
			sec = append(sec, OpEnd)
			sec = AppendLEB128u(sec, uint64(len(d.Init)))
			sec = append(sec, d.Init...)
		}
		out = appendSection(out, SectionData, sec)
	}

	return out
}

func appendSection(out []byte, id byte, data []byte) []byte {
	out = append(out, id)
	out = AppendLEB128u(out, uint64(len(data)))
	return append(out, data...)
}

func appendName(out []byte, s string) []byte {
	out = AppendLEB128u(out, uint64(len(s)))
	return append(out, s...)
}

func appendValTypes(out []byte, types []ValType) []byte {
	out = AppendLEB128u(out, uint64(len(types)))
	for _, t := range types {
		out = append(out, byte(t))
	}
	return out
}

func appendLimits(out []byte, l Limits) []byte {
	if l.Max != nil {
		out = append(out, LimitsHasMax)
		out = AppendLEB128u(out, uint64(l.Min))
		return AppendLEB128u(out, uint64(*l.Max))
	}
	out = append(out, 0)
	return AppendLEB128u(out, uint64(l.Min))
}
