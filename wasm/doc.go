// Package wasm provides the core WebAssembly binary primitives the host
// needs around the engine: a module model, a LEB128 codec, an encoder, a
// decoder for the import/export surface, and a Builder for assembling small
// guest modules in tests.
//
// The decoder is deliberately shallow. It extracts types, imports, function
// declarations, memories and exports so the runtime can report unresolved
// host functions with their expected signatures before instantiation; full
// validation is left to the engine.
//
//	m, err := wasm.ParseModule(data)
//	for _, imp := range m.Imports {
//		ft, _ := m.ImportType(imp)
//		fmt.Println(imp.Module, imp.Name, ft)
//	}
package wasm
