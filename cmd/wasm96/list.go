package main

import (
	"fmt"
	"io"

	wasm96 "github.com/wippyai/wasm96"
	"github.com/wippyai/wasm96/abi"
	"github.com/wippyai/wasm96/wasm"
)

var kindNames = map[byte]string{
	wasm.KindFunc:   "func",
	wasm.KindTable:  "table",
	wasm.KindMemory: "memory",
	wasm.KindGlobal: "global",
	wasm.KindTag:    "tag",
}

// describe prints a guest's imports, checked against the host ABI, and
// its exports. It reports how many imports the host cannot satisfy.
func describe(w io.Writer, name string, data []byte) (int, error) {
	mod, err := wasm.ParseModule(data)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "Guest: %s (%d bytes, ABI v%d)\n", name, len(data), wasm96.ABIVersion)

	unresolved := 0
	fmt.Fprintf(w, "\nImports (%d):\n", len(mod.Imports))
	for _, imp := range mod.Imports {
		status := "ok"
		switch {
		case imp.Kind != wasm.KindFunc:
			status = "unsupported " + kindNames[imp.Kind]
		case imp.Module != wasm96.ImportModule:
			status = "unknown module"
		default:
			want, known := abi.Signature(imp.Name)
			got, _ := mod.ImportType(imp)
			switch {
			case !known:
				status = "unknown"
			case !got.Equal(want):
				status = "signature " + got.String() + ", want " + want.String()
			}
		}
		if status != "ok" {
			unresolved++
		}
		fmt.Fprintf(w, "  %s.%s  %s\n", imp.Module, imp.Name, status)
	}

	fmt.Fprintf(w, "\nExports (%d):\n", len(mod.Exports))
	for _, exp := range mod.Exports {
		line := fmt.Sprintf("  %s  %s", exp.Name, kindNames[exp.Kind])
		if exp.Kind == wasm.KindFunc {
			if ft, ok := mod.ExportedFunc(exp.Name); ok {
				line += " " + ft.String()
			}
		}
		fmt.Fprintln(w, line)
	}

	for _, required := range []struct {
		name string
		kind byte
	}{{abi.ExportSetup, wasm.KindFunc}, {abi.ExportMemory, wasm.KindMemory}} {
		if !mod.HasExport(required.name, required.kind) {
			fmt.Fprintf(w, "\nmissing required export %q\n", required.name)
			unresolved++
		}
	}
	for _, name := range []string{abi.ExportSetup, abi.ExportUpdate, abi.ExportDraw} {
		if ft, ok := mod.ExportedFunc(name); ok && (len(ft.Params) > 0 || len(ft.Results) > 0) {
			fmt.Fprintf(w, "\nexport %q is %s, want ()\n", name, ft.String())
			unresolved++
		}
	}
	return unresolved, nil
}
