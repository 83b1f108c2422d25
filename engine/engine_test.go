package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/wasm"
)

var (
	i32 = wasm.ValI32
	i64 = wasm.ValI64
)

func noop(context.Context, api.Module, []uint64) {}

// bumpGuest exports memory plus a bump allocator starting at 1024.
func bumpGuest() []byte {
	b := wasm.NewBuilder()
	b.Memory(1, true)
	heap := b.MutableGlobalI32(1024)
	b.Func("malloc", wasm.FuncType{Params: []wasm.ValType{i32}, Results: []wasm.ValType{i32}},
		wasm.NewBody().GlobalGet(heap).GlobalGet(heap).LocalGet(0).Op(wasm.OpI32Add).GlobalSet(heap))
	b.Func("setup", wasm.FuncType{}, wasm.NewBody())
	b.Data(16, []byte("hello"))
	return b.Bytes()
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		cfg  *Config
		name string
	}{
		{nil, "nil config"},
		{&Config{}, "default config"},
		{&Config{MemoryLimitPages: 256}, "16MB limit"},
		{&Config{CloseOnContextDone: true}, "close on context done"},
		{&Config{EnableWASI: true}, "wasi"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := New(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer e.Close(ctx)
			if e.Runtime() == nil {
				t.Error("engine runtime should not be nil")
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close(ctx)

	_, err = e.Compile(ctx, []byte("not wasm at all"))
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidData}) {
		t.Errorf("expected load phase error, got %v", err)
	}
}

func TestCheckImports(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close(ctx)

	host := NewHostModule("env")
	host.MustRegister(
		HostFunc{Name: "point", Params: []wasm.ValType{i32, i32}, Fn: noop},
		HostFunc{Name: "millis", Results: []wasm.ValType{i64}, Fn: noop},
	)

	tests := []struct {
		name    string
		imports func(b *wasm.Builder)
		missing []string
	}{
		{
			name: "all resolved",
			imports: func(b *wasm.Builder) {
				b.ImportFunc("env", "point", wasm.FuncType{Params: []wasm.ValType{i32, i32}})
				b.ImportFunc("env", "millis", wasm.FuncType{Results: []wasm.ValType{i64}})
			},
		},
		{
			name: "unknown name",
			imports: func(b *wasm.Builder) {
				b.ImportFunc("env", "teleport", wasm.FuncType{})
			},
			missing: []string{"teleport"},
		},
		{
			name: "signature mismatch",
			imports: func(b *wasm.Builder) {
				b.ImportFunc("env", "point", wasm.FuncType{Params: []wasm.ValType{i32}})
			},
			missing: []string{"point"},
		},
		{
			name: "unknown module",
			imports: func(b *wasm.Builder) {
				b.ImportFunc("other", "point", wasm.FuncType{Params: []wasm.ValType{i32, i32}})
			},
			missing: []string{"point"},
		},
		{
			name: "wasi without wasi enabled",
			imports: func(b *wasm.Builder) {
				b.ImportFunc(WASIModule, "proc_exit", wasm.FuncType{Params: []wasm.ValType{i32}})
			},
			missing: []string{"proc_exit"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := wasm.NewBuilder()
			tc.imports(b)
			b.Memory(1, true)
			b.Func("setup", wasm.FuncType{}, wasm.NewBody())

			mod, err := e.Compile(ctx, b.Bytes())
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			defer mod.Close(ctx)

			err = mod.CheckImports(host)
			if len(tc.missing) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var mie *errors.MissingImportsError
			if !stderrors.As(err, &mie) {
				t.Fatalf("expected MissingImportsError, got %v", err)
			}
			if len(mie.Imports) != len(tc.missing) {
				t.Fatalf("missing = %+v, want %v", mie.Imports, tc.missing)
			}
			for i, name := range tc.missing {
				if mie.Imports[i].Function != name {
					t.Errorf("missing[%d] = %s, want %s", i, mie.Imports[i].Function, name)
				}
			}
		})
	}
}

func TestHostModule_Register(t *testing.T) {
	h := NewHostModule("env")
	if err := h.Register(HostFunc{Name: "a", Fn: noop}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := h.Register(HostFunc{Name: "a", Fn: noop}); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := h.Register(HostFunc{Name: "b"}); err == nil {
		t.Error("nil handler should fail")
	}
	if names := h.Names(); len(names) != 1 || names[0] != "a" {
		t.Errorf("Names = %v", names)
	}
}

func TestInstance_HostCallAndMemory(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close(ctx)

	var got []uint64
	host := NewHostModule("env")
	host.MustRegister(HostFunc{
		Name:   "record",
		Params: []wasm.ValType{i32, i64},
		Fn: func(_ context.Context, _ api.Module, stack []uint64) {
			got = append(got, stack[0], stack[1])
		},
	})
	if _, err := host.Instantiate(ctx, e); err != nil {
		t.Fatalf("host Instantiate: %v", err)
	}

	b := wasm.NewBuilder()
	record := b.ImportFunc("env", "record", wasm.FuncType{Params: []wasm.ValType{i32, i64}})
	b.Memory(1, true)
	b.Func("setup", wasm.FuncType{}, wasm.NewBody().I32(7).I64(-1).Call(record))

	mod, err := e.Compile(ctx, b.Bytes())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := mod.CheckImports(host); err != nil {
		t.Fatalf("CheckImports: %v", err)
	}
	inst, err := mod.Instantiate(ctx, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer CloseAll(ctx, inst, mod)

	if !inst.HasFunction("setup") || inst.HasFunction("draw") {
		t.Error("unexpected export resolution")
	}
	if !inst.HasMemory() {
		t.Error("memory export not found")
	}
	if _, err := inst.Call(ctx, "setup"); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(got) != 2 || got[0] != 7 || got[1] != ^uint64(0) {
		t.Errorf("host received %v", got)
	}
	if _, err := inst.Call(ctx, "draw"); err == nil {
		t.Error("calling a missing export should fail")
	}
}

func TestMemory_Access(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close(ctx)

	mod, err := e.Compile(ctx, bumpGuest())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	inst, err := mod.Instantiate(ctx, nil)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer CloseAll(ctx, inst, mod)

	mem := inst.Memory()
	if mem.Size() != 65536 {
		t.Fatalf("Size = %d", mem.Size())
	}

	s, err := mem.ReadString(16, 5)
	if err != nil || s != "hello" {
		t.Fatalf("ReadString = %q, %v", s, err)
	}

	data, _ := mem.Read(16, 5)
	data[0] = 'j'
	if s, _ := mem.ReadString(16, 5); s != "hello" {
		t.Error("Read must return a copy")
	}

	if err := mem.Write(100, []byte{1, 0, 0xff, 0xff}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	i16s, err := mem.ReadI16s(100, 2)
	if err != nil || i16s[0] != 1 || i16s[1] != -1 {
		t.Errorf("ReadI16s = %v, %v", i16s, err)
	}
	if err := mem.WriteU32(200, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	u32s, err := mem.ReadU32s(200, 1)
	if err != nil || u32s[0] != 0xdeadbeef {
		t.Errorf("ReadU32s = %x, %v", u32s, err)
	}

	tests := []struct {
		name   string
		kind   errors.Kind
		offset uint32
		length uint32
	}{
		{"past end", errors.KindOutOfBounds, 65530, 10},
		{"offset beyond size", errors.KindOutOfBounds, 70000, 0},
		{"wraps 32 bits", errors.KindOutOfBounds, 0xFFFFFFFF, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mem.Read(tc.offset, tc.length)
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: tc.kind}) {
				t.Errorf("got %v, want %s", err, tc.kind)
			}
			if err := mem.Write(tc.offset, make([]byte, tc.length)); err == nil {
				t.Error("Write should fail")
			}
		})
	}

	if _, err := mem.ReadF32s(0, 0x80000000); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOverflow}) {
		t.Errorf("element overflow: got %v", err)
	}
}

func TestMemory_NotInitialized(t *testing.T) {
	var mem Memory
	if mem.Size() != 0 {
		t.Error("zero Memory should report size 0")
	}
	_, err := mem.Read(0, 1)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindNotInitialized}) {
		t.Errorf("got %v", err)
	}
	mem = NewMemory(func() api.Memory { return nil })
	if err := mem.Write(0, []byte{1}); err == nil {
		t.Error("expected error without memory")
	}
}

func TestAllocator(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close(ctx)

	mod, err := e.Compile(ctx, bumpGuest())
	if err != nil {
		t.Fatal(err)
	}
	inst, err := mod.Instantiate(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer CloseAll(ctx, inst, mod)

	alloc := inst.Allocator()
	p1, err := alloc.Alloc(ctx, 10)
	if err != nil || p1 != 1024 {
		t.Fatalf("first Alloc = %d, %v", p1, err)
	}
	p2, err := alloc.Alloc(ctx, 4)
	if err != nil || p2 != 1034 {
		t.Fatalf("second Alloc = %d, %v", p2, err)
	}
	// No free export: Free is a no-op.
	alloc.Free(ctx, p1, 10)
}

func TestAllocator_Missing(t *testing.T) {
	ctx := context.Background()
	e, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close(ctx)

	b := wasm.NewBuilder()
	b.Memory(1, true)
	b.Func("setup", wasm.FuncType{}, wasm.NewBody())
	mod, err := e.Compile(ctx, b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	inst, err := mod.Instantiate(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer CloseAll(ctx, inst, mod)

	_, err = inst.Allocator().Alloc(ctx, 8)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindAllocation}) {
		t.Errorf("got %v", err)
	}
}
