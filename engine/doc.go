// Package engine wraps wazero for the wasm96 host.
//
// # Architecture
//
//	Engine     - owns a wazero runtime and its configuration
//	Module     - a compiled guest plus its decoded import/export metadata
//	HostModule - host functions registered under one import module name
//	Instance   - a running guest: exported functions, memory, allocator
//	Memory     - bounds-checked access to guest linear memory
//
// # Loading Flow
//
//  1. Engine.Compile parses the guest's imports and compiles it
//  2. Module.CheckImports compares every import against the host modules
//  3. HostModule.Instantiate registers the host functions in the runtime
//  4. Module.Instantiate creates the Instance
//
// # Memory Access
//
// Memory never caches a pointer into the guest. Each call resolves the
// exported "memory" and validates offset+length against the size at that
// moment, so a guest that grows its memory inside a host call is handled.
// Reads return copies.
//
// # Guest Allocation
//
// Host functions that hand data back to the guest allocate through the
// guest's own allocator: wasm96_alloc, malloc or cabi_realloc, whichever is
// exported first. The matching free export is optional.
package engine
