// Package host implements the wasm96 host functions.
//
// Every import in the "env" module maps to one Host method. Methods read
// guest memory through bounds-checked accessors, take the context lock for
// the duration of their body and never trap: bad pointers, unknown keys and
// undecodable assets are logged at debug or warn level and the call
// becomes a no-op or returns 0.
//
// Module builds the engine.HostModule that decodes the wazero value stack
// into these methods.
package host
