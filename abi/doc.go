// Package abi defines the wasm96 guest/host contract: import names and
// signatures, guest entrypoints, joypad buttons and resource key hashing.
//
// Every host function is imported from the "env" module under the name
// wasm96_<group>_<fn>. Strings and byte buffers cross the boundary as
// (ptr, len) pairs of i32. Booleans are i32 0 or 1. Two 32-bit results
// are packed into one i64 as (hi<<32)|lo.
package abi
