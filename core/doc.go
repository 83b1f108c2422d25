// Package core drives a wasm96 guest through its lifecycle.
//
// A Runtime owns one wazero engine, one host context and the host
// function table. Load compiles and validates a guest, rejecting unknown
// or mis-typed imports and guests without setup or memory. RunFrame then
// runs setup once and update/draw on every later frame, presenting the
// composited framebuffer and draining audio to the frontend.
//
// The render context lifecycle is separate: ContextDestroy and
// ContextReset model a lost and recreated 3D target. A reset forces setup
// to run again but keeps the instance and its memory.
package core
