// Package errors provides structured error types for the wasm96 host.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a field path, the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRender, errors.KindInvalidInput).
//		Path("mesh", "cube").
//		Detail("index %d exceeds %d vertices", idx, n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMemory, offset, length, size)
//	err := errors.Decode("png", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on (Phase, Kind), so a zero-valued template works as a
// sentinel:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseMemory, Kind: errors.KindOutOfBounds}) { ... }
package errors
