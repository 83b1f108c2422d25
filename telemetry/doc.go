// Package telemetry installs OpenTelemetry tracing for the runtime. Load,
// setup and every frame phase run inside spans started with StartSpan.
package telemetry
