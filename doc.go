// Package wasm96 is a host runtime for wasm96 guests: untrusted WebAssembly
// modules that draw, play audio and read input through a fixed Immediate
// Mode ABI imported from the "env" module.
//
// The guest never owns a framebuffer or an audio device. Every frame the host
// snapshots input, calls the guest's update and draw exports, presents the
// framebuffer (compositing an optional 3D pass underneath) and drains audio.
//
// # Architecture Overview
//
//	wasm96/          Root package with Memory and Allocator interfaces
//	├── core/        Module lifecycle and the per-frame loop
//	├── host/        The ABI function table bound to a host context
//	├── state/       Host context: video, audio, input, resources, storage
//	├── engine/      wazero integration and the guest memory accessor
//	├── abi/         Import names, signatures, buttons, key hashing
//	├── video/       Framebuffer and 2D primitives
//	├── render/      3D render state and the software backend
//	├── audio/       Sample FIFO, mixer channels, clip decoding
//	├── input/       Per-frame input snapshot
//	├── assets/      Image, font and mesh decoders
//	├── resource/    Keyed resource tables
//	├── storage/     Guest key/value storage backends
//	├── wasm/        Binary module model, decoder and builder
//	├── config/      YAML configuration
//	├── telemetry/   OpenTelemetry tracing setup
//	├── errors/      Structured error types
//	└── cmd/wasm96/  Headless, interactive and -list command line runner
//
// # Quick Start
//
//	rt, err := core.New(ctx, core.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	if err := rt.Load(ctx, guestBytes); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    if err := rt.RunFrame(ctx, frontend); err != nil {
//	        log.Println(err)
//	    }
//	}
//
// # Thread Safety
//
// A Runtime drives one guest on one goroutine. The host context lock is held
// only for the duration of a single host function body and never across a
// guest call.
package wasm96
