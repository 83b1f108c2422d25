// Package audio holds the host side of wasm96 sound.
//
// Guests either push interleaved stereo int16 samples into a FIFO or start
// clips (decoded WAV files) that play on their own channels. Once per frame
// the host calls Drain, which takes samples from the FIFO, pads the span
// with silence to at least SampleRate/60 frames, and mixes every active
// channel over it with saturation.
package audio
