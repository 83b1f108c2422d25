package host

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm96/audio"
	"github.com/wippyai/wasm96/engine"
)

// AudioInit sets the output sample rate and returns the buffer size hint
func (h *Host) AudioInit(sampleRate uint32) uint32 {
	h.ctx.Lock()
	defer h.ctx.Unlock()
	return h.ctx.Audio.Init(sampleRate)
}

// PushSamples queues count interleaved stereo i16 samples
func (h *Host) PushSamples(mem engine.Memory, ptr, count uint32) {
	if count > maxAssetBytes/2 {
		count = maxAssetBytes / 2
	}
	samples, err := mem.ReadI16s(ptr, count)
	if err != nil {
		h.debug("audio_push_samples", err)
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Audio.Push(samples)
}

// PlayWAV decodes a WAV file and starts it on a new channel at unity volume
func (h *Host) PlayWAV(mem engine.Memory, ptr, n uint32) {
	const op = "audio_play_wav"
	data, ok := h.readBlob(op, mem, ptr, n, maxAssetBytes)
	if !ok {
		return
	}
	h.ctx.Lock()
	rate := h.ctx.Audio.SampleRate()
	h.ctx.Unlock()

	clip, err := audio.DecodeWAV(data, rate)
	if err != nil {
		h.warn(op, err)
		return
	}
	h.ctx.Lock()
	defer h.ctx.Unlock()
	h.ctx.Audio.Play(clip.Channel())
}

func (h *Host) PlayQOA(_ engine.Memory, _, n uint32) {
	h.unsupported("audio_play_qoa", n)
}

func (h *Host) PlayXM(_ engine.Memory, _, n uint32) {
	h.unsupported("audio_play_xm", n)
}

func (h *Host) unsupported(op string, n uint32) {
	Logger().Warn("unsupported audio format ignored",
		zap.String("op", op),
		zap.Uint32("len", n))
}
