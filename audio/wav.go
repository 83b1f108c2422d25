package audio

import (
	"bytes"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/wippyai/wasm96/errors"
)

// WAV format tags accepted by DecodeWAV
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// MaxClipSamples bounds a decoded clip after conversion to the output rate
const MaxClipSamples = 32 << 20

// Clip is decoded PCM ready for playback: interleaved stereo at Rate.
type Clip struct {
	PCM  []int16
	Rate uint32
}

// DecodeWAV decodes an 8, 16, 24 or 32-bit integer PCM WAV file with one
// or more channels and converts it to stereo at outRate. Files whose rate
// lies outside MinSampleRate..MaxSampleRate, or whose converted length
// exceeds MaxClipSamples, are rejected.
func DecodeWAV(data []byte, outRate uint32) (*Clip, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errors.Decode("wav", fmt.Errorf("not a RIFF/WAVE file"))
	}
	if d.WavAudioFormat != wavFormatPCM && d.WavAudioFormat != wavFormatExtensible {
		return nil, errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("wav format tag %d", d.WavAudioFormat))
	}
	switch d.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("wav bit depth %d", d.BitDepth))
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return nil, errors.Decode("wav", fmt.Errorf("invalid format: %d channels at %d Hz", d.NumChans, d.SampleRate))
	}

	if !ValidRate(d.SampleRate) {
		return nil, errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("wav sample rate %d Hz", d.SampleRate))
	}
	if outRate == 0 {
		outRate = d.SampleRate
	}
	if !ValidRate(outRate) {
		return nil, errors.InvalidInput(errors.PhaseAudio, fmt.Sprintf("output rate %d Hz", outRate))
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Decode("wav", err)
	}
	frames := uint64(len(buf.Data) / int(d.NumChans))
	if out := frames * uint64(outRate) / uint64(d.SampleRate) * 2; out > MaxClipSamples {
		return nil, errors.New(errors.PhaseAudio, errors.KindOverflow).
			Value(out).
			Detail("clip exceeds %d samples", MaxClipSamples).
			Build()
	}
	stereo := toStereo(buf, int(d.NumChans), int(d.BitDepth))
	return &Clip{PCM: Resample(stereo, d.SampleRate, outRate), Rate: outRate}, nil
}

// Channel returns a new channel playing the clip
func (c *Clip) Channel() *Channel {
	return NewChannel(c.PCM, c.Rate)
}

// toStereo converts decoded integer samples to interleaved stereo int16.
// Mono is duplicated; channels beyond the second are dropped.
func toStereo(buf *goaudio.IntBuffer, channels, bitDepth int) []int16 {
	frames := len(buf.Data) / channels
	out := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		l := sample16(buf.Data[i*channels], bitDepth)
		r := l
		if channels > 1 {
			r = sample16(buf.Data[i*channels+1], bitDepth)
		}
		out[i*2] = l
		out[i*2+1] = r
	}
	return out
}

// sample16 narrows a sample to 16 bits. 8-bit WAV samples are unsigned.
func sample16(v, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		return clamp16(int32(v-128) << 8)
	case 24:
		return clamp16(int32(v >> 8))
	case 32:
		return clamp16(int32(v >> 16))
	default:
		return clamp16(int32(v))
	}
}

// Resample converts interleaved stereo between rates with linear
// interpolation.
func Resample(pcm []int16, from, to uint32) []int16 {
	if from == to || from == 0 || to == 0 || len(pcm) < 2 {
		return pcm
	}
	inFrames := len(pcm) / 2
	outFrames := int(uint64(inFrames) * uint64(to) / uint64(from))
	out := make([]int16, outFrames*2)
	step := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		k := min(j+1, inFrames-1)
		for ch := 0; ch < 2; ch++ {
			a := float64(pcm[j*2+ch])
			b := float64(pcm[k*2+ch])
			out[i*2+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}
