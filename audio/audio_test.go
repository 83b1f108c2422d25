package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(frames int, v int16) []int16 {
	out := make([]int16, frames*2)
	for i := range out {
		out[i] = v
	}
	return out
}

// wavFile builds a minimal PCM WAV file
func wavFile(rate uint32, channels, bits uint16, data []byte) []byte {
	block := channels * bits / 8
	out := make([]byte, 0, 44+len(data))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(data)))
	out = append(out, "WAVEfmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint16(out, channels)
	out = binary.LittleEndian.AppendUint32(out, rate)
	out = binary.LittleEndian.AppendUint32(out, rate*uint32(block))
	out = binary.LittleEndian.AppendUint16(out, block)
	out = binary.LittleEndian.AppendUint16(out, bits)
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	return append(out, data...)
}

func TestInit(t *testing.T) {
	s := New()
	assert.Equal(t, uint32(BufferHint), s.Init(0))
	assert.Equal(t, uint32(DefaultSampleRate), s.SampleRate())

	s.Init(48000)
	assert.Equal(t, uint32(48000), s.SampleRate())
	assert.Equal(t, 800, s.MinFrames())

	s.Reset()
	assert.Equal(t, uint32(DefaultSampleRate), s.SampleRate())
}

func TestInit_KeepsRateOutsideRange(t *testing.T) {
	s := New()
	s.Init(96000)
	for _, rate := range []uint32{MinSampleRate - 1, MaxSampleRate + 1, math.MaxUint32} {
		assert.Equal(t, uint32(BufferHint), s.Init(rate))
		assert.Equal(t, uint32(96000), s.SampleRate())
	}
	assert.Len(t, s.Drain(0), 1600*2)

	s.Init(MaxSampleRate)
	assert.Equal(t, uint32(MaxSampleRate), s.SampleRate())
}

func TestDrain_EmptyPadsSilence(t *testing.T) {
	s := New()
	out := s.Drain(0)
	require.Len(t, out, 735*2)
	for _, v := range out {
		require.Zero(t, v)
	}
}

func TestDrain_Queue(t *testing.T) {
	s := New()
	s.Push(constant(2000, 7))

	out := s.Drain(100)
	require.Len(t, out, 735*2)
	assert.Equal(t, int16(7), out[199])
	assert.Zero(t, out[200])
	assert.Equal(t, 1900*2, s.Queued())

	out = s.Drain(0)
	assert.Len(t, out, 1900*2)
	assert.Zero(t, s.Queued())
}

func TestPush_BoundsQueue(t *testing.T) {
	s := New()
	s.Init(1000)
	s.Push(constant(5000, 1))
	assert.Equal(t, 1000*maxQueueSeconds*2, s.Queued())
}

func TestChannel_MixAdvancesPosition(t *testing.T) {
	c := NewChannel(constant(4, 5000), DefaultSampleRate)
	dst := make([]int16, 2)

	assert.Equal(t, 1, c.MixInto(dst))
	assert.Equal(t, 1, c.Position)
	assert.Equal(t, []int16{5000, 5000}, dst)
	assert.True(t, c.Active())

	dst = make([]int16, 10)
	assert.Equal(t, 3, c.MixInto(dst))
	assert.Equal(t, 4, c.Position)
	assert.False(t, c.Active())
	assert.Zero(t, c.MixInto(dst))
}

func TestChannel_Saturates(t *testing.T) {
	c := NewChannel([]int16{30000, -30000}, DefaultSampleRate)
	dst := []int16{30000, -30000}
	c.MixInto(dst)
	assert.Equal(t, []int16{32767, -32768}, dst)

	loud := NewChannel([]int16{20000, 20000}, DefaultSampleRate)
	loud.Volume = 2 * Unity
	dst = make([]int16, 2)
	loud.MixInto(dst)
	assert.Equal(t, []int16{32767, 32767}, dst)
}

func TestChannel_Pan(t *testing.T) {
	tests := []struct {
		name        string
		pan         int16
		left, right int16
	}{
		{"center", 0, 10000, 10000},
		{"hard right", 32767, 0, 10000},
		{"hard left", -32768, 10000, 0},
		{"half right", 16384, 5000, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChannel([]int16{10000, 10000}, DefaultSampleRate)
			c.Pan = tt.pan
			dst := make([]int16, 2)
			c.MixInto(dst)
			assert.Equal(t, tt.left, dst[0])
			assert.Equal(t, tt.right, dst[1])
		})
	}
}

func TestChannel_Loop(t *testing.T) {
	c := NewChannel([]int16{1, 1, 2, 2}, DefaultSampleRate)
	c.Loop = true
	dst := make([]int16, 10)
	assert.Equal(t, 5, c.MixInto(dst))
	assert.Equal(t, []int16{1, 1, 2, 2, 1, 1, 2, 2, 1, 1}, dst)
	assert.True(t, c.Active())
	assert.Equal(t, 1, c.Position)
}

func TestDrain_MixesAndPrunes(t *testing.T) {
	s := New()
	s.Push(constant(735, 1000))
	s.Play(NewChannel(constant(735, 1000), DefaultSampleRate))
	looping := NewChannel(constant(10, 1), DefaultSampleRate)
	looping.Loop = true
	s.Play(looping)
	require.Len(t, s.Channels(), 2)

	out := s.Drain(0)
	require.Len(t, out, 735*2)
	assert.Equal(t, int16(2001), out[0])
	assert.Equal(t, int16(2001), out[len(out)-1])
	require.Len(t, s.Channels(), 1)
	assert.Same(t, looping, s.Channels()[0])
}

func TestDrain_ClipsPlayWithoutQueue(t *testing.T) {
	s := New()
	s.Play(NewChannel(constant(1000, 300), DefaultSampleRate))

	out := s.Drain(0)
	require.Len(t, out, 735*2)
	assert.Equal(t, int16(300), out[0])
	assert.Equal(t, 735, s.Channels()[0].Position)
}

func TestPlay_LimitsChannels(t *testing.T) {
	s := New()
	first := NewChannel(constant(1, 1), DefaultSampleRate)
	s.Play(first)
	for range maxChannels {
		s.Play(NewChannel(constant(1, 1), DefaultSampleRate))
	}
	assert.Len(t, s.Channels(), maxChannels)
	for _, c := range s.Channels() {
		assert.NotSame(t, first, c)
	}

	s.Play(NewChannel(nil, DefaultSampleRate))
	assert.Len(t, s.Channels(), maxChannels)
}

func TestDecodeWAV(t *testing.T) {
	t.Run("16-bit mono", func(t *testing.T) {
		data := make([]byte, 0, 6)
		for _, v := range []int16{100, -200, 300} {
			data = binary.LittleEndian.AppendUint16(data, uint16(v))
		}
		clip, err := DecodeWAV(wavFile(44100, 1, 16, data), 44100)
		require.NoError(t, err)
		assert.Equal(t, []int16{100, 100, -200, -200, 300, 300}, clip.PCM)
		assert.Equal(t, uint32(44100), clip.Rate)
	})

	t.Run("8-bit stereo is unsigned", func(t *testing.T) {
		clip, err := DecodeWAV(wavFile(8000, 2, 8, []byte{0, 255, 128, 128}), 8000)
		require.NoError(t, err)
		assert.Equal(t, []int16{-32768, 127 << 8, 0, 0}, clip.PCM)
	})

	t.Run("resampled", func(t *testing.T) {
		data := make([]byte, 0, 8)
		for _, v := range []int16{0, 0, 1000, 1000} {
			data = binary.LittleEndian.AppendUint16(data, uint16(v))
		}
		clip, err := DecodeWAV(wavFile(22050, 2, 16, data), 44100)
		require.NoError(t, err)
		assert.Equal(t, []int16{0, 0, 500, 500, 1000, 1000, 1000, 1000}, clip.PCM)

		ch := clip.Channel()
		assert.Equal(t, 4, ch.Frames())
		assert.Equal(t, uint16(Unity), ch.Volume)
	})

	t.Run("source rate out of range", func(t *testing.T) {
		_, err := DecodeWAV(wavFile(1, 1, 16, []byte{0, 0, 1, 0}), 44100)
		assert.Error(t, err)
	})

	t.Run("output rate out of range", func(t *testing.T) {
		_, err := DecodeWAV(wavFile(8000, 1, 16, []byte{0, 0, 1, 0}), math.MaxUint32)
		assert.Error(t, err)
	})

	t.Run("converted clip too long", func(t *testing.T) {
		// 8-bit mono at 8 kHz grows 96 times when converted to 192 kHz stereo
		data := make([]byte, MaxClipSamples/48+2)
		_, err := DecodeWAV(wavFile(8000, 1, 8, data), MaxSampleRate)
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := DecodeWAV([]byte("definitely not a wav file"), 44100)
		assert.Error(t, err)
	})
}

func TestResample_SameRate(t *testing.T) {
	pcm := []int16{1, 2, 3, 4}
	assert.Equal(t, pcm, Resample(pcm, 44100, 44100))
}
