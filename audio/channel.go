package audio

// Unity is volume 1.0 in q8.8 fixed point
const Unity = 256

// Channel is one playing clip: interleaved stereo PCM at the output rate.
// Position advances only by frames actually mixed.
type Channel struct {
	PCM        []int16
	Position   int
	SampleRate uint32
	Volume     uint16 // q8.8, 256 = 1.0
	Pan        int16  // negative is left, 0 is center
	Loop       bool
	done       bool
}

// NewChannel starts a clip at full volume, centered, not looping
func NewChannel(pcm []int16, sampleRate uint32) *Channel {
	return &Channel{PCM: pcm, SampleRate: sampleRate, Volume: Unity}
}

// Frames returns the clip length in stereo frames
func (c *Channel) Frames() int {
	return len(c.PCM) / 2
}

// Active reports whether the channel still produces sound
func (c *Channel) Active() bool {
	return !c.done && c.Frames() > 0
}

// Stop deactivates the channel
func (c *Channel) Stop() {
	c.done = true
}

// gains returns the per-side gain: the side the channel is panned away
// from is attenuated linearly, the other stays at 1.
func (c *Channel) gains() (left, right float32) {
	vol := float32(c.Volume) / Unity
	left, right = vol, vol
	if c.Pan > 0 {
		left *= float32(32768-int32(c.Pan)) / 32768
	}
	if c.Pan < 0 {
		right *= float32(32768+int32(c.Pan)) / 32768
	}
	return left, right
}

// MixInto adds up to len(dst)/2 frames of the channel into dst with
// saturation and returns the number of frames mixed. A looping channel
// wraps to the start; a finished one becomes inactive.
func (c *Channel) MixInto(dst []int16) int {
	if !c.Active() {
		return 0
	}
	left, right := c.gains()
	frames := c.Frames()
	mixed := 0
	for i := 0; i+1 < len(dst); i += 2 {
		if c.Position >= frames {
			if !c.Loop {
				c.done = true
				break
			}
			c.Position = 0
		}
		src := c.Position * 2
		dst[i] = addSat(dst[i], scale(c.PCM[src], left))
		dst[i+1] = addSat(dst[i+1], scale(c.PCM[src+1], right))
		c.Position++
		mixed++
	}
	if !c.Loop && c.Position >= frames {
		c.done = true
	}
	return mixed
}

func scale(s int16, gain float32) int32 {
	v := float32(s) * gain
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int32(v)
}

func addSat(a int16, b int32) int16 {
	return clamp16(int32(a) + b)
}

func clamp16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
