package audio

// Output defaults and the delivery contract
const (
	DefaultSampleRate = 44100
	TargetFPS         = 60
	// BufferHint is what audio_init reports to the guest
	BufferHint = 1024

	// Output rates accepted by Init
	MinSampleRate = 8000
	MaxSampleRate = 192000
)

// Limits for a guest that never lets the queue drain
const (
	maxQueueSeconds = 4
	maxChannels     = 64
)

// State is the host audio state: a FIFO of interleaved stereo samples
// pushed by the guest plus the channels started by clip playback.
type State struct {
	queue      []int16
	channels   []*Channel
	sampleRate uint32
}

// New creates audio state at the default sample rate
func New() *State {
	return &State{sampleRate: DefaultSampleRate}
}

// Init sets the output sample rate and returns the buffer hint. Rates
// outside MinSampleRate..MaxSampleRate, zero included, keep the current one.
func (s *State) Init(sampleRate uint32) uint32 {
	if ValidRate(sampleRate) {
		s.sampleRate = sampleRate
	}
	return BufferHint
}

// ValidRate reports whether rate is an accepted output sample rate
func ValidRate(rate uint32) bool {
	return rate >= MinSampleRate && rate <= MaxSampleRate
}

// SampleRate returns the output sample rate
func (s *State) SampleRate() uint32 {
	return s.sampleRate
}

// MinFrames is the least number of frames delivered per drain
func (s *State) MinFrames() int {
	return int(s.sampleRate / TargetFPS)
}

// Push appends interleaved samples to the FIFO. When the FIFO exceeds a
// few seconds of audio the oldest frames are dropped.
func (s *State) Push(samples []int16) {
	s.queue = append(s.queue, samples...)
	limit := int(s.sampleRate) * maxQueueSeconds * 2
	if over := len(s.queue) - limit; over > 0 {
		over += over & 1
		s.queue = append(s.queue[:0], s.queue[over:]...)
	}
}

// Queued returns the number of samples waiting in the FIFO
func (s *State) Queued() int {
	return len(s.queue)
}

// Play starts a channel. Beyond the channel limit the oldest channel is
// dropped.
func (s *State) Play(c *Channel) {
	if c == nil || !c.Active() {
		return
	}
	if len(s.channels) >= maxChannels {
		s.channels = append(s.channels[:0], s.channels[1:]...)
	}
	s.channels = append(s.channels, c)
}

// Channels returns the live channels
func (s *State) Channels() []*Channel {
	return s.channels
}

// Drain takes up to maxFrames frames from the FIFO (0 takes all), pads the
// span with silence to at least MinFrames, mixes every active channel over
// it and prunes finished channels. The result is interleaved stereo.
func (s *State) Drain(maxFrames uint32) []int16 {
	take := len(s.queue) / 2
	if maxFrames != 0 && int(maxFrames) < take {
		take = int(maxFrames)
	}
	frames := max(take, s.MinFrames())

	out := make([]int16, frames*2)
	copy(out, s.queue[:take*2])
	s.queue = append(s.queue[:0], s.queue[take*2:]...)

	live := s.channels[:0]
	for _, c := range s.channels {
		c.MixInto(out)
		if c.Active() {
			live = append(live, c)
		}
	}
	clear(s.channels[len(live):])
	s.channels = live
	return out
}

// Reset drops queued samples and channels and restores the default rate
func (s *State) Reset() {
	s.queue = nil
	s.channels = nil
	s.sampleRate = DefaultSampleRate
}
