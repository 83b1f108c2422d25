package input

import (
	"maps"

	"github.com/wippyai/wasm96/abi"
)

// Snapshot is the input state for one frame
type Snapshot struct {
	Keys         map[uint32]bool
	Buttons      [abi.MaxPorts]uint16 // bit n set = abi.Button(n) held
	MouseX       int32
	MouseY       int32
	MouseButtons uint32 // bit n set = mouse button n held
}

// Press marks a joypad button as held. Invalid ports and buttons are ignored.
func (s *Snapshot) Press(port uint32, b abi.Button) {
	if port >= abi.MaxPorts || !b.Valid() {
		return
	}
	s.Buttons[port] |= 1 << b
}

// SetKey records a key as held or released
func (s *Snapshot) SetKey(code uint32, down bool) {
	if !down {
		delete(s.Keys, code)
		return
	}
	if s.Keys == nil {
		s.Keys = make(map[uint32]bool)
	}
	s.Keys[code] = true
}

// ButtonDown reports whether btn is held on port. Ports outside 0..3 and
// buttons outside 0..15 are never down.
func (s *Snapshot) ButtonDown(port, btn uint32) bool {
	if port >= abi.MaxPorts || !abi.Button(btn).Valid() {
		return false
	}
	return s.Buttons[port]&(1<<btn) != 0
}

// KeyDown reports whether the key with the given code is held
func (s *Snapshot) KeyDown(code uint32) bool {
	return s.Keys[code]
}

// MouseDown reports whether mouse button btn is held
func (s *Snapshot) MouseDown(btn uint32) bool {
	if btn >= 32 {
		return false
	}
	return s.MouseButtons&(1<<btn) != 0
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	s.Keys = maps.Clone(s.Keys)
	return s
}

// Poller is implemented by frontends that read input devices
type Poller interface {
	PollInput() Snapshot
}

// PollerFunc adapts a function to Poller
type PollerFunc func() Snapshot

func (f PollerFunc) PollInput() Snapshot { return f() }

// State caches the snapshot taken at the start of the current frame
type State struct {
	current Snapshot
}

// Capture polls p once and stores a private copy. A nil poller yields an
// empty snapshot.
func (s *State) Capture(p Poller) {
	if p == nil {
		s.current = Snapshot{}
		return
	}
	s.current = p.PollInput().Clone()
}

// Current returns the snapshot for this frame
func (s *State) Current() *Snapshot {
	return &s.current
}

// Reset clears the snapshot
func (s *State) Reset() {
	s.current = Snapshot{}
}
