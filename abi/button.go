package abi

// Button is a joypad button id
type Button uint32

const (
	ButtonB Button = iota
	ButtonY
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonX
	ButtonL1
	ButtonR1
	ButtonL2
	ButtonR2
	ButtonL3
	ButtonR3

	// ButtonCount is the number of buttons per port
	ButtonCount = 16
)

// MaxPorts is the number of joypad ports the host polls
const MaxPorts = 4

var buttonNames = [ButtonCount]string{
	"B", "Y", "Select", "Start", "Up", "Down", "Left", "Right",
	"A", "X", "L1", "R1", "L2", "R2", "L3", "R3",
}

// Valid reports whether b is a known button
func (b Button) Valid() bool {
	return b < ButtonCount
}

func (b Button) String() string {
	if !b.Valid() {
		return "Unknown"
	}
	return buttonNames[b]
}
