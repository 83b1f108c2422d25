package resource

import "github.com/wippyai/wasm96/abi"

// Key addresses a resource in a table
type Key = abi.Key

// EventType identifies a resource lifecycle transition
type EventType uint8

const (
	EventCreated EventType = iota
	EventReplaced
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventReplaced:
		return "replaced"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event. For EventReplaced, Value is
// the new value and Old the released one.
type Event struct {
	Value any
	Old   any
	Kind  string
	Key   Key
	Type  EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Releaser is optionally implemented by resource values that hold
// resources beyond their own memory, such as uploaded GPU buffers.
type Releaser interface {
	Release()
}
