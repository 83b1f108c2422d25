package render

// ContextState is the lifecycle of the external render context
type ContextState uint8

const (
	ContextUninitialized ContextState = iota
	ContextReady
	ContextLost
)

func (s ContextState) String() string {
	switch s {
	case ContextUninitialized:
		return "uninitialized"
	case ContextReady:
		return "ready"
	case ContextLost:
		return "lost"
	default:
		return "unknown"
	}
}
