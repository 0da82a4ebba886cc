package host

// EventKind distinguishes interim updates from the final answer.
type EventKind int

const (
	// EventThinking is an interim progress update. A turn may emit any
	// number of these, including zero.
	EventThinking EventKind = iota

	// EventFinal carries the turn's answer. A completed turn emits exactly
	// one; a cancelled turn emits none.
	EventFinal
)

func (k EventKind) String() string {
	switch k {
	case EventThinking:
		return "thinking"
	case EventFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Event is one item on the stream returned by Host.Stream.
type Event struct {
	Kind EventKind
	Text string
}
