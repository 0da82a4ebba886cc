package host

// TurnState tracks where a turn is in its lifecycle. States advance
// monotonically within a turn; tool usage can move a turn back and forth
// between dispatching and aggregating, but never behind awaiting-query.
type TurnState int

const (
	// StateAwaitingQuery is the idle state before a turn starts.
	StateAwaitingQuery TurnState = iota

	// StateDispatching means friend agents are being queried.
	StateDispatching

	// StateAggregating means friend responses are being combined.
	StateAggregating

	// StateProposingOrBooking means the jam-spot calendar is being
	// consulted or written.
	StateProposingOrBooking

	// StateResponding means the final answer is being produced.
	StateResponding
)

func (s TurnState) String() string {
	switch s {
	case StateAwaitingQuery:
		return "awaiting_query"
	case StateDispatching:
		return "dispatching"
	case StateAggregating:
		return "aggregating"
	case StateProposingOrBooking:
		return "proposing_or_booking"
	case StateResponding:
		return "responding"
	default:
		return "unknown"
	}
}

// advance moves the state forward, never backward past dispatching once a
// turn is underway.
func (s TurnState) advance(next TurnState) TurnState {
	if next > s {
		return next
	}
	return s
}
