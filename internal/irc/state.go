package irc

// State is the lifecycle phase of a Session.  Transitions are
// monotonic except for the terminal Closed state, which is reachable
// from anywhere on error or explicit shutdown.
type State int32

const (
	StateConnecting State = iota
	StateRegistering
	StateJoining
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateRegistering:
		return "registering"
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
