package snakes

// State is the lifecycle state of a Socket.
type State int

const (
	// StateConnecting means the transport is being set up.
	StateConnecting State = iota

	// StateOpen means the transport is established and commands can be sent.
	StateOpen

	// StateClosed means either side shut the connection down gracefully.
	StateClosed

	// StateFailed means the transport reported an error. It is terminal.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateFailed
}
