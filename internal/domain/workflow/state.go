package workflow

// State represents a requisition state in the approval lifecycle
type State string

const (
	StatePending      State = "pending"
	StateApproved     State = "approved"
	StateApprovedWait State = "approved_wait"
	StateCompleted    State = "completed"
	StateRejected     State = "rejected"
)

var validStates = map[State]bool{
	StatePending:      true,
	StateApproved:     true,
	StateApprovedWait: true,
	StateCompleted:    true,
	StateRejected:     true,
}

var terminalStates = map[State]bool{
	StateCompleted: true,
	StateRejected:  true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
