package workflow

// Trigger represents an actor decision that can cause a state transition
type Trigger string

const (
	TriggerApprove  Trigger = "approve"
	TriggerReject   Trigger = "reject"
	TriggerWait     Trigger = "wait"
	TriggerComplete Trigger = "complete"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
