package leave

// Status is the lifecycle state of a leave request. PENDING is the
// initial state; APPROVED and REJECTED are terminal: a decided request
// never transitions again.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) String() string {
	return string(s)
}

// CanTransition is the single authority on legal leave transitions.
// Every call site that mutates a leave status must consult it; nothing
// else may move a record between states.
func CanTransition(current, target Status) bool {
	if current != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

// IsTerminal reports whether a status accepts no further transitions.
func IsTerminal(status Status) bool {
	return status == StatusApproved || status == StatusRejected
}

func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}
