package complaint

// Status is the lifecycle state of a complaint. The lifecycle only
// moves forward: OPEN, then IN_PROGRESS, then RESOLVED, one step at a
// time. CLOSED is a separate terminal reachable from any of the three.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

func (s Status) String() string {
	return string(s)
}

// Priority is a free-ordered label, not a state machine.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) String() string {
	return string(p)
}

// CanTransition is the single authority on legal complaint
// transitions. Skipping a state (OPEN straight to RESOLVED) is illegal.
func CanTransition(current, target Status) bool {
	if target == StatusClosed {
		return current != StatusClosed
	}

	switch current {
	case StatusOpen:
		return target == StatusInProgress
	case StatusInProgress:
		return target == StatusResolved
	default:
		return false
	}
}

func IsTerminal(status Status) bool {
	return status == StatusClosed
}

func ValidStatus(status Status) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

func ValidPriority(priority Priority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}
