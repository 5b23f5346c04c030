package events

import "time"

const LeaveDecidedTopic = "portal.leave.decided.v1"

type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	RequesterID string    `json:"requester_id"`
	ReviewerID  string    `json:"reviewer_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
