package events

import "time"

const ComplaintStatusChangedTopic = "portal.complaint.status.v1"

type ComplaintStatusChangedEvent struct {
	EventType   string    `json:"event_type"`
	ComplaintID string    `json:"complaint_id"`
	AuthorID    string    `json:"author_id"`
	ActorID     string    `json:"actor_id"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
