// Package queue defines the notification payloads exchanged over RabbitMQ
// and the consumer that records them.
package queue

import "time"

// Notification types.
const (
	EventReviewSubmitted  = "review.submitted"
	EventReviewDecided    = "review.decided"
	EventDisciplineIssued = "discipline.issued"
	EventDisciplineLifted = "discipline.lifted"
)

// NotificationEvent is published after a workflow change that someone
// else should hear about.  RecipientID is the user the notification is
// for; zero means all admins.
type NotificationEvent struct {
	Type        string    `json:"type"`
	RecipientID uint64    `json:"recipient_id"`
	ActorID     uint64    `json:"actor_id"`
	EntityID    uint64    `json:"entity_id"`
	Status      string    `json:"status,omitempty"`
	Summary     string    `json:"summary"`
	OccurredAt  time.Time `json:"occurred_at"`
}
