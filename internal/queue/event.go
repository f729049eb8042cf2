package queue

import "time"

// NotificationQueueName is the durable queue carrying notification
// events from request handlers to the background consumer.
const NotificationQueueName = "notification.events"

// Event types published by the handlers.
const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationStatus    = "application.status_changed"
	EventInterviewScheduled   = "interview.scheduled"
	EventRecruiterAssigned    = "recruiter.assigned"
)

// NotificationEvent describes something a user should be told about.
// UserID is the recipient; ActorID is who caused the event. The consumer
// turns each event into a notifications row.
type NotificationEvent struct {
	Type          string    `json:"type"`
	UserID        uint64    `json:"user_id"`
	ActorID       uint64    `json:"actor_id"`
	JobID         uint64    `json:"job_id,omitempty"`
	ApplicationID uint64    `json:"application_id,omitempty"`
	Message       string    `json:"message"`
	OccurredAt    time.Time `json:"occurred_at"`
}
