package notification

import (
	"time"
)

// Event types published on the notifications topic.
const (
	TypeBookingCreated          = "booking.created"
	TypeBookingStatusUpdated    = "booking.status_updated"
	TypeSubmissionStatusUpdated = "submission.status_updated"
)

// Event is the JSON payload of one Kafka message. RecordID is the message key.
type Event struct {
	Type       string            `json:"type"`
	RecordID   string            `json:"recordId"`
	UserID     string            `json:"userId"`
	Recipient  string            `json:"recipient,omitempty"`
	Name       string            `json:"name,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Email is a rendered message ready for a Mailer.
type Email struct {
	To      []string
	Subject string
	Body    string
}
