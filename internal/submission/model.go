package submission

import "time"

const (
	StatusSubmitted   = "Submitted"
	StatusUnderReview = "Under Review"
	StatusAccepted    = "Accepted"
	StatusRejected    = "Rejected"
)

var validStatuses = map[string]bool{
	StatusSubmitted:   true,
	StatusUnderReview: true,
	StatusAccepted:    true,
	StatusRejected:    true,
}

// Submission is a competition entry, stored like bookings under a primary,
// a by-user and a by-event key.
type Submission struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	CompetitionID string     `json:"competitionId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Timestamp     time.Time  `json:"timestamp"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type CreateSubmissionRequest struct {
	CompetitionID string `json:"competitionId" example:"evt_seed_4"`
	Title         string `json:"title" example:"Offline-first payments"`
	Description   string `json:"description"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" example:"Under Review"`
}
