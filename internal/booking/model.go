package booking

import "time"

const (
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
)

const (
	MinTickets = 1
	MaxTickets = 10
)

var paymentMethods = map[string]bool{
	"card":       true,
	"upi":        true,
	"netbanking": true,
}

// Booking is stored under booking:id:<id>, booking:user:<uid>:<id> and
// booking:event:<eid>:<id>, all with the same value.
type Booking struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	EventID        string     `json:"eventId"`
	EventName      string     `json:"eventName"`
	ContactName    string     `json:"contactName"`
	ContactEmail   string     `json:"contactEmail"`
	ContactPhone   string     `json:"contactPhone"`
	TicketCount    int        `json:"ticketCount"`
	TotalAmount    string     `json:"totalAmount"`
	PaymentMethod  string     `json:"paymentMethod"`
	Status         string     `json:"status"`
	PaymentOrderID string     `json:"paymentOrderId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type CreateBookingRequest struct {
	EventID       string `json:"eventId" example:"evt_seed_1"`
	EventName     string `json:"eventName"`
	ContactName   string `json:"contactName" example:"Jane Doe"`
	ContactEmail  string `json:"contactEmail" example:"jane@example.com"`
	ContactPhone  string `json:"contactPhone" example:"+91 98765 43210"`
	TicketCount   int    `json:"ticketCount" example:"2"`
	TotalAmount   string `json:"totalAmount" example:"₹1050"`
	PaymentMethod string `json:"paymentMethod" example:"upi"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" example:"Cancelled"`
}
