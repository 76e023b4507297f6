package event

import (
	"time"
)

// ============================
// Event record, stored under event:<id>
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	FullDescription string     `json:"fullDescription"`
	Category        string     `json:"category"`
	City            string     `json:"city"`
	Venue           string     `json:"venue"`
	VenueAddress    string     `json:"venueAddress"`
	Date            string     `json:"date"` // YYYY-MM-DD
	Time            string     `json:"time"`
	Price           string     `json:"price"` // display string, e.g. "₹499" or "Free"
	Image           string     `json:"image"`
	Tags            []string   `json:"tags"`
	Features        []string   `json:"features"`
	Language        string     `json:"language"`
	AgeRestriction  string     `json:"ageRestriction"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// ============================
// List filters. Empty fields match everything.
type Filter struct {
	City     string
	Category string
	Query    string
}

// ============================
// Create Event Request
type CreateEventRequest struct {
	Title           string   `json:"title" example:"Indie Night Live"`
	Description     string   `json:"description"`
	FullDescription string   `json:"fullDescription"`
	Category        string   `json:"category" example:"Music"`
	City            string   `json:"city" example:"Mumbai"`
	Venue           string   `json:"venue"`
	VenueAddress    string   `json:"venueAddress"`
	Date            string   `json:"date" example:"2026-12-20"`
	Time            string   `json:"time" example:"7:00 PM"`
	Price           string   `json:"price" example:"₹499"`
	Image           string   `json:"image"`
	Tags            []string `json:"tags"`
	Features        []string `json:"features"`
	Language        string   `json:"language"`
	AgeRestriction  string   `json:"ageRestriction"`
}

// ============================
// Update Event Request. Nil fields are left unchanged.
type UpdateEventRequest struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	FullDescription *string   `json:"fullDescription"`
	Category        *string   `json:"category"`
	City            *string   `json:"city"`
	Venue           *string   `json:"venue"`
	VenueAddress    *string   `json:"venueAddress"`
	Date            *string   `json:"date"`
	Time            *string   `json:"time"`
	Price           *string   `json:"price"`
	Image           *string   `json:"image"`
	Tags            *[]string `json:"tags"`
	Features        *[]string `json:"features"`
	Language        *string   `json:"language"`
	AgeRestriction  *string   `json:"ageRestriction"`
}

// SeedResult reports what POST /init did.
type SeedResult struct {
	Seeded bool `json:"seeded"`
	Count  int  `json:"count"`
}
