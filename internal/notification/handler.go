package notification

import (
	"context"
	"fmt"
	"strings"
)

// EmailHandler turns consumed events into emails for the record owner.
type EmailHandler struct {
	mailer Mailer
}

func NewEmailHandler(m Mailer) *EmailHandler {
	return &EmailHandler{mailer: m}
}

func (h *EmailHandler) Handle(ctx context.Context, ev Event) error {
	msg, ok := Render(ev)
	if !ok {
		return nil
	}
	return h.mailer.Send(ctx, msg)
}

// Render builds the email for ev. It reports false for events without a
// recipient or of an unknown type.
func Render(ev Event) (Email, bool) {
	if strings.TrimSpace(ev.Recipient) == "" {
		return Email{}, false
	}

	name := ev.Name
	if name == "" {
		name = "there"
	}
	d := ev.Data

	var subject, body string
	switch ev.Type {
	case TypeBookingCreated:
		subject = fmt.Sprintf("Booking confirmed: %s", d["eventName"])
		body = fmt.Sprintf(
			"Hello %s,\n\nYour booking for %s is confirmed.\n\nBooking ID: %s\nTickets: %s\nTotal: %s\nPayment method: %s\n\nYou can download your ticket from your dashboard.\n",
			name, d["eventName"], ev.RecordID, d["ticketCount"], d["totalAmount"], d["paymentMethod"],
		)
	case TypeBookingStatusUpdated:
		subject = fmt.Sprintf("Booking %s: %s", strings.ToLower(d["status"]), d["eventName"])
		body = fmt.Sprintf(
			"Hello %s,\n\nThe status of your booking %s for %s is now %s.\n",
			name, ev.RecordID, d["eventName"], d["status"],
		)
	case TypeSubmissionStatusUpdated:
		subject = fmt.Sprintf("Submission update: %s", d["title"])
		body = fmt.Sprintf(
			"Hello %s,\n\nYour submission \"%s\" is now %s.\n",
			name, d["title"], d["status"],
		)
	default:
		return Email{}, false
	}

	return Email{To: []string{ev.Recipient}, Subject: headerText(subject), Body: body}, true
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerText folds s onto one line so it cannot open a new header.
func headerText(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
