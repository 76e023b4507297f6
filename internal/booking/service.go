package booking

import (
	"context"
	"errors"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/notification"
	"github.com/rizia-events/rizia-backend/internal/payment"
	"github.com/rizia-events/rizia-backend/logger"
	"github.com/rizia-events/rizia-backend/middleware"
)

// EventLookup resolves the event a booking is for.
type EventLookup interface {
	GetEvent(ctx context.Context, id string) (*event.Event, error)
}

// UserLookup resolves the booking owner.
type UserLookup interface {
	FindByID(ctx context.Context, userID string) (*auth.User, error)
}

type Service struct {
	Repo      *Repository
	Events    EventLookup
	Users     UserLookup
	Payments  payment.Gateway // nil disables order creation
	Publisher notification.Publisher
	AuditSvc  auditlog.Service

	now func() time.Time
}

func NewService(repo *Repository, events EventLookup, users UserLookup, payments payment.Gateway,
	pub notification.Publisher, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:      repo,
		Events:    events,
		Users:     users,
		Payments:  payments,
		Publisher: pub,
		AuditSvc:  auditSvc,
		now:       time.Now,
	}
}

// ===========================
// Create Booking
func (s *Service) CreateBooking(ctx context.Context, req *CreateBookingRequest, ac middleware.AccessContext, ip string) (*Booking, error) {
	if !ac.IsAuthenticated() {
		return nil, apperror.Unauthenticated("authentication required")
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	owner, err := s.Users.FindByID(ctx, ac.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal("failed to load user", err)
	}

	ev, err := s.Events.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:            kvstore.NewID("bkg"),
		UserID:        owner.ID,
		EventID:       ev.ID,
		EventName:     strings.TrimSpace(req.EventName),
		ContactName:   strings.TrimSpace(req.ContactName),
		ContactEmail:  strings.TrimSpace(req.ContactEmail),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		TicketCount:   req.TicketCount,
		TotalAmount:   strings.TrimSpace(req.TotalAmount),
		PaymentMethod: req.PaymentMethod,
		Status:        StatusConfirmed,
		CreatedAt:     s.now().UTC(),
	}
	if b.EventName == "" {
		b.EventName = ev.Title
	}
	if b.TotalAmount == "" {
		b.TotalAmount = payment.CheckoutTotal(ev.Price, b.TicketCount)
	}

	if amount := payment.ParseAmount(b.TotalAmount); s.Payments != nil && amount > 0 {
		order, err := s.Payments.CreateOrder(ctx, payment.OrderRequest{
			Receipt: b.ID,
			Amount:  amount,
			Notes: map[string]interface{}{
				"user_id":  b.UserID,
				"event_id": b.EventID,
			},
		})
		if err != nil {
			s.AuditSvc.LogAction(ctx, ac.UserID, b.ID, "BOOKING_CREATED", map[string]interface{}{
				"event_id": b.EventID,
				"amount":   b.TotalAmount,
				"error":    err.Error(),
			}, ip, auditlog.StatusFailure)
			return nil, apperror.Internal("payment order creation failed", err)
		}
		b.PaymentOrderID = order.ID
	}

	if err := s.Repo.Save(ctx, b); err != nil {
		s.AuditSvc.LogAction(ctx, ac.UserID, b.ID, "BOOKING_CREATED", map[string]interface{}{
			"event_id": b.EventID,
			"error":    err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to create booking", err)
	}

	s.AuditSvc.LogAction(ctx, ac.UserID, b.ID, "BOOKING_CREATED", map[string]interface{}{
		"event_id":     b.EventID,
		"ticket_count": b.TicketCount,
		"total_amount": b.TotalAmount,
		"order_id":     b.PaymentOrderID,
	}, ip, auditlog.StatusSuccess)

	notification.PublishAsync(s.Publisher, s.notificationFor(notification.TypeBookingCreated, b))
	return b, nil
}

func validateCreate(req *CreateBookingRequest) error {
	if strings.TrimSpace(req.EventID) == "" {
		return apperror.InvalidInput("eventId is required")
	}
	if req.TicketCount < MinTickets || req.TicketCount > MaxTickets {
		return apperror.InvalidInput("ticketCount must be between 1 and 10")
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !paymentMethods[req.PaymentMethod] {
		return apperror.InvalidInput("paymentMethod must be one of card, upi, netbanking")
	}
	if strings.TrimSpace(req.ContactName) == "" ||
		strings.TrimSpace(req.ContactEmail) == "" ||
		strings.TrimSpace(req.ContactPhone) == "" {
		return apperror.InvalidInput("contactName, contactEmail and contactPhone are required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.ContactEmail)); err != nil {
		return apperror.InvalidInput("invalid contactEmail")
	}
	if strings.ContainsAny(req.EventName, "\r\n") {
		return apperror.InvalidInput("eventName must be a single line")
	}
	return nil
}

// ===========================
// Reads
func (s *Service) ListUserBookings(ctx context.Context, userID string, ac middleware.AccessContext) ([]Booking, error) {
	if !ac.CanAccessUser(userID) {
		return nil, apperror.Forbidden("access denied")
	}
	list, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	return NewestFirst(list), nil
}

func (s *Service) ListEventBookings(ctx context.Context, eventID string, ac middleware.AccessContext) ([]Booking, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	list, err := s.Repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	return NewestFirst(list), nil
}

func (s *Service) ListAllBookings(ctx context.Context, ac middleware.AccessContext) ([]Booking, error) {
	if !ac.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}
	list, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list bookings", err)
	}
	return NewestFirst(list), nil
}

func (s *Service) GetBooking(ctx context.Context, id string, ac middleware.AccessContext) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ac.CanAccessUser(b.UserID) {
		return nil, apperror.Forbidden("access denied")
	}
	return b, nil
}

func (s *Service) load(ctx context.Context, id string) (*Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, apperror.NotFound("booking not found")
		}
		return nil, apperror.Internal("failed to load booking", err)
	}
	return b, nil
}

// ===========================
// Update Status. Admins may confirm or cancel; owners may only cancel.
func (s *Service) UpdateStatus(ctx context.Context, id, status string, ac middleware.AccessContext, ip string) (*Booking, error) {
	if status != StatusConfirmed && status != StatusCancelled {
		return nil, apperror.InvalidInput("status must be Confirmed or Cancelled")
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ac.IsAdmin() {
		if !ac.CanAccessUser(b.UserID) {
			return nil, apperror.Forbidden("access denied")
		}
		if status != StatusCancelled {
			return nil, apperror.Forbidden("only cancellation is allowed")
		}
	}

	previous := b.Status
	now := s.now().UTC()
	b.Status = status
	b.UpdatedAt = &now

	if err := s.Repo.Save(ctx, b); err != nil {
		s.AuditSvc.LogAction(ctx, ac.UserID, b.ID, "BOOKING_STATUS_UPDATED", map[string]interface{}{
			"status": status,
			"error":  err.Error(),
		}, ip, auditlog.StatusFailure)
		return nil, apperror.Internal("failed to update booking", err)
	}

	s.AuditSvc.LogAction(ctx, ac.UserID, b.ID, "BOOKING_STATUS_UPDATED", map[string]interface{}{
		"from": previous,
		"to":   status,
	}, ip, auditlog.StatusSuccess)

	if previous != status {
		notification.PublishAsync(s.Publisher, s.notificationFor(notification.TypeBookingStatusUpdated, b))
	}
	return b, nil
}

// ===========================
// Delete Booking
func (s *Service) DeleteBooking(ctx context.Context, id string, ac middleware.AccessContext, ip string) error {
	if !ac.IsAdmin() {
		return apperror.Forbidden("admin access required")
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, b); err != nil {
		s.AuditSvc.LogAction(ctx, ac.UserID, id, "BOOKING_DELETED", map[string]interface{}{
			"error": err.Error(),
		}, ip, auditlog.StatusFailure)
		return apperror.Internal("failed to delete booking", err)
	}

	s.AuditSvc.LogAction(ctx, ac.UserID, id, "BOOKING_DELETED", map[string]interface{}{
		"event_id": b.EventID,
		"user_id":  b.UserID,
	}, ip, auditlog.StatusSuccess)
	return nil
}

// ===========================
// Ticket PDF
func (s *Service) Ticket(ctx context.Context, id string, ac middleware.AccessContext) (*Booking, []byte, error) {
	b, err := s.GetBooking(ctx, id, ac)
	if err != nil {
		return nil, nil, err
	}
	if b.Status == StatusCancelled {
		return nil, nil, apperror.Conflict("booking is cancelled")
	}

	ev, err := s.Events.GetEvent(ctx, b.EventID)
	if err != nil {
		// the event may have been deleted; the ticket still renders
		logger.Log.Warn("[booking] ticket event lookup failed", "booking_id", b.ID, "event_id", b.EventID, "error", err)
	}

	pdf, err := GenerateTicketPDF(b, ev)
	if err != nil {
		return nil, nil, apperror.Internal("failed to generate ticket", err)
	}
	return b, pdf, nil
}

func (s *Service) notificationFor(typ string, b *Booking) notification.Event {
	return notification.Event{
		Type:      typ,
		RecordID:  b.ID,
		UserID:    b.UserID,
		Recipient: b.ContactEmail,
		Name:      b.ContactName,
		Data: map[string]string{
			"eventId":       b.EventID,
			"eventName":     b.EventName,
			"ticketCount":   strconv.Itoa(b.TicketCount),
			"totalAmount":   b.TotalAmount,
			"paymentMethod": b.PaymentMethod,
			"status":        b.Status,
		},
		OccurredAt: s.now().UTC(),
	}
}

// NewestFirst sorts bookings by createdAt descending, ties by id.
func NewestFirst(list []Booking) []Booking {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list
}
