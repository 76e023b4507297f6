package booking

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/middleware"
	"github.com/rizia-events/rizia-backend/utils"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// CreateBooking godoc
// @Summary Book tickets for an event
// @Description The owner is taken from the bearer token. totalAmount defaults to price x tickets plus a 5% fee.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param body body CreateBookingRequest true "Checkout details"
// @Success 201 {object} map[string]Booking
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidInput("invalid input: "+err.Error()))
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// ListUserBookings godoc
// @Summary List a user's bookings
// @Tags Bookings
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string][]Booking
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/user/{userId} [get]
func (h *Handler) ListUserBookings(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	list, err := h.Service.ListUserBookings(c.Request.Context(), c.Param("userId"), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ListEventBookings godoc
// @Summary List bookings for an event (admin)
// @Tags Bookings
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} map[string][]Booking
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/event/{eventId} [get]
func (h *Handler) ListEventBookings(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	list, err := h.Service.ListEventBookings(c.Request.Context(), c.Param("eventId"), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ListAllBookings godoc
// @Summary List all bookings (admin)
// @Tags Bookings
// @Produce json
// @Success 200 {object} map[string][]Booking
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /bookings [get]
func (h *Handler) ListAllBookings(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	list, err := h.Service.ListAllBookings(c.Request.Context(), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// GetBooking godoc
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]Booking
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// UpdateBookingStatus godoc
// @Summary Change a booking's status
// @Description Admins may set Confirmed or Cancelled. Owners may only cancel.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]Booking
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id} [put]
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}

	b, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// DeleteBooking godoc
// @Summary Delete a booking (admin)
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id} [delete]
func (h *Handler) DeleteBooking(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteBooking(c.Request.Context(), c.Param("id"), ac, middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DownloadTicket godoc
// @Summary Download the e-ticket PDF
// @Tags Bookings
// @Produce application/pdf
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id}/ticket [get]
func (h *Handler) DownloadTicket(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	b, pdf, err := h.Service.Ticket(c.Request.Context(), c.Param("id"), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, b.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
