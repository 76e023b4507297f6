package event

import (
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

// ===========================
// List Events - GET /events
//
// ListEvents godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param city query string false "City (case-insensitive)"
// @Param category query string false "Category (case-insensitive)"
// @Param q query string false "Substring of title or description"
// @Success 200 {object} map[string][]Event
// @Failure 401 {object} map[string]string
// @Router /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.Service.ListEvents(c.Request.Context(), Filter{
		City:     c.Query("city"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ===========================
// Get Event - GET /events/:id
//
// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]Event
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.Service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

// ===========================
// Create Event - POST /events
//
// CreateEvent godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} map[string]Event
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidInput("invalid input: "+err.Error()))
		return
	}

	e, err := h.Service.CreateEvent(c.Request.Context(), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": e})
}

// ===========================
// Update Event - PUT /events/:id
//
// UpdateEvent godoc
// @Summary Update an event
// @Description Only the fields present in the body are changed. Unknown fields are rejected.
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} map[string]Event
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}

	e, err := h.Service.UpdateEvent(c.Request.Context(), c.Param("id"), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

// ===========================
// Delete Event - DELETE /events/:id
//
// DeleteEvent godoc
// @Summary Delete an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteEvent(c.Request.Context(), c.Param("id"), ac, middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===========================
// Seed demo data - POST /init
//
// Init godoc
// @Summary Seed the demo event catalogue
// @Description Writes the demo events when the catalogue is empty. Safe to call repeatedly.
// @Tags Events
// @Produce json
// @Success 200 {object} SeedResult
// @Router /init [post]
func (h *Handler) Init(c *gin.Context) {
	res, err := h.Service.Seed(c.Request.Context(), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
