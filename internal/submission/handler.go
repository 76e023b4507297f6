package submission

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/middleware"
	"github.com/rizia-events/rizia-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// Create handles POST /submissions
// @Summary Submit an entry to a competition
// @Tags Submissions
// @Accept json
// @Produce json
// @Param body body CreateSubmissionRequest true "Submission"
// @Success 201 {object} map[string]Submission
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /submissions [post]
func (h *Handler) Create(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidInput("invalid input: "+err.Error()))
		return
	}
	sub, err := h.service.Create(c.Request.Context(), req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

// ListByUser handles GET /submissions/user/:userId
// @Summary List a user's submissions
// @Tags Submissions
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string][]Submission
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /submissions/user/{userId} [get]
func (h *Handler) ListByUser(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	h.respondList(c)(h.service.ListByUser(c.Request.Context(), c.Param("userId"), ac))
}

// ListAll handles GET /submissions
// @Summary List all submissions (admin)
// @Tags Submissions
// @Produce json
// @Success 200 {object} map[string][]Submission
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /submissions [get]
func (h *Handler) ListAll(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	h.respondList(c)(h.service.ListAll(c.Request.Context(), ac))
}

// ListByCompetition handles GET /submissions/event/:id
// @Summary List submissions for a competition (admin)
// @Tags Submissions
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string][]Submission
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /submissions/event/{id} [get]
func (h *Handler) ListByCompetition(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	h.respondList(c)(h.service.ListByCompetition(c.Request.Context(), c.Param("id"), ac))
}

func (h *Handler) respondList(c *gin.Context) func([]Submission, error) {
	return func(list []Submission, err error) {
		if err != nil {
			apperror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"submissions": list})
	}
}

// Get handles GET /submissions/:id
// @Summary Get a submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} map[string]Submission
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /submissions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	sub, err := h.service.Get(c.Request.Context(), c.Param("id"), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// UpdateStatus handles PUT /submissions/:id
// @Summary Change a submission's status (admin)
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]Submission
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /submissions/{id} [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}
	sub, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// Delete handles DELETE /submissions/:id
// @Summary Delete a submission (admin)
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /submissions/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), ac, middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
