package userprofile

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

// ===========================
// PROFILE ENDPOINTS
// ===========================

// ListUsers godoc
// @Summary List all user profiles (admin)
// @Tags Users
// @Produce json
// @Success 200 {object} map[string][]auth.User
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	users, err := h.service.List(c.Request.Context(), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser godoc
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]auth.User
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	u, err := h.service.Get(c.Request.Context(), c.Param("id"), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateUser godoc
// @Summary Update a user profile
// @Description Self or admin. Only an admin may change role.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body UpdateProfileInput true "Fields to change"
// @Success 200 {object} map[string]auth.User
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}

	var input UpdateProfileInput
	if err := utils.BindStrictJSON(c, &input); err != nil {
		apperror.Respond(c, err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), c.Param("id"), input, ac, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
