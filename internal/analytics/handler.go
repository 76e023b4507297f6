package analytics

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetAnalytics handles GET /analytics
// @Summary Dashboard analytics
// @Description Totals, revenue, category and city breakdowns and the five newest bookings (admin only)
// @Tags Analytics
// @Produce json
// @Success 200 {object} Report
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	report, err := h.service.Report(c.Request.Context(), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportAnalytics handles GET /analytics/export
// @Summary Export analytics
// @Tags Analytics
// @Produce application/octet-stream
// @Param format query string false "xlsx, pdf or csv (default: xlsx)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *Handler) ExportAnalytics(c *gin.Context) {
	ac, ok := middleware.RequireAccessContext(c)
	if !ok {
		return
	}
	data, filename, contentType, err := h.service.Export(c.Request.Context(), c.DefaultQuery("format", FormatExcel), ac)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
