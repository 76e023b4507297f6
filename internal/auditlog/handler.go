package auditlog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs handles GET /audit-logs
// @Summary Get audit logs
// @Description Retrieve audit logs, newest first, with optional filters (admin only)
// @Tags AuditLog
// @Produce json
// @Param user_id query string false "Filter by user ID"
// @Param entity_id query string false "Filter by record ID"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "Filter by status"
// @Param from_date query string false "Filter from date (YYYY-MM-DD)"
// @Param to_date query string false "Filter to date (YYYY-MM-DD)"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Records per page (default: 20)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		UserID:   c.Query("user_id"),
		EntityID: c.Query("entity_id"),
		Action:   c.Query("action"),
		Status:   c.Query("status"),
	}

	if fromDateStr := c.Query("from_date"); fromDateStr != "" {
		fromDate, err := time.Parse("2006-01-02", fromDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date format. Use YYYY-MM-DD"})
			return
		}
		filter.FromDate = &fromDate
	}

	if toDateStr := c.Query("to_date"); toDateStr != "" {
		toDate, err := time.Parse("2006-01-02", toDateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date format. Use YYYY-MM-DD"})
			return
		}
		endOfDay := toDate.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &endOfDay
	}

	filter.Page = 1
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	filter.Limit = 20
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAuditLogByID handles GET /audit-logs/:id
// @Summary Get audit log by ID
// @Tags AuditLog
// @Produce json
// @Param id path string true "Audit Log ID"
// @Success 200 {object} AuditLog
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /audit-logs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	log, err := h.service.GetAuditLogByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log"})
		return
	}

	c.JSON(http.StatusOK, log)
}

// GetAuditLogStats handles GET /audit-logs/stats
// @Summary Get audit log statistics for the last 7 days
// @Tags AuditLog
// @Produce json
// @Success 200 {object} Stats
// @Security BearerAuth
// @Router /audit-logs/stats [get]
func (h *Handler) GetAuditLogStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context(), time.Now().AddDate(0, 0, -7))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
