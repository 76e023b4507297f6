package auditlog

import (
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog is one recorded action, stored under an audit: key.
type AuditLog struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id,omitempty"`   // empty for anonymous actions (failed login)
	EntityID  string                 `json:"entity_id,omitempty"` // event, booking, submission or user id
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	IPAddress string                 `json:"ip_address"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   string     `json:"user_id"`
	EntityID string     `json:"entity_id"`
	Action   string     `json:"action"`
	Status   string     `json:"status"`
	FromDate *time.Time `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// Stats summarises recent activity for the admin dashboard.
type Stats struct {
	Total           int64          `json:"total"`
	SuccessCount    int            `json:"success_count"`
	FailureCount    int            `json:"failure_count"`
	ActionBreakdown map[string]int `json:"action_breakdown"`
}
