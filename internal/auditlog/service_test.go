package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*service, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	svc := NewService(NewRepository(store)).(*service)
	return svc, store
}

func TestLogAction_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, action := range []string{"EVENT_CREATED", "BOOKING_CREATED", "USER_LOGIN"} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		svc.LogAction(ctx, "usr_1", "", action, nil, "127.0.0.1", StatusSuccess)
	}

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "USER_LOGIN", page.Data[0].Action)
	assert.Equal(t, "BOOKING_CREATED", page.Data[1].Action)
	assert.NotNil(t, page.Data[0].Details)

	page, err = svc.GetAuditLogs(ctx, AuditLogFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "EVENT_CREATED", page.Data[0].Action)

	page, err = svc.GetAuditLogs(ctx, AuditLogFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestGetAuditLogs_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.LogAction(ctx, "usr_1", "evt_1", "EVENT_CREATED", nil, "", StatusSuccess)
	svc.LogAction(ctx, "usr_2", "bkg_1", "BOOKING_CREATED", nil, "", StatusFailure)
	svc.LogAction(ctx, "usr_2", "bkg_1", "BOOKING_STATUS_UPDATED", nil, "", StatusSuccess)

	tests := []struct {
		name   string
		filter AuditLogFilter
		want   int
	}{
		{"by user", AuditLogFilter{UserID: "usr_2"}, 2},
		{"by action substring", AuditLogFilter{Action: "booking"}, 2},
		{"by status", AuditLogFilter{Status: StatusFailure}, 1},
		{"by entity", AuditLogFilter{EntityID: "evt_1"}, 1},
		{"no match", AuditLogFilter{UserID: "usr_9"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.GetAuditLogs(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, page.Data, tt.want)
		})
	}
}

func TestGetAuditLogByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.LogAction(ctx, "usr_1", "", "USER_LOGOUT", map[string]interface{}{"reason": "manual"}, "", StatusSuccess)

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	got, err := svc.GetAuditLogByID(ctx, page.Data[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "manual", got.Details["reason"])

	_, err = svc.GetAuditLogByID(ctx, "aud_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandler_Stats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.LogAction(ctx, "u", "", "USER_LOGIN", nil, "", StatusSuccess)
	svc.LogAction(ctx, "u", "", "USER_LOGIN", nil, "", StatusFailure)

	r := gin.New()
	h := NewHandler(svc)
	r.GET("/audit-logs/stats", h.GetAuditLogStats)
	r.GET("/audit-logs", h.GetAuditLogs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Total)
	assert.Equal(t, 1, body.Data.SuccessCount)
	assert.Equal(t, 2, body.Data.ActionBreakdown["USER_LOGIN"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit-logs?from_date=03-01-2025", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
