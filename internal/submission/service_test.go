package submission

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/internal/auditlog"
	"github.com/rizia-events/rizia-backend/internal/auth"
	"github.com/rizia-events/rizia-backend/internal/event"
	"github.com/rizia-events/rizia-backend/internal/kvstore"
	"github.com/rizia-events/rizia-backend/internal/notification"
	"github.com/rizia-events/rizia-backend/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = middleware.AccessContext{UserID: "usr_admin", RoleName: middleware.RoleAdmin}
	alice = middleware.AccessContext{UserID: "usr_alice", RoleName: middleware.RoleUser}
	bob   = middleware.AccessContext{UserID: "usr_bob", RoleName: middleware.RoleUser}
)

type chanPublisher struct {
	mu  sync.Mutex
	got []notification.Event
}

func (p *chanPublisher) Publish(_ context.Context, ev notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ev)
	return nil
}

func (p *chanPublisher) Close() error { return nil }

func (p *chanPublisher) events() []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.Event(nil), p.got...)
}

func newTestService(t *testing.T) (*service, *kvstore.MemoryStore, *chanPublisher) {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	audit := auditlog.NewService(auditlog.NewRepository(store))

	users := auth.NewRepository(store)
	for _, u := range []auth.User{
		{ID: "usr_alice", Email: "alice@example.com", Name: "Alice", Role: auth.RoleUser},
		{ID: "usr_bob", Email: "bob@example.com", Role: auth.RoleUser},
	} {
		u := u
		require.NoError(t, users.Create(ctx, &u, "hash"))
	}

	events := event.NewService(event.NewRepository(store), audit)
	_, err := events.Seed(ctx, "")
	require.NoError(t, err)

	pub := &chanPublisher{}
	svc := NewService(NewRepository(store), events, users, pub, audit).(*service)
	return svc, store, pub
}

func TestCreate(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_seed_4", Title: "  Offline UPI  "}, alice, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub.ID, "sub_"))
	assert.Equal(t, StatusSubmitted, sub.Status)
	assert.Equal(t, "Offline UPI", sub.Title)
	assert.False(t, sub.Timestamp.IsZero())

	for _, key := range index(sub).Keys() {
		var got Submission
		require.NoError(t, store.Get(ctx, key, &got), key)
	}

	_, err = svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_missing", Title: "x"}, alice, "")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_seed_4"}, alice, "")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	_, err = svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_seed_4", Title: "Film\nX-Injected: yes"}, alice, "")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	_, err = svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_seed_4", Title: "x"}, middleware.AccessContext{}, "")
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestListings(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, req := range []struct {
		ac    middleware.AccessContext
		comp  string
		title string
	}{
		{alice, "evt_seed_4", "first"},
		{alice, "evt_seed_5", "second"},
		{bob, "evt_seed_4", "third"},
	} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Create(ctx, CreateSubmissionRequest{CompetitionID: req.comp, Title: req.title}, req.ac, "")
		require.NoError(t, err)
	}

	mine, err := svc.ListByUser(ctx, "usr_alice", alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "second", mine[0].Title, "newest first")

	_, err = svc.ListByUser(ctx, "usr_alice", bob)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	byComp, err := svc.ListByCompetition(ctx, "evt_seed_4", admin)
	require.NoError(t, err)
	assert.Len(t, byComp, 2)
	_, err = svc.ListByCompetition(ctx, "evt_seed_4", alice)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	all, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	_, err = svc.ListAll(ctx, bob)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestUpdateStatus(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_seed_4", Title: "Entry"}, alice, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, sub.ID, StatusAccepted, alice, "")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	_, err = svc.UpdateStatus(ctx, sub.ID, "Winner", admin, "")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	_, err = svc.UpdateStatus(ctx, "sub_missing", StatusAccepted, admin, "")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	updated, err := svc.UpdateStatus(ctx, sub.ID, StatusUnderReview, admin, "")
	require.NoError(t, err)
	assert.Equal(t, StatusUnderReview, updated.Status)
	assert.True(t, sub.Timestamp.Equal(updated.Timestamp))
	require.NotNil(t, updated.UpdatedAt)

	for _, key := range index(sub).Keys() {
		var got Submission
		require.NoError(t, store.Get(ctx, key, &got))
		assert.Equal(t, StatusUnderReview, got.Status, key)
	}

	assert.Eventually(t, func() bool { return len(pub.events()) == 1 }, time.Second, 10*time.Millisecond)
	ev := pub.events()[0]
	assert.Equal(t, notification.TypeSubmissionStatusUpdated, ev.Type)
	assert.Equal(t, "alice@example.com", ev.Recipient)
	assert.Equal(t, "Alice", ev.Name)
	assert.Equal(t, StatusUnderReview, ev.Data["status"])
}

func TestDelete(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	sub, err := svc.Create(ctx, CreateSubmissionRequest{CompetitionID: "evt_seed_4", Title: "Entry"}, alice, "")
	require.NoError(t, err)

	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(svc.Delete(ctx, sub.ID, alice, "")))
	require.NoError(t, svc.Delete(ctx, sub.ID, admin, ""))

	entries, err := store.GetByPrefix(ctx, kind+":")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.Get(ctx, sub.ID, admin)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestHandler_UpdateStatusRejectsUnknownField(t *testing.T) {
	svc, _, _ := newTestService(t)
	sub, err := svc.Create(context.Background(), CreateSubmissionRequest{CompetitionID: "evt_seed_4", Title: "Entry"}, alice, "")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/submissions/:id", func(c *gin.Context) { c.Set("access_context", admin) }, NewHandler(svc).UpdateStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/submissions/"+sub.ID,
		strings.NewReader(`{"status":"Accepted","timestamp":"2020-01-01T00:00:00Z"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/submissions/"+sub.ID, strings.NewReader(`{"status":"Accepted"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Accepted"`)
}
