package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/floristbot/internal/board"
	"github.com/Kerhoff/floristbot/internal/metrics"
	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/reminders"
	"github.com/Kerhoff/floristbot/internal/repository/memory"
	"github.com/Kerhoff/floristbot/internal/service"
	"github.com/Kerhoff/floristbot/pkg/logger"
)

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	m := metrics.New()
	svc := service.New(logger.Discard(), m,
		store.Events, store.Clients, store.Florists, store.Expenses, store.ReminderState)
	svc.SetClock(func() time.Time { return time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC) })
	svc.SetLocation(time.UTC)
	return &testServer{handler: NewServer(svc, logger.Discard(), m).Handler(), metrics: m}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts *testServer) createEvent(t *testing.T, date string, required int) models.Event {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/events", map[string]any{
		"title":            "Wedding",
		"date":             date,
		"floristsRequired": required,
		"budget":           1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Event](t, rec)
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	event := ts.createEvent(t, "2026-06-04", 1)
	require.Equal(t, models.EventStatusDraft, event.Status)

	rec := ts.do(t, http.MethodGet, "/api/events/"+event.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Wedding", decode[models.Event](t, rec).Title)

	rec = ts.do(t, http.MethodPut, "/api/events/"+event.ID+"/status", map[string]string{"status": "planning"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, models.EventStatusPlanning, decode[models.Event](t, rec).Status)

	rec = ts.do(t, http.MethodPut, "/api/events/"+event.ID+"/status", map[string]string{"status": "paid"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/events?status=planning", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]models.Event](t, rec), 1)

	rec = ts.do(t, http.MethodDelete, "/api/events/"+event.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/events/"+event.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEventRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/events", map[string]any{"title": "", "date": "soon"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode[map[string]string](t, rec)["error"], "title")

	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString("{"))
	raw := httptest.NewRecorder()
	ts.handler.ServeHTTP(raw, req)
	require.Equal(t, http.StatusBadRequest, raw.Code)

	rec = ts.do(t, http.MethodGet, "/api/events?from=yesterday", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignmentsDriveBoardColumn(t *testing.T) {
	ts := newTestServer(t)
	event := ts.createEvent(t, "2026-06-20", 1)

	rec := ts.do(t, http.MethodPost, "/api/florists", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code)
	florist := decode[models.Florist](t, rec)

	rec = ts.do(t, http.MethodPost, "/api/events/"+event.ID+"/assignments", map[string]string{"floristId": florist.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/events/"+event.ID+"/assignments", map[string]string{"floristId": florist.ID})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/events/"+event.ID+"/assignments/"+florist.ID, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decode[models.Event](t, rec)
	require.Equal(t, 1, confirmed.ConfirmedCount())

	rec = ts.do(t, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[board.Board](t, rec)
	require.Len(t, b.Column(models.EventStatusConfirmed).Events, 1)
	require.Empty(t, b.Column(models.EventStatusDraft).Events)

	rec = ts.do(t, http.MethodDelete, "/api/events/"+event.ID+"/assignments/"+florist.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[models.Event](t, rec).AssignedFlorists)
}

func TestExpensesAndMargin(t *testing.T) {
	ts := newTestServer(t)
	event := ts.createEvent(t, "2026-06-20", 1)

	rec := ts.do(t, http.MethodPost, "/api/events/"+event.ID+"/expenses", map[string]any{
		"label": "Roses", "category": "flowers", "amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/events/"+event.ID+"/expenses", nil)
	require.Len(t, decode[[]models.Expense](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/api/events/"+event.ID+"/margin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	margin := decode[models.Margin](t, rec)
	require.InDelta(t, 1000, margin.Profit, 0.001)

	rec = ts.do(t, http.MethodGet, "/api/events/missing/margin", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemindersDismissAndRead(t *testing.T) {
	ts := newTestServer(t)
	event := ts.createEvent(t, "2026-06-04", 2)
	upcoming := "upcoming-3-" + event.ID
	team := "team-incomplete-" + event.ID

	rec := ts.do(t, http.MethodGet, "/api/reminders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []string
	for _, r := range decode[[]models.Reminder](t, rec) {
		got = append(got, r.ID)
	}
	require.Equal(t, []string{team, upcoming}, got)

	rec = ts.do(t, http.MethodPost, "/api/reminders/"+upcoming+"/dismiss", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/reminders/"+team+"/read", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/reminders", nil)
	rs := decode[[]models.Reminder](t, rec)
	require.Len(t, rs, 1)
	require.True(t, rs[0].IsRead)

	rec = ts.do(t, http.MethodGet, "/api/reminders?unread=true", nil)
	require.Empty(t, decode[[]models.Reminder](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/reminders/summary", nil)
	summary := decode[reminders.Summary](t, rec)
	require.Equal(t, 1, summary.Total)
	require.Equal(t, 0, summary.Unread)

	rec = ts.do(t, http.MethodGet, "/api/reminders?min_priority=critical", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarMonth(t *testing.T) {
	ts := newTestServer(t)
	ts.createEvent(t, "2026-07-14", 1)

	rec := ts.do(t, http.MethodGet, "/api/calendar?month=2026-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]board.Day](t, rec)
	require.Len(t, days, 31)
	require.Len(t, days[13].Events, 1)

	rec = ts.do(t, http.MethodGet, "/api/calendar", nil)
	require.Len(t, decode[[]board.Day](t, rec), 30)

	rec = ts.do(t, http.MethodGet, "/api/calendar?month=July", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientsCRUD(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/clients", map[string]string{"firstName": "Marie", "lastName": "Curie"})
	require.Equal(t, http.StatusCreated, rec.Code)
	client := decode[models.Client](t, rec)

	rec = ts.do(t, http.MethodPut, "/api/clients/"+client.ID, map[string]string{
		"firstName": "Marie", "lastName": "Curie", "phone": "+33 6 00 00 00 00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Client](t, rec)
	require.True(t, updated.HasPhone())

	rec = ts.do(t, http.MethodPost, "/api/events", map[string]any{
		"title": "Gala", "date": "2026-09-01", "clientId": "nobody",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/clients", nil)
	require.Len(t, decode[[]models.Client](t, rec), 1)

	rec = ts.do(t, http.MethodDelete, "/api/clients/"+client.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/clients/"+client.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	ts := newTestServer(t)
	unknown := "7b0c2f9e-3f55-4f4e-9a52-0d3c1c6d8a11"

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/events/%s", nil},
		{http.MethodPut, "/api/events/%s", map[string]any{"title": "Gala", "date": "2026-09-01"}},
		{http.MethodDelete, "/api/events/%s", nil},
		{http.MethodGet, "/api/events/%s/expenses", nil},
		{http.MethodGet, "/api/events/%s/margin", nil},
		{http.MethodDelete, "/api/expenses/%s", nil},
		{http.MethodGet, "/api/clients/%s", nil},
		{http.MethodPut, "/api/clients/%s", map[string]string{"firstName": "Marie"}},
		{http.MethodDelete, "/api/clients/%s", nil},
		{http.MethodDelete, "/api/florists/%s", nil},
	}

	for _, tt := range tests {
		for _, id := range []string{unknown, "nope"} {
			path := fmt.Sprintf(tt.path, id)
			rec := ts.do(t, tt.method, path, tt.body)
			require.Equal(t, http.StatusNotFound, rec.Code, "%s %s: %s", tt.method, path, rec.Body.String())
		}
	}
}

func TestDeleteExpenseAndFlorist(t *testing.T) {
	ts := newTestServer(t)
	event := ts.createEvent(t, "2026-07-01", 1)

	rec := ts.do(t, http.MethodPost, "/api/events/"+event.ID+"/expenses", map[string]any{"label": "Roses", "amount": 200})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expense := decode[models.Expense](t, rec)

	rec = ts.do(t, http.MethodDelete, "/api/expenses/"+expense.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/expenses/"+expense.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/florists", map[string]string{"name": "Lea"})
	require.Equal(t, http.StatusCreated, rec.Code)
	florist := decode[models.Florist](t, rec)

	rec = ts.do(t, http.MethodDelete, "/api/florists/"+florist.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/florists/"+florist.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/events?client_id=nope", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestsAreCounted(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/healthz", nil)
	ts.do(t, http.MethodGet, "/nope", nil)

	n, err := testutil.GatherAndCount(ts.metrics.Registry(), "floristbot_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
