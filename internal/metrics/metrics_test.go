package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/floristbot/internal/board"
	"github.com/Kerhoff/floristbot/internal/models"
)

func TestObserveReminders(t *testing.T) {
	m := New()

	m.ObserveReminders([]models.Reminder{
		{Type: models.ReminderTypeEventUpcoming, Priority: models.ReminderPriorityLow},
		{Type: models.ReminderTypeEventUpcoming, Priority: models.ReminderPriorityLow},
		{Type: models.ReminderTypePaymentPending, Priority: models.ReminderPriorityUrgent},
	})
	require.Equal(t, 1.0, testutil.ToFloat64(m.evaluations))
	require.Equal(t, 2.0, testutil.ToFloat64(m.activeByLevel.WithLabelValues("event_upcoming", "low")))

	m.ObserveReminders(nil)
	require.Equal(t, 2.0, testutil.ToFloat64(m.evaluations))
	require.Equal(t, 0, testutil.CollectAndCount(m.activeByLevel))
}

func TestObserveBoardAndHandler(t *testing.T) {
	m := New()
	m.ObserveBoard(board.Build([]*models.Event{
		{ID: "1", Date: "2026-01-01", Status: models.EventStatusPaid},
	}))
	m.HTTPRequest(http.MethodGet, "/api/board", http.StatusOK)
	require.Equal(t, 1.0, testutil.ToFloat64(m.boardColumns.WithLabelValues("paid")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "floristbot_http_requests_total"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveReminders([]models.Reminder{{}})
		m.ObserveBoard(&board.Board{})
		m.NotificationSent(models.Reminder{})
		m.HTTPRequest("GET", "/", 200)
	})
}
