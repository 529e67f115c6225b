package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	require.True(t, CanTransition(EventStatusDraft, EventStatusPlanning))
	require.True(t, CanTransition(EventStatusInProgress, EventStatusCompleted))
	require.True(t, CanTransition(EventStatusInvoiced, EventStatusPaid))
	require.True(t, CanTransition(EventStatusConfirmed, EventStatusCancelled))

	require.False(t, CanTransition(EventStatusDraft, EventStatusDraft))
	require.False(t, CanTransition(EventStatusDraft, EventStatusCompleted))
	require.False(t, CanTransition(EventStatusPaid, EventStatusInvoiced))
	require.False(t, CanTransition(EventStatusCompleted, EventStatusCancelled))
	require.False(t, CanTransition(EventStatusCancelled, EventStatusDraft))
	require.False(t, CanTransition("archived", EventStatusDraft))
}

func TestIsAssignmentConfirmed(t *testing.T) {
	t.Parallel()

	require.True(t, IsAssignmentConfirmed(Assignment{Status: AssignmentStatusConfirmed}))
	require.True(t, IsAssignmentConfirmed(Assignment{Status: AssignmentStatusPending, IsConfirmed: true}))
	require.False(t, IsAssignmentConfirmed(Assignment{Status: AssignmentStatusRefused}))
}

func TestEventValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	e := &Event{Date: "tomorrow", Status: "unknown", FloristsRequired: -1, Budget: -5, PaidDate: "x"}
	err := e.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 6)

	ok := &Event{Title: "Wedding Dupont", Date: "2026-06-13", Status: EventStatusDraft, FloristsRequired: 2}
	require.NoError(t, ok.Validate())
}

func TestParseDayAndDaysBetween(t *testing.T) {
	t.Parallel()

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	d, ok := ParseDay("2026-03-28", paris)
	require.True(t, ok)
	require.Equal(t, 0, d.Hour())

	after, ok := ParseDay("2026-03-30", paris)
	require.True(t, ok)
	// spans the March DST change in Paris
	require.Equal(t, 2, DaysBetween(d, after))
	require.Equal(t, -2, DaysBetween(after, d))

	_, ok = ParseDay("2026-02-30", time.UTC)
	require.False(t, ok)
	_, ok = ParseDay("  ", time.UTC)
	require.False(t, ok)

	r, ok := ParseDay("2026-03-28T23:30:00Z", paris)
	require.True(t, ok)
	require.Equal(t, "2026-03-29", FormatDay(r))
}

func TestComputeMargin(t *testing.T) {
	t.Parallel()

	m := ComputeMargin(2000, []Expense{
		{Category: ExpenseCategoryFlowers, Amount: 600},
		{Category: ExpenseCategoryTransport, Amount: 150},
		{Category: "misc", Amount: 50},
		{Category: ExpenseCategoryStaff, Amount: -30},
	})
	require.InDelta(t, 800, m.Expenses, 0.001)
	require.InDelta(t, 1200, m.Profit, 0.001)
	require.InDelta(t, 60, m.Percent, 0.001)
	require.InDelta(t, 50, m.ByCategory[ExpenseCategoryOther], 0.001)

	empty := ComputeMargin(0, []Expense{{Amount: 10}})
	require.Zero(t, empty.Percent)
	require.InDelta(t, -10, empty.Profit, 0.001)
}

func TestIDSetJSON(t *testing.T) {
	t.Parallel()

	s := NewIDSet("b", "a")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `["a","b"]`, string(data))

	var back IDSet
	require.NoError(t, json.Unmarshal([]byte(`["x","y","x"]`), &back))
	require.True(t, back.Has("x"))
	require.Len(t, back, 2)

	var none IDSet
	require.False(t, none.Has("x"))
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	require.True(t, ReminderPriorityUrgent.AtLeast(ReminderPriorityHigh))
	require.False(t, ReminderPriorityMedium.AtLeast(ReminderPriorityHigh))
	require.Equal(t, 4, ReminderPriority("?").Rank())
}
