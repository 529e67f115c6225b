// Package reminders turns a snapshot of bookings and clients into the list of
// notices the shop should act on. Evaluation is pure: the caller supplies the
// clock and the dismissed/read id sets, and the same input always yields the
// same reminders.
package reminders

import (
	"fmt"
	"sort"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
)

// Evaluate runs every rule family over events and returns the active
// reminders, urgent first. Dismissed ids are dropped; read ids are flagged.
func Evaluate(events []*models.Event, clients []*models.Client, now time.Time,
	dismissed, read models.IDSet) []models.Reminder {

	clientsByID := make(map[string]*models.Client, len(clients))
	for _, c := range clients {
		if c != nil {
			clientsByID[c.ID] = c
		}
	}

	today := models.StartOfDay(now)
	var generated []models.Reminder
	for _, e := range events {
		if e == nil {
			continue
		}
		ev := evaluation{event: e, client: clientsByID[e.ClientID], today: today}
		ev.day, ev.dayOK = e.Day(now.Location())
		if ev.dayOK {
			ev.daysUntil = models.DaysBetween(today, ev.day)
		}

		for _, rule := range rules {
			if r, ok := rule(&ev); ok {
				generated = append(generated, r)
			}
		}
	}

	active := make([]models.Reminder, 0, len(generated))
	for _, r := range generated {
		if dismissed.Has(r.ID) {
			continue
		}
		r.IsRead = read.Has(r.ID)
		r.IsDismissed = dismissed.Has(r.ID)
		active = append(active, r)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority.Rank() < active[j].Priority.Rank()
	})
	return active
}

// evaluation carries the per-event values shared by the rules.
type evaluation struct {
	event     *models.Event
	client    *models.Client
	today     time.Time
	day       time.Time
	dayOK     bool
	daysUntil int
}

// daysSince returns whole days from the optional workflow date (or the event
// date when it is empty) to today. ok is false for a malformed date.
func (ev *evaluation) daysSince(optional string) (time.Time, int, bool) {
	if optional == "" {
		if !ev.dayOK {
			return time.Time{}, 0, false
		}
		return ev.day, models.DaysBetween(ev.day, ev.today), true
	}
	anchor, ok := models.ParseDay(optional, ev.today.Location())
	if !ok {
		return time.Time{}, 0, false
	}
	return anchor, models.DaysBetween(anchor, ev.today), true
}

func (ev *evaluation) clientName() string {
	if ev.client == nil || ev.client.FullName() == "" {
		return "client"
	}
	return ev.client.FullName()
}

// contact picks a phone action when the client has a number.
func (ev *evaluation) contact(action models.ActionType) (models.ActionType, string) {
	if ev.client != nil && ev.client.HasPhone() {
		return action, ev.client.Phone
	}
	return models.ActionNavigate, ev.event.ID
}

type rule func(ev *evaluation) (models.Reminder, bool)

// rules run in this order for every event.
var rules = []rule{
	upcomingEvent,
	teamIncomplete,
	floristPending,
	invoiceOverdue,
	paymentPending,
	clientFollowup,
}

func upcomingEvent(ev *evaluation) (models.Reminder, bool) {
	e := ev.event
	if e.IsTerminal() || !ev.dayOK {
		return models.Reminder{}, false
	}

	var id, title string
	var priority models.ReminderPriority
	switch ev.daysUntil {
	case 7:
		id, title, priority = "upcoming-7-"+e.ID, "Event in one week", models.ReminderPriorityLow
	case 3:
		id, title, priority = "upcoming-3-"+e.ID, "Event in 3 days", models.ReminderPriorityMedium
	case 1:
		id, title, priority = "upcoming-1-"+e.ID, "Event tomorrow", models.ReminderPriorityHigh
	case 0:
		id, title, priority = "today-"+e.ID, "Event today", models.ReminderPriorityUrgent
	default:
		return models.Reminder{}, false
	}

	return models.Reminder{
		ID:          id,
		Type:        models.ReminderTypeEventUpcoming,
		Priority:    priority,
		Title:       title,
		Description: fmt.Sprintf("%s for %s on %s", eventLabel(e), ev.clientName(), e.Date),
		EventID:     e.ID,
		DueDate:     ev.day,
		ActionType:  models.ActionNavigate,
		ActionData:  e.ID,
	}, true
}

func teamIncomplete(ev *evaluation) (models.Reminder, bool) {
	e := ev.event
	if e.IsTerminal() || !ev.dayOK {
		return models.Reminder{}, false
	}

	// Here an event without a headcount still needs one florist.
	required := e.FloristsRequired
	if required <= 0 {
		required = 1
	}
	confirmed := e.ConfirmedCount()
	if confirmed >= required || ev.daysUntil <= 0 || ev.daysUntil > 7 {
		return models.Reminder{}, false
	}

	priority := models.ReminderPriorityMedium
	switch {
	case ev.daysUntil <= 2:
		priority = models.ReminderPriorityUrgent
	case ev.daysUntil <= 4:
		priority = models.ReminderPriorityHigh
	}

	return models.Reminder{
		ID:       "team-incomplete-" + e.ID,
		Type:     models.ReminderTypeTeamIncomplete,
		Priority: priority,
		Title:    "Team incomplete",
		Description: fmt.Sprintf("%s: %d/%d florists confirmed, %d days left",
			eventLabel(e), confirmed, required, ev.daysUntil),
		EventID:    e.ID,
		DueDate:    ev.day,
		ActionType: models.ActionNavigate,
		ActionData: e.ID,
	}, true
}

func floristPending(ev *evaluation) (models.Reminder, bool) {
	e := ev.event
	if e.IsTerminal() || !ev.dayOK {
		return models.Reminder{}, false
	}
	pending := e.PendingCount()
	if pending == 0 {
		return models.Reminder{}, false
	}

	priority := models.ReminderPriorityMedium
	if ev.daysUntil <= 3 {
		priority = models.ReminderPriorityHigh
	}

	return models.Reminder{
		ID:          "florist-pending-" + e.ID,
		Type:        models.ReminderTypeFloristPending,
		Priority:    priority,
		Title:       "Florist answers pending",
		Description: fmt.Sprintf("%s: %d florist(s) have not answered yet", eventLabel(e), pending),
		EventID:     e.ID,
		DueDate:     ev.day,
		ActionType:  models.ActionNavigate,
		ActionData:  e.ID,
	}, true
}

func invoiceOverdue(ev *evaluation) (models.Reminder, bool) {
	e := ev.event
	if e.Status != models.EventStatusCompleted || e.Invoiced {
		return models.Reminder{}, false
	}
	anchor, days, ok := ev.daysSince(e.CompletedDate)
	if !ok || days < 3 {
		return models.Reminder{}, false
	}

	priority := models.ReminderPriorityMedium
	switch {
	case days >= 7:
		priority = models.ReminderPriorityUrgent
	case days >= 5:
		priority = models.ReminderPriorityHigh
	}

	action, data := ev.contact(models.ActionCall)
	return models.Reminder{
		ID:          "invoice-overdue-" + e.ID,
		Type:        models.ReminderTypeInvoiceOverdue,
		Priority:    priority,
		Title:       "Invoice not sent",
		Description: fmt.Sprintf("%s for %s completed %d days ago and is not invoiced", eventLabel(e), ev.clientName(), days),
		EventID:     e.ID,
		DueDate:     anchor,
		ActionType:  action,
		ActionData:  data,
	}, true
}

func paymentPending(ev *evaluation) (models.Reminder, bool) {
	e := ev.event
	if e.Status != models.EventStatusInvoiced || e.Paid {
		return models.Reminder{}, false
	}
	anchor, days, ok := ev.daysSince(e.InvoiceDate)
	if !ok || days < 7 {
		return models.Reminder{}, false
	}

	priority := models.ReminderPriorityMedium
	switch {
	case days >= 30:
		priority = models.ReminderPriorityUrgent
	case days >= 14:
		priority = models.ReminderPriorityHigh
	}

	action, data := ev.contact(models.ActionCall)
	return models.Reminder{
		ID:       "payment-pending-" + e.ID,
		Type:     models.ReminderTypePaymentPending,
		Priority: priority,
		Title:    "Payment pending",
		Description: fmt.Sprintf("%s: invoice of %.2f sent to %s %d days ago is unpaid",
			eventLabel(e), e.Budget, ev.clientName(), days),
		EventID:    e.ID,
		DueDate:    anchor,
		ActionType: action,
		ActionData: data,
	}, true
}

func clientFollowup(ev *evaluation) (models.Reminder, bool) {
	e := ev.event
	if e.Status != models.EventStatusPaid {
		return models.Reminder{}, false
	}
	anchor, days, ok := ev.daysSince(e.PaidDate)
	if !ok || days < 3 || days > 7 {
		return models.Reminder{}, false
	}

	action, data := ev.contact(models.ActionWhatsApp)
	return models.Reminder{
		ID:          "followup-" + e.ID,
		Type:        models.ReminderTypeClientFollowup,
		Priority:    models.ReminderPriorityLow,
		Title:       "Follow up with client",
		Description: fmt.Sprintf("Ask %s for feedback on %s", ev.clientName(), eventLabel(e)),
		EventID:     e.ID,
		DueDate:     anchor,
		ActionType:  action,
		ActionData:  data,
	}, true
}

func eventLabel(e *models.Event) string {
	if e.Title != "" {
		return e.Title
	}
	return "Event " + e.ID
}
