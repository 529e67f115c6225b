package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// EventStatus is the stored workflow status of a booking
type EventStatus string

const (
	EventStatusDraft      EventStatus = "draft"
	EventStatusPlanning   EventStatus = "planning"
	EventStatusConfirmed  EventStatus = "confirmed"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusCompleted  EventStatus = "completed"
	EventStatusInvoiced   EventStatus = "invoiced"
	EventStatusPaid       EventStatus = "paid"
	EventStatusCancelled  EventStatus = "cancelled"
)

// EventStatuses lists every status in workflow order.
var EventStatuses = []EventStatus{
	EventStatusDraft,
	EventStatusPlanning,
	EventStatusConfirmed,
	EventStatusInProgress,
	EventStatusCompleted,
	EventStatusInvoiced,
	EventStatusPaid,
	EventStatusCancelled,
}

// IsValid reports whether s is a known status
func (s EventStatus) IsValid() bool {
	for _, known := range EventStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// transitions holds the forward edges of the booking workflow. Cancelled is
// added separately for every non-terminal state.
var transitions = map[EventStatus]EventStatus{
	EventStatusDraft:      EventStatusPlanning,
	EventStatusPlanning:   EventStatusConfirmed,
	EventStatusConfirmed:  EventStatusInProgress,
	EventStatusInProgress: EventStatusCompleted,
	EventStatusCompleted:  EventStatusInvoiced,
	EventStatusInvoiced:   EventStatusPaid,
}

// CanTransition reports whether a stored status may move from one state to another.
func CanTransition(from, to EventStatus) bool {
	if from == to || !from.IsValid() || !to.IsValid() {
		return false
	}
	if to == EventStatusCancelled {
		switch from {
		case EventStatusDraft, EventStatusPlanning, EventStatusConfirmed, EventStatusInProgress:
			return true
		}
		return false
	}
	return transitions[from] == to
}

// Event represents a florist booking for a client
type Event struct {
	ID               string       `json:"id" db:"id"`
	Title            string       `json:"title" db:"title"`
	ClientID         string       `json:"clientId" db:"client_id"`
	Date             string       `json:"date" db:"event_date"`
	Time             string       `json:"time" db:"event_time"`
	Venue            string       `json:"venue" db:"venue"`
	Status           EventStatus  `json:"status" db:"status"`
	FloristsRequired int          `json:"floristsRequired" db:"florists_required"`
	AssignedFlorists []Assignment `json:"assignedFlorists"`
	Budget           float64      `json:"budget" db:"budget"`
	Invoiced         bool         `json:"invoiced" db:"invoiced"`
	Paid             bool         `json:"paid" db:"paid"`
	InvoiceDate      string       `json:"invoiceDate,omitempty" db:"invoice_date"`
	PaidDate         string       `json:"paidDate,omitempty" db:"paid_date"`
	CompletedDate    string       `json:"completedDate,omitempty" db:"completed_date"`
	Notes            string       `json:"notes" db:"notes"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time    `json:"updatedAt" db:"updated_at"`
}

// Day returns the event date as a calendar day in loc.
func (e *Event) Day(loc *time.Location) (time.Time, bool) {
	return ParseDay(e.Date, loc)
}

// IsTerminal returns true for statuses that no longer need team or countdown reminders
func (e *Event) IsTerminal() bool {
	switch e.Status {
	case EventStatusCancelled, EventStatusCompleted, EventStatusInvoiced, EventStatusPaid:
		return true
	}
	return false
}

// Assignment returns the assignment for floristID, or nil.
func (e *Event) Assignment(floristID string) *Assignment {
	for i := range e.AssignedFlorists {
		if e.AssignedFlorists[i].FloristID == floristID {
			return &e.AssignedFlorists[i]
		}
	}
	return nil
}

// ConfirmedCount counts assignments accepted by the florist.
func (e *Event) ConfirmedCount() int {
	n := 0
	for _, a := range e.AssignedFlorists {
		if IsAssignmentConfirmed(a) {
			n++
		}
	}
	return n
}

// PendingCount counts assignments still awaiting an answer.
func (e *Event) PendingCount() int {
	n := 0
	for _, a := range e.AssignedFlorists {
		if a.Status == AssignmentStatusPending {
			n++
		}
	}
	return n
}

// Validate checks the fields a booking must carry before it is stored. All
// problems are reported together.
func (e *Event) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(e.Title) == "" {
		result = multierror.Append(result, errors.New("title is required"))
	}
	if _, ok := ParseDay(e.Date, time.UTC); !ok {
		result = multierror.Append(result, fmt.Errorf("date %q is not a valid date", e.Date))
	}
	if !e.Status.IsValid() {
		result = multierror.Append(result, fmt.Errorf("unknown status %q", e.Status))
	}
	if e.FloristsRequired < 0 {
		result = multierror.Append(result, errors.New("florists required cannot be negative"))
	}
	if e.Budget < 0 {
		result = multierror.Append(result, errors.New("budget cannot be negative"))
	}
	for _, opt := range []struct{ name, value string }{
		{"invoice date", e.InvoiceDate},
		{"paid date", e.PaidDate},
		{"completed date", e.CompletedDate},
	} {
		if opt.value == "" {
			continue
		}
		if _, ok := ParseDay(opt.value, time.UTC); !ok {
			result = multierror.Append(result, fmt.Errorf("%s %q is not a valid date", opt.name, opt.value))
		}
	}

	return result.ErrorOrNil()
}
