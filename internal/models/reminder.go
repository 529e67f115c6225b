package models

import "time"

// ReminderType identifies the rule family that produced a reminder
type ReminderType string

const (
	ReminderTypeEventUpcoming  ReminderType = "event_upcoming"
	ReminderTypeTeamIncomplete ReminderType = "team_incomplete"
	ReminderTypeFloristPending ReminderType = "florist_pending"
	ReminderTypeInvoiceOverdue ReminderType = "invoice_overdue"
	ReminderTypePaymentPending ReminderType = "payment_pending"
	ReminderTypeClientFollowup ReminderType = "client_followup"
)

// ReminderPriority defines how prominently a reminder is shown
type ReminderPriority string

const (
	ReminderPriorityUrgent ReminderPriority = "urgent"
	ReminderPriorityHigh   ReminderPriority = "high"
	ReminderPriorityMedium ReminderPriority = "medium"
	ReminderPriorityLow    ReminderPriority = "low"
)

// Rank orders priorities, urgent first. Unknown priorities sort last.
func (p ReminderPriority) Rank() int {
	switch p {
	case ReminderPriorityUrgent:
		return 0
	case ReminderPriorityHigh:
		return 1
	case ReminderPriorityMedium:
		return 2
	case ReminderPriorityLow:
		return 3
	}
	return 4
}

// AtLeast reports whether p is as important as min or more.
func (p ReminderPriority) AtLeast(min ReminderPriority) bool {
	return p.Rank() <= min.Rank()
}

// ActionType tells the caller what to do with a reminder
type ActionType string

const (
	ActionNavigate ActionType = "navigate"
	ActionCall     ActionType = "call"
	ActionWhatsApp ActionType = "whatsapp"
)

// Reminder is a derived notice about a booking. It is regenerated on every
// evaluation and never stored; its ID is stable for the same condition.
type Reminder struct {
	ID          string           `json:"id"`
	Type        ReminderType     `json:"type"`
	Priority    ReminderPriority `json:"priority"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	EventID     string           `json:"eventId"`
	DueDate     time.Time        `json:"dueDate"`
	ActionType  ActionType       `json:"actionType"`
	ActionData  string           `json:"actionData"`
	IsRead      bool             `json:"isRead"`
	IsDismissed bool             `json:"isDismissed"`
}

// ReminderStateKind names one of the two persisted id sets
type ReminderStateKind string

const (
	ReminderStateDismissed ReminderStateKind = "dismissed"
	ReminderStateRead      ReminderStateKind = "read"
)
