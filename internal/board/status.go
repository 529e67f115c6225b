// Package board derives the kanban and calendar views of bookings from their
// stored status and florist assignments.
package board

import "github.com/Kerhoff/floristbot/internal/models"

// DeriveDisplayStatus returns the column an event belongs to on the board.
// Completed and cancelled events keep their status. Events without a team
// requirement keep their stored status. Otherwise the column follows how many
// florists are assigned and confirmed. The event is never modified.
func DeriveDisplayStatus(e *models.Event) models.EventStatus {
	if e == nil {
		return models.EventStatusDraft
	}
	if e.Status == models.EventStatusCompleted || e.Status == models.EventStatusCancelled {
		return e.Status
	}
	if e.FloristsRequired <= 0 {
		return e.Status
	}

	confirmed := e.ConfirmedCount()
	assigned := len(e.AssignedFlorists)

	switch {
	case confirmed >= e.FloristsRequired:
		return models.EventStatusConfirmed
	case assigned >= e.FloristsRequired:
		return models.EventStatusInProgress
	default:
		return models.EventStatusDraft
	}
}
