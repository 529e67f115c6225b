package models

// AssignmentStatus is a florist's answer to a booking request
type AssignmentStatus string

const (
	AssignmentStatusPending     AssignmentStatus = "pending"
	AssignmentStatusConfirmed   AssignmentStatus = "confirmed"
	AssignmentStatusRefused     AssignmentStatus = "refused"
	AssignmentStatusNotSelected AssignmentStatus = "not_selected"
)

// IsValid reports whether s is a known assignment status
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusConfirmed, AssignmentStatusRefused, AssignmentStatusNotSelected:
		return true
	}
	return false
}

// Assignment links one florist to one event
type Assignment struct {
	FloristID   string           `json:"floristId" db:"florist_id"`
	Status      AssignmentStatus `json:"status" db:"status"`
	IsConfirmed bool             `json:"isConfirmed" db:"is_confirmed"`
}

// IsAssignmentConfirmed is the only place deciding whether a florist counts as
// confirmed. Either the status or the legacy flag is enough.
func IsAssignmentConfirmed(a Assignment) bool {
	return a.Status == AssignmentStatusConfirmed || a.IsConfirmed
}
