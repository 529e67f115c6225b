package reminders

import "github.com/Kerhoff/floristbot/internal/models"

// Summary counts reminders for badges and digests
type Summary struct {
	Total      int                             `json:"total"`
	Unread     int                             `json:"unread"`
	ByPriority map[models.ReminderPriority]int `json:"byPriority"`
	ByType     map[models.ReminderType]int     `json:"byType"`
}

// Summarize counts rs by priority and type.
func Summarize(rs []models.Reminder) Summary {
	s := Summary{
		Total:      len(rs),
		ByPriority: make(map[models.ReminderPriority]int),
		ByType:     make(map[models.ReminderType]int),
	}
	for _, r := range rs {
		if !r.IsRead {
			s.Unread++
		}
		s.ByPriority[r.Priority]++
		s.ByType[r.Type]++
	}
	return s
}

// Filter keeps reminders at or above min priority, optionally unread only.
func Filter(rs []models.Reminder, min models.ReminderPriority, unreadOnly bool) []models.Reminder {
	out := make([]models.Reminder, 0, len(rs))
	for _, r := range rs {
		if unreadOnly && r.IsRead {
			continue
		}
		if r.Priority.AtLeast(min) {
			out = append(out, r)
		}
	}
	return out
}
