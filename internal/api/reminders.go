package api

import (
	"net/http"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/reminders"
)

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPriority := models.ReminderPriorityLow
	if p := q.Get("min_priority"); p != "" {
		minPriority = models.ReminderPriority(p)
		if minPriority.Rank() > models.ReminderPriorityLow.Rank() {
			s.respondError(w, http.StatusBadRequest, "unknown priority")
			return
		}
	}

	rs, err := s.svc.Reminders(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "evaluate reminders")
		return
	}

	s.respondJSON(w, http.StatusOK, reminders.Filter(rs, minPriority, q.Get("unread") == "true"))
}

func (s *Server) handleReminderSummary(w http.ResponseWriter, r *http.Request) {
	rs, err := s.svc.Reminders(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "evaluate reminders")
		return
	}

	s.respondJSON(w, http.StatusOK, reminders.Summarize(rs))
}

func (s *Server) handleDismissReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DismissReminder(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "dismiss reminder")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleReadReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkReminderRead(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "mark reminder read")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}
