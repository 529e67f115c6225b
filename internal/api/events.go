package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filters repository.EventFilters

	if status := q.Get("status"); status != "" {
		st := models.EventStatus(status)
		if !st.IsValid() {
			s.respondError(w, http.StatusBadRequest, "unknown status")
			return
		}
		filters.Status = &st
	}
	if clientID := q.Get("client_id"); clientID != "" {
		filters.ClientID = &clientID
	}
	for _, p := range []struct {
		name string
		dst  **string
	}{{"from", &filters.From}, {"to", &filters.To}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		if _, ok := models.ParseDay(v, time.UTC); !ok {
			s.respondError(w, http.StatusBadRequest, p.name+" must be a YYYY-MM-DD date")
			return
		}
		*p.dst = &v
	}
	if limit := q.Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			filters.Limit = v
		}
	}

	events, err := s.svc.ListEvents(r.Context(), filters)
	if err != nil {
		s.respondServiceError(w, err, "list events")
		return
	}

	s.respondJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.Event
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateEvent(r.Context(), &req)
	if err != nil {
		s.respondServiceError(w, err, "create event")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.svc.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "get event")
		return
	}

	s.respondJSON(w, http.StatusOK, event)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.Event
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.UpdateEvent(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.respondServiceError(w, err, "update event")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete event")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

type changeStatusRequest struct {
	Status models.EventStatus `json:"status"`
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.ChangeEventStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.respondServiceError(w, err, "change event status")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

// ---------------------------------------------------------------------------
// Assignments
// ---------------------------------------------------------------------------

type assignRequest struct {
	FloristID string `json:"floristId"`
}

type respondAssignmentRequest struct {
	Status models.AssignmentStatus `json:"status"`
}

func (s *Server) handleAssignFlorist(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.FloristID == "" {
		s.respondError(w, http.StatusBadRequest, "floristId is required")
		return
	}

	updated, err := s.svc.AssignFlorist(r.Context(), r.PathValue("id"), req.FloristID)
	if err != nil {
		s.respondServiceError(w, err, "assign florist")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRespondAssignment(w http.ResponseWriter, r *http.Request) {
	var req respondAssignmentRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.RespondAssignment(r.Context(), r.PathValue("id"), r.PathValue("florist"), req.Status)
	if err != nil {
		s.respondServiceError(w, err, "update assignment")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUnassignFlorist(w http.ResponseWriter, r *http.Request) {
	updated, err := s.svc.UnassignFlorist(r.Context(), r.PathValue("id"), r.PathValue("florist"))
	if err != nil {
		s.respondServiceError(w, err, "unassign florist")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

// ---------------------------------------------------------------------------
// Expenses
// ---------------------------------------------------------------------------

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "list expenses")
		return
	}

	s.respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req models.Expense
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	req.EventID = r.PathValue("id")

	created, err := s.svc.AddExpense(r.Context(), &req)
	if err != nil {
		s.respondServiceError(w, err, "add expense")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete expense")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMargin(w http.ResponseWriter, r *http.Request) {
	margin, err := s.svc.EventMargin(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "compute margin")
		return
	}

	s.respondJSON(w, http.StatusOK, margin)
}

// ---------------------------------------------------------------------------
// Board & calendar
// ---------------------------------------------------------------------------

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Board(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "build board")
		return
	}

	s.respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month := s.svc.Now()
	if raw := r.URL.Query().Get("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("month %q must be YYYY-MM", raw))
			return
		}
		month = t
	}

	days, err := s.svc.Calendar(r.Context(), month.Year(), month.Month())
	if err != nil {
		s.respondServiceError(w, err, "build calendar")
		return
	}

	s.respondJSON(w, http.StatusOK, days)
}
