package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/metrics"
	"github.com/Kerhoff/floristbot/internal/service"
)

// Server provides the HTTP API of the back office.
type Server struct {
	svc     *service.Service
	logger  *logrus.Logger
	metrics *metrics.Metrics
	mux     *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, m *metrics.Metrics) *Server {
	s := &Server{svc: svc, logger: logger, metrics: m, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.instrument(s.mux)
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Events
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)
	s.mux.HandleFunc("PUT /api/events/{id}/status", s.handleChangeStatus)

	// Assignments
	s.mux.HandleFunc("POST /api/events/{id}/assignments", s.handleAssignFlorist)
	s.mux.HandleFunc("PUT /api/events/{id}/assignments/{florist}", s.handleRespondAssignment)
	s.mux.HandleFunc("DELETE /api/events/{id}/assignments/{florist}", s.handleUnassignFlorist)

	// Expenses
	s.mux.HandleFunc("GET /api/events/{id}/expenses", s.handleListExpenses)
	s.mux.HandleFunc("POST /api/events/{id}/expenses", s.handleAddExpense)
	s.mux.HandleFunc("GET /api/events/{id}/margin", s.handleMargin)
	s.mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	// Clients & florists
	s.mux.HandleFunc("GET /api/clients", s.handleListClients)
	s.mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	s.mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	s.mux.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	s.mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)
	s.mux.HandleFunc("GET /api/florists", s.handleListFlorists)
	s.mux.HandleFunc("POST /api/florists", s.handleCreateFlorist)
	s.mux.HandleFunc("DELETE /api/florists/{id}", s.handleDeleteFlorist)

	// Views
	s.mux.HandleFunc("GET /api/board", s.handleBoard)
	s.mux.HandleFunc("GET /api/calendar", s.handleCalendar)

	// Reminders
	s.mux.HandleFunc("GET /api/reminders", s.handleListReminders)
	s.mux.HandleFunc("GET /api/reminders/summary", s.handleReminderSummary)
	s.mux.HandleFunc("POST /api/reminders/{id}/dismiss", s.handleDismissReminder)
	s.mux.HandleFunc("POST /api/reminders/{id}/read", s.handleReadReminder)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequest(r.Method, route, rec.status)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("HTTP request")
	})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to status codes. Unexpected errors
// are logged and reported as a generic failure.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalid):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrAlreadyAssigned):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.logger.WithError(err).Error("failed to " + action)
		s.respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}
