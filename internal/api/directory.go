package api

import (
	"net/http"

	"github.com/Kerhoff/floristbot/internal/models"
)

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.svc.Clients.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list clients")
		return
	}
	if clients == nil {
		clients = []*models.Client{}
	}

	s.respondJSON(w, http.StatusOK, clients)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.Client
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateClient(r.Context(), &req)
	if err != nil {
		s.respondServiceError(w, err, "create client")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.svc.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "get client")
		return
	}

	s.respondJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req models.Client
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.UpdateClient(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.respondServiceError(w, err, "update client")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete client")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

// ---------------------------------------------------------------------------
// Florists
// ---------------------------------------------------------------------------

func (s *Server) handleListFlorists(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"

	florists, err := s.svc.Florists.List(r.Context(), onlyActive)
	if err != nil {
		s.respondServiceError(w, err, "list florists")
		return
	}
	if florists == nil {
		florists = []*models.Florist{}
	}

	s.respondJSON(w, http.StatusOK, florists)
}

func (s *Server) handleCreateFlorist(w http.ResponseWriter, r *http.Request) {
	var req models.Florist
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateFlorist(r.Context(), &req)
	if err != nil {
		s.respondServiceError(w, err, "create florist")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteFlorist(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteFlorist(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete florist")
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}
