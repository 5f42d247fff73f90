package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noteforge/noteforge/internal/db/gorm"
	"github.com/noteforge/noteforge/internal/notes"
	"github.com/noteforge/noteforge/internal/todos"
	"github.com/noteforge/noteforge/pkg/models"
)

func (s *Service) noteService() *notes.Service {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	return s.noteSvc
}

func (s *Service) todoService() *todos.Service {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	return s.todoSvc
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrInvalidInput
	}
	return id, nil
}

// handleCreateNote handles POST /api/notes. The note is persisted
// immediately; enrichment runs in the background.
func (s *Service) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req notes.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.noteService().Create(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// handleListNotes handles GET /api/notes.
func (s *Service) handleListNotes(w http.ResponseWriter, r *http.Request) {
	params := gorm.ParsePageParams(r)
	resp, err := s.noteService().List(r.Context(), userIDFrom(r.Context()), params.PageSize, params.Offset())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetNote handles GET /api/notes/{id}.
func (s *Service) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	note, err := s.noteService().Get(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// handleGetAnalysis handles GET /api/notes/{id}/analysis.
func (s *Service) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.noteService().GetAnalysis(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleUpdateNote handles PATCH /api/notes/{id}.
func (s *Service) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req notes.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := s.noteService().Update(r.Context(), userIDFrom(r.Context()), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// handleDeleteNote handles DELETE /api/notes/{id}.
func (s *Service) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.noteService().Delete(r.Context(), userIDFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// acceptTodosRequest is the payload for accepting suggested todos.
type acceptTodosRequest struct {
	Todos []models.SuggestedTodo `json:"todos"`
}

// handleAcceptTodos handles POST /api/notes/{id}/todos. Suggestions
// matching an existing todo's content are silently dropped.
func (s *Service) handleAcceptTodos(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req acceptTodosRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	accepted, err := s.todoService().Reconcile(r.Context(), userIDFrom(r.Context()), id, req.Todos)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"accepted": accepted,
		"count":    len(accepted),
	})
}
