package server

import (
	"net/http"

	"github.com/noteforge/noteforge/internal/todos"
)

// handleListTodos handles GET /api/dashboard/todos.
func (s *Service) handleListTodos(w http.ResponseWriter, r *http.Request) {
	list, err := s.todoService().List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCreateTodo handles POST /api/dashboard/todos.
func (s *Service) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todos.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := s.todoService().Create(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// handleUpdateTodo handles PATCH /api/dashboard/todos/{id}.
func (s *Service) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req todos.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := s.todoService().Update(r.Context(), userIDFrom(r.Context()), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// handleDeleteTodo handles DELETE /api/dashboard/todos/{id}.
func (s *Service) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.todoService().Delete(r.Context(), userIDFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
