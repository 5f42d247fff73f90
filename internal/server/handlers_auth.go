package server

import (
	"net/http"

	"github.com/noteforge/noteforge/internal/auth"
)

func (s *Service) authService() *auth.Service {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	return s.authSvc
}

// handleSignup handles POST /api/auth/signup.
func (s *Service) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.authService().Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// loginRequest is the payload for credential login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /api/auth/login.
func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := s.authService().Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// refreshRequest is the payload for token refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleRefresh handles POST /api/auth/refresh.
func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := s.authService().Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
