package server

import (
	"net/http"
	"strconv"

	"github.com/noteforge/noteforge/internal/dashboard"
	"github.com/noteforge/noteforge/pkg/models"
)

func (s *Service) dashboardService() *dashboard.Service {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	return s.dashSvc
}

// handleDashboard handles GET /api/dashboard. An optional "year" query
// parameter selects the heat-map window; default is the current UTC
// year.
func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1970 || parsed > 9999 {
			writeError(w, r, models.ErrInvalidInput)
			return
		}
		year = parsed
	}

	summary, err := s.dashboardService().Summarize(r.Context(), userIDFrom(r.Context()), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
