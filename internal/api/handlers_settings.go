package api

import (
	"encoding/json"
	"net/http"

	"github.com/readmedraft/readmed/internal/storage"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.backend.LoadSettings(r.Context())
	if err != nil {
		jsonError(w, "load settings: "+err.Error(), http.StatusBadGateway)
		return
	}
	if settings == nil {
		settings = storage.Settings{}
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings storage.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		jsonError(w, "invalid settings: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.backend.SaveSettings(r.Context(), settings); err != nil {
		jsonError(w, "save settings: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
