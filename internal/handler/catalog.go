package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
)

// ListVehicles handles GET /vehicles. It returns the whole fleet in
// catalog order, regardless of any booking.
func (s *Server) ListVehicles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

// GetVehicle handles GET /vehicles/{vehicleId}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "vehicleId"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody("vehicle not found"))
		return
	}
	v, err := s.catalog.ByID(id)
	if err != nil {
		s.writeError(w, r, err, "vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ListAirports handles GET /airports.
func (s *Server) ListAirports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Airports())
}
