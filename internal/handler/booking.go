package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
)

const sessionNotFound = "booking not found"

// StartBooking handles POST /bookings: the trip form submission that creates
// a session. Responds 201 with the session and a Location for the next step.
func (s *Server) StartBooking(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.bookings.StartBooking(r.Context(), req.toDomain())
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}

	w.Header().Set("Location", stepPath(sess.Step, sess.ID))
	writeJSON(w, http.StatusCreated, sess)
}

// GetBooking handles GET /bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.bookings.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// AbandonBooking handles DELETE /bookings/{id}.
func (s *Server) AbandonBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.bookings.Abandon(r.Context(), id); err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResubmitTrip handles PUT /bookings/{id}/trip.
func (s *Server) ResubmitTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req tripRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.bookings.ResubmitTrip(r.Context(), id, req.toDomain())
	if err != nil {
		s.writeError(w, r, err, sessionNotFound)
		return
	}
	w.Header().Set("Location", stepPath(sess.Step, sess.ID))
	writeJSON(w, http.StatusOK, sess)
}

// sessionID parses the {id} URL parameter. A malformed id can never name a
// session, so it is answered with 404.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody(sessionNotFound))
		return uuid.Nil, false
	}
	return id, true
}

// stepSessionID is sessionID for step routes. An id that cannot name a
// session means there is no session, which sends the visitor to the trip form.
func stepSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRedirect(w, r, domain.StepTripForm)
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into v, writing the error response itself when
// it fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var (
		tooLarge *http.MaxBytesError
		badDate  *time.ParseError
	)
	switch {
	case errors.As(err, &tooLarge):
		s.writeError(w, r, err, "")
	case errors.As(err, &badDate):
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", badDate.Value)))
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body is required"))
	default:
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(fmt.Sprintf("invalid JSON body: %v", err)))
	}
	return false
}

// stepPath is the entry route of a step for session id.
func stepPath(step domain.Step, id uuid.UUID) string {
	switch step {
	case domain.StepVehicleSelection:
		return fmt.Sprintf("/bookings/%s/vehicles", id)
	case domain.StepPassengerInfo:
		return fmt.Sprintf("/bookings/%s/passenger", id)
	case domain.StepPayment:
		return fmt.Sprintf("/bookings/%s/payment", id)
	default:
		return "/bookings"
	}
}

// writeRedirect answers a guard redirect with 303 See Other.
func writeRedirect(w http.ResponseWriter, r *http.Request, to domain.Step) {
	id, _ := uuid.Parse(chi.URLParam(r, "id"))
	w.Header().Set("Location", stepPath(to, id))
	writeJSON(w, http.StatusSeeOther, stepResponse{Step: to})
}
